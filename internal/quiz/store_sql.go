package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore backs the engine with the shared database (sqlite offline,
// postgres online). Choice/ID arrays ride along as JSON columns.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) GetModule(ctx context.Context, moduleID string) (Module, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, course_id, title, assessment_type, number_of_questions FROM modules WHERE id=$1`, moduleID)
	var m Module
	if err := row.Scan(&m.ID, &m.CourseID, &m.Title, &m.AssessmentType, &m.NumberOfQuestions); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Module{}, fmt.Errorf("%w: module %s", ErrNotFound, moduleID)
		}
		return Module{}, err
	}
	return m, nil
}

func (s *SQLStore) GetBank(ctx context.Context, moduleID string) (Bank, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, module_id, question_ids_json FROM question_banks WHERE module_id=$1`, moduleID)
	var b Bank
	var idsJSON string
	if err := row.Scan(&b.ID, &b.ModuleID, &idsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bank{}, fmt.Errorf("%w: question bank for module %s", ErrNotFound, moduleID)
		}
		return Bank{}, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &b.QuestionIDs); err != nil {
		return Bank{}, err
	}
	return b, nil
}

func (s *SQLStore) GetQuestions(ctx context.Context, ids []string) ([]Question, error) {
	out := make([]Question, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		q, err := s.getQuestion(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue // unresolved IDs are the caller's problem
			}
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *SQLStore) getQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, choices_json, right_choice, difficulty, type, created_at FROM questions WHERE id=$1`, id)
	var q Question
	var choicesJSON string
	if err := row.Scan(&q.ID, &q.Text, &choicesJSON, &q.RightChoice, &q.Difficulty, &q.Type, &q.CreatedAt); err != nil {
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) PutAttempt(ctx context.Context, a Attempt) error {
	qids, err := json.Marshal(a.QuestionIDs)
	if err != nil {
		return err
	}
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, student_id, module_id, question_ids_json, answers_json, score, final_grade, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.StudentID, a.ModuleID, string(qids), string(answers), a.Score, a.FinalGrade, a.CreatedAt)
	return err
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, student_id, module_id, question_ids_json, answers_json, score, final_grade, created_at
		 FROM quiz_attempts WHERE id=$1`, id)
	var a Attempt
	var qidsJSON, answersJSON string
	if err := row.Scan(&a.ID, &a.StudentID, &a.ModuleID, &qidsJSON, &answersJSON, &a.Score, &a.FinalGrade, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, fmt.Errorf("%w: attempt %s", ErrNotFound, id)
		}
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(qidsJSON), &a.QuestionIDs); err != nil {
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &a.Answers); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]AttemptSummary, error) {
	q := `SELECT id, student_id, module_id, score, final_grade, created_at FROM quiz_attempts`
	var conds []string
	var args []any
	if opts.ModuleID != "" {
		args = append(args, opts.ModuleID)
		conds = append(conds, fmt.Sprintf("module_id=$%d", len(args)))
	}
	if opts.StudentID != "" {
		args = append(args, opts.StudentID)
		conds = append(conds, fmt.Sprintf("student_id=$%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY created_at DESC"
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	q += fmt.Sprintf(" LIMIT $%d", len(args))
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AttemptSummary{}
	for rows.Next() {
		var a AttemptSummary
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ModuleID, &a.Score, &a.FinalGrade, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) IncrementProgress(ctx context.Context, studentID, courseID string, at time.Time) error {
	row := s.db.QueryRowContext(ctx,
		`SELECT last_accessed_json FROM course_progress WHERE student_id=$1 AND course_id=$2`,
		studentID, courseID)
	var accessedJSON string
	if err := row.Scan(&accessedJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: progress for student %s in course %s", ErrNotFound, studentID, courseID)
		}
		return err
	}
	var accessed []int64
	if err := json.Unmarshal([]byte(accessedJSON), &accessed); err != nil {
		accessed = nil
	}
	accessed = append(accessed, at.Unix())
	buf, err := json.Marshal(accessed)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE course_progress SET completion=completion+1, last_accessed_json=$1 WHERE student_id=$2 AND course_id=$3`,
		string(buf), studentID, courseID)
	return err
}
