package bank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-lms/internal/quiz"
)

// Service owns question authoring: banks are created lazily per module and
// keep the set of question IDs; the quiz engine only ever reads them.
type Service struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Service { return &Service{db: db, now: time.Now} }

type CreateQuestionInput struct {
	Text        string   `json:"question"`
	Choices     []string `json:"choices"`
	RightChoice string   `json:"right_choice"`
	Difficulty  int      `json:"difficulty"`
	Type        string   `json:"type"`
}

// UpdateQuestionInput carries only the fields to change.
type UpdateQuestionInput struct {
	Text        *string  `json:"question,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	RightChoice *string  `json:"right_choice,omitempty"`
	Difficulty  *int     `json:"difficulty,omitempty"`
}

// EnsureBank returns the module's question bank, creating an empty one on
// first use. Idempotent; repeated calls return the same bank.
func (s *Service) EnsureBank(ctx context.Context, moduleID string) (quiz.Bank, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM modules WHERE id=$1`, moduleID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Bank{}, fmt.Errorf("%w: module %s", quiz.ErrNotFound, moduleID)
	}
	if err != nil {
		return quiz.Bank{}, err
	}

	b, err := s.getBank(ctx, moduleID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return quiz.Bank{}, err
	}

	b = quiz.Bank{ID: uuid.NewString(), ModuleID: moduleID, QuestionIDs: []string{}}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO question_banks (id, module_id, question_ids_json, created_at) VALUES ($1,$2,'[]',$3)`,
		b.ID, moduleID, s.now().Unix())
	if err != nil {
		// lost a create race; the existing bank wins
		if existing, gerr := s.getBank(ctx, moduleID); gerr == nil {
			return existing, nil
		}
		return quiz.Bank{}, err
	}
	return b, nil
}

// ListBank returns the module's questions including right choices; this is the
// instructor view, never served to students.
func (s *Service) ListBank(ctx context.Context, moduleID string) ([]quiz.Question, error) {
	b, err := s.getBank(ctx, moduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: question bank for module %s", quiz.ErrNotFound, moduleID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]quiz.Question, 0, len(b.QuestionIDs))
	for _, id := range b.QuestionIDs {
		q, err := s.getQuestion(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *Service) CreateQuestion(ctx context.Context, moduleID string, in CreateQuestionInput) (quiz.Question, error) {
	if err := validateNewQuestion(in); err != nil {
		return quiz.Question{}, err
	}

	var dup int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM questions WHERE question=$1`, in.Text).Scan(&dup)
	if err == nil {
		return quiz.Question{}, fmt.Errorf("%w: question already exists", quiz.ErrInvalidInput)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return quiz.Question{}, err
	}

	b, err := s.EnsureBank(ctx, moduleID)
	if err != nil {
		return quiz.Question{}, err
	}

	q := quiz.Question{
		ID:          uuid.NewString(),
		Text:        in.Text,
		Choices:     in.Choices,
		RightChoice: in.RightChoice,
		Difficulty:  in.Difficulty,
		Type:        in.Type,
		CreatedAt:   s.now().Unix(),
	}
	choices, err := json.Marshal(q.Choices)
	if err != nil {
		return quiz.Question{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id, question, choices_json, right_choice, difficulty, type, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		q.ID, q.Text, string(choices), q.RightChoice, q.Difficulty, q.Type, q.CreatedAt)
	if err != nil {
		return quiz.Question{}, err
	}

	if err := s.saveBankIDs(ctx, b.ID, append(b.QuestionIDs, q.ID)); err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, moduleID, questionID string, in UpdateQuestionInput) (quiz.Question, error) {
	b, err := s.getBank(ctx, moduleID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !contains(b.QuestionIDs, questionID)) {
		return quiz.Question{}, fmt.Errorf("%w: question %s in module %s", quiz.ErrNotFound, questionID, moduleID)
	}
	if err != nil {
		return quiz.Question{}, err
	}

	q, err := s.getQuestion(ctx, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Question{}, fmt.Errorf("%w: question %s", quiz.ErrNotFound, questionID)
	}
	if err != nil {
		return quiz.Question{}, err
	}

	if in.Text != nil {
		q.Text = *in.Text
	}
	if in.Choices != nil {
		q.Choices = in.Choices
	}
	if in.RightChoice != nil {
		q.RightChoice = *in.RightChoice
	}
	if in.Difficulty != nil {
		q.Difficulty = *in.Difficulty
	}
	if err := validateQuestion(q); err != nil {
		return quiz.Question{}, err
	}

	choices, err := json.Marshal(q.Choices)
	if err != nil {
		return quiz.Question{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE questions SET question=$1, choices_json=$2, right_choice=$3, difficulty=$4 WHERE id=$5`,
		q.Text, string(choices), q.RightChoice, q.Difficulty, q.ID)
	if err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, moduleID, questionID string) error {
	b, err := s.getBank(ctx, moduleID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !contains(b.QuestionIDs, questionID)) {
		return fmt.Errorf("%w: question %s in module %s", quiz.ErrNotFound, questionID, moduleID)
	}
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, questionID); err != nil {
		return err
	}
	remaining := make([]string, 0, len(b.QuestionIDs))
	for _, id := range b.QuestionIDs {
		if id != questionID {
			remaining = append(remaining, id)
		}
	}
	return s.saveBankIDs(ctx, b.ID, remaining)
}

func (s *Service) getBank(ctx context.Context, moduleID string) (quiz.Bank, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, module_id, question_ids_json FROM question_banks WHERE module_id=$1`, moduleID)
	var b quiz.Bank
	var idsJSON string
	if err := row.Scan(&b.ID, &b.ModuleID, &idsJSON); err != nil {
		return quiz.Bank{}, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &b.QuestionIDs); err != nil {
		return quiz.Bank{}, err
	}
	return b, nil
}

func (s *Service) getQuestion(ctx context.Context, id string) (quiz.Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, choices_json, right_choice, difficulty, type, created_at FROM questions WHERE id=$1`, id)
	var q quiz.Question
	var choicesJSON string
	if err := row.Scan(&q.ID, &q.Text, &choicesJSON, &q.RightChoice, &q.Difficulty, &q.Type, &q.CreatedAt); err != nil {
		return quiz.Question{}, err
	}
	if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

func (s *Service) saveBankIDs(ctx context.Context, bankID string, ids []string) error {
	buf, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE question_banks SET question_ids_json=$1 WHERE id=$2`, string(buf), bankID)
	return err
}

func validateNewQuestion(in CreateQuestionInput) error {
	if in.Text == "" {
		return fmt.Errorf("%w: question text required", quiz.ErrInvalidInput)
	}
	if in.Type != quiz.TypeMCQ && in.Type != quiz.TypeTrueFalse {
		return fmt.Errorf("%w: unknown question type %q", quiz.ErrInvalidInput, in.Type)
	}
	return validateQuestion(quiz.Question{
		Text:        in.Text,
		Choices:     in.Choices,
		RightChoice: in.RightChoice,
		Difficulty:  in.Difficulty,
		Type:        in.Type,
	})
}

func validateQuestion(q quiz.Question) error {
	if q.Type == quiz.TypeMCQ && len(q.Choices) != 4 {
		return fmt.Errorf("%w: mcq questions need 4 choices", quiz.ErrInvalidInput)
	}
	if q.Type == quiz.TypeTrueFalse && len(q.Choices) != 2 {
		return fmt.Errorf("%w: true/false questions need 2 choices", quiz.ErrInvalidInput)
	}
	if !contains(q.Choices, q.RightChoice) {
		return fmt.Errorf("%w: right choice must be one of the provided choices", quiz.ErrInvalidInput)
	}
	if q.Difficulty < 1 || q.Difficulty > 3 {
		return fmt.Errorf("%w: difficulty must be between 1 and 3", quiz.ErrInvalidInput)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
