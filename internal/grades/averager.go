package grades

import (
	"context"
	"database/sql"
)

// Averager is the grade-aggregation collaborator: a student's rolling average
// for a course is the mean, over the course's modules, of the highest attempt
// score per module. Modules the student never attempted are skipped; no
// attempts at all averages to 0.
type Averager struct {
	db *sql.DB
}

func New(db *sql.DB) *Averager { return &Averager{db: db} }

func (g *Averager) AverageGrade(ctx context.Context, courseID, studentID string) (float64, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT MAX(a.score)
		   FROM modules m
		   JOIN quiz_attempts a ON a.module_id = m.id AND a.student_id = $2
		  WHERE m.course_id = $1
		  GROUP BY m.id`,
		courseID, studentID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var sum float64
	var n int
	for rows.Next() {
		var best float64
		if err := rows.Scan(&best); err != nil {
			return 0, err
		}
		sum += best
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}
