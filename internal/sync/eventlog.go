package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/studyhall/studyhall-lms/internal/quiz"
)

type Event struct {
	Seq       int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

// EventRepo appends engine events to the shared event_log table. Writes are
// best-effort; callers log and move on when Append fails.
type EventRepo struct {
	db     *sql.DB
	siteID string
}

func NewEventRepo(db *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		r.siteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// attemptEvent is the payload recorded for a graded submission. Answers are
// deliberately not logged.
type attemptEvent struct {
	AttemptID  string  `json:"attempt_id"`
	StudentID  string  `json:"student_id"`
	ModuleID   string  `json:"module_id"`
	Score      float64 `json:"score"`
	FinalGrade string  `json:"final_grade"`
}

// AttemptSubmitted satisfies quiz.EventSink.
func (r *EventRepo) AttemptSubmitted(ctx context.Context, a quiz.Attempt) error {
	data, err := json.Marshal(attemptEvent{
		AttemptID:  a.ID,
		StudentID:  a.StudentID,
		ModuleID:   a.ModuleID,
		Score:      a.Score,
		FinalGrade: a.FinalGrade,
	})
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: "attempt_submitted", Key: a.ID, DataJSON: string(data)})
}
