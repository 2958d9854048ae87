package quiz

import (
	"context"
	"time"
)

type AttemptListOpts struct {
	ModuleID  string
	StudentID string
	Limit     int
	Offset    int
}

// Store is the persistence collaborator. Questions, banks and modules are
// read-only to the engine; attempts are insert-only; progress is
// increment-only. Cross-entity atomicity is not required (attempt persistence
// is the source of truth, progress is best-effort).
type Store interface {
	GetModule(ctx context.Context, moduleID string) (Module, error)
	GetBank(ctx context.Context, moduleID string) (Bank, error)
	// GetQuestions resolves the given IDs; IDs that do not resolve are simply
	// absent from the result.
	GetQuestions(ctx context.Context, ids []string) ([]Question, error)

	PutAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]AttemptSummary, error)

	// IncrementProgress adds 1 to the completion counter and appends one access
	// timestamp. Returns ErrNotFound when the student has no progress record
	// for the course (enrollment owns creation).
	IncrementProgress(ctx context.Context, studentID, courseID string, at time.Time) error
}

// GradeSource is the grade-aggregation collaborator. A student with no graded
// attempts averages to 0; the engine does not special-case missing history.
type GradeSource interface {
	AverageGrade(ctx context.Context, courseID, studentID string) (float64, error)
}

// EventSink receives submission events. Failures are logged, never surfaced.
type EventSink interface {
	AttemptSubmitted(ctx context.Context, a Attempt) error
}
