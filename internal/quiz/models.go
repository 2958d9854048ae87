package quiz

// Question types and module assessment policies. A question is always a
// concrete type; "mix" is only valid as a module's assessmentType.
const (
	TypeMCQ       = "mcq"
	TypeTrueFalse = "true_false"
	TypeMix       = "mix"
)

const (
	GradePassed = "passed"
	GradeFailed = "failed"
)

// PassingScore is the fixed pass/fail threshold; a score at the boundary passes.
const PassingScore = 50.0

type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"question"`
	Choices     []string `json:"choices"` // exactly 2 (true_false) or 4 (mcq)
	RightChoice string   `json:"right_choice,omitempty"`
	Difficulty  int      `json:"difficulty"` // tier 1..3
	Type        string   `json:"type"`       // mcq|true_false
	CreatedAt   int64    `json:"created_at,omitempty"`
}

// Bank is the per-module pool of candidate question IDs.
type Bank struct {
	ID          string   `json:"id"`
	ModuleID    string   `json:"module_id"`
	QuestionIDs []string `json:"questions"`
}

// Module carries the assessment policy the generator reads. Course/module CRUD
// lives outside the engine; only the policy fields matter here.
type Module struct {
	ID                string `json:"id"`
	CourseID          string `json:"course_id"`
	Title             string `json:"title"`
	AssessmentType    string `json:"assessment_type"` // mcq|true_false|mix
	NumberOfQuestions int    `json:"number_of_questions"`
}

// Attempt is one immutable graded submission. Question and answer order is the
// exact order presented/submitted; feedback relies on it.
type Attempt struct {
	ID          string   `json:"id"`
	StudentID   string   `json:"student_id"`
	ModuleID    string   `json:"module_id"`
	QuestionIDs []string `json:"questions"`
	Answers     []string `json:"answers"`
	Score       float64  `json:"score"`
	FinalGrade  string   `json:"final_grade"`
	CreatedAt   int64    `json:"created_at"`
}

// AttemptSummary is the listing shape; it omits the answer arrays.
type AttemptSummary struct {
	ID         string  `json:"id"`
	StudentID  string  `json:"student_id"`
	ModuleID   string  `json:"module_id"`
	Score      float64 `json:"score"`
	FinalGrade string  `json:"final_grade"`
	CreatedAt  int64   `json:"created_at"`
}

// Quiz is what generation hands to the caller: question IDs with their choice
// sets, index-aligned. Right choices are never included.
type Quiz struct {
	ModuleID    string     `json:"module_id"`
	QuestionIDs []string   `json:"questions"`
	Choices     [][]string `json:"choices"`
}

type QuestionFeedback struct {
	Question      string `json:"question"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

type Feedback struct {
	StudentID string             `json:"-"` // for ownership checks only
	Score     float64            `json:"score"`
	Items     []QuestionFeedback `json:"feedback"`
	Message   string             `json:"message"`
}

// Progress is per-student completion state for a course. The engine only ever
// increments it; enrollment owns creation.
type Progress struct {
	StudentID    string  `json:"student_id"`
	CourseID     string  `json:"course_id"`
	Completion   int     `json:"completion"`
	LastAccessed []int64 `json:"last_accessed"`
}
