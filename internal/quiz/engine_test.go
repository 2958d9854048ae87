package quiz_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/studyhall/studyhall-lms/internal/quiz"
)

type fakeGrades struct {
	avg float64
	err error
}

func (f fakeGrades) AverageGrade(ctx context.Context, courseID, studentID string) (float64, error) {
	return f.avg, f.err
}

type captureEvents struct {
	attempts []quiz.Attempt
	err      error
}

func (c *captureEvents) AttemptSubmitted(ctx context.Context, a quiz.Attempt) error {
	c.attempts = append(c.attempts, a)
	return c.err
}

func seededStore(t *testing.T) *quiz.MemoryStore {
	t.Helper()
	st := quiz.NewMemoryStore()
	st.PutModule(quiz.Module{
		ID: "mod-1", CourseID: "course-1", Title: "Algebra",
		AssessmentType: quiz.TypeMix, NumberOfQuestions: 10,
	})
	st.PutBank(quiz.Bank{ID: "bank-1", ModuleID: "mod-1",
		QuestionIDs: []string{"q1", "q2", "q3", "q4", "q5", "q6"}})
	st.PutQuestion(quiz.Question{ID: "q1", Text: "1+1?", Type: quiz.TypeMCQ,
		Choices: []string{"1", "2", "3", "4"}, RightChoice: "2", Difficulty: 1})
	st.PutQuestion(quiz.Question{ID: "q2", Text: "2*3?", Type: quiz.TypeMCQ,
		Choices: []string{"5", "6", "7", "8"}, RightChoice: "6", Difficulty: 2})
	st.PutQuestion(quiz.Question{ID: "q3", Text: "sqrt(16)?", Type: quiz.TypeMCQ,
		Choices: []string{"2", "3", "4", "5"}, RightChoice: "4", Difficulty: 2})
	st.PutQuestion(quiz.Question{ID: "q4", Text: "0 is even", Type: quiz.TypeTrueFalse,
		Choices: []string{"True", "False"}, RightChoice: "True", Difficulty: 2})
	st.PutQuestion(quiz.Question{ID: "q5", Text: "d/dx x^2?", Type: quiz.TypeMCQ,
		Choices: []string{"x", "2x", "x^2", "2"}, RightChoice: "2x", Difficulty: 3})
	st.PutQuestion(quiz.Question{ID: "q6", Text: "pi is rational", Type: quiz.TypeTrueFalse,
		Choices: []string{"True", "False"}, RightChoice: "False", Difficulty: 3})
	st.PutProgress(quiz.Progress{StudentID: "stu-1", CourseID: "course-1", Completion: 2})
	return st
}

func newTestEngine(st quiz.Store, avg float64, opts ...quiz.Option) *quiz.Engine {
	base := []quiz.Option{
		quiz.WithRand(rand.New(rand.NewSource(42))),
		quiz.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	}
	return quiz.NewEngine(st, fakeGrades{avg: avg}, append(base, opts...)...)
}

func TestGenerateMatchesTier(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	tierOf := map[string]int{"q1": 1, "q2": 2, "q3": 2, "q4": 2, "q5": 3, "q6": 3}

	cases := []struct {
		avg      float64
		wantTier int
	}{
		{30, 1},
		{60, 2},
		{90, 3},
	}
	for _, c := range cases {
		e := newTestEngine(st, c.avg)
		qz, err := e.Generate(ctx, "mod-1", "stu-1")
		if err != nil {
			t.Fatalf("Generate(avg=%v): %v", c.avg, err)
		}
		if len(qz.QuestionIDs) == 0 {
			t.Fatalf("Generate(avg=%v): empty quiz", c.avg)
		}
		for _, id := range qz.QuestionIDs {
			if tierOf[id] != c.wantTier {
				t.Errorf("avg=%v picked %s (tier %d), want tier %d", c.avg, id, tierOf[id], c.wantTier)
			}
		}
	}
}

func TestGenerateRespectsAssessmentType(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	st.PutModule(quiz.Module{
		ID: "mod-1", CourseID: "course-1", Title: "Algebra",
		AssessmentType: quiz.TypeTrueFalse, NumberOfQuestions: 10,
	})

	e := newTestEngine(st, 60)
	qz, err := e.Generate(ctx, "mod-1", "stu-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(qz.QuestionIDs) != 1 || qz.QuestionIDs[0] != "q4" {
		t.Fatalf("want the lone tier-2 true_false question, got %v", qz.QuestionIDs)
	}
}

func TestGenerateCapsAtNumberOfQuestions(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	st.PutModule(quiz.Module{
		ID: "mod-1", CourseID: "course-1", Title: "Algebra",
		AssessmentType: quiz.TypeMix, NumberOfQuestions: 2,
	})

	e := newTestEngine(st, 60)
	qz, err := e.Generate(ctx, "mod-1", "stu-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(qz.QuestionIDs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qz.QuestionIDs))
	}
	if len(qz.Choices) != len(qz.QuestionIDs) {
		t.Fatalf("choices/ids length mismatch: %d vs %d", len(qz.Choices), len(qz.QuestionIDs))
	}
	seen := map[string]bool{}
	for _, id := range qz.QuestionIDs {
		if seen[id] {
			t.Fatalf("duplicate question %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateEmptyTierIsValid(t *testing.T) {
	ctx := context.Background()
	st := quiz.NewMemoryStore()
	st.PutModule(quiz.Module{ID: "mod-1", CourseID: "course-1", Title: "Algebra",
		AssessmentType: quiz.TypeMix, NumberOfQuestions: 5})
	st.PutBank(quiz.Bank{ID: "bank-1", ModuleID: "mod-1", QuestionIDs: []string{"q1"}})
	st.PutQuestion(quiz.Question{ID: "q1", Text: "1+1?", Type: quiz.TypeMCQ,
		Choices: []string{"1", "2"}, RightChoice: "2", Difficulty: 1})

	// avg 90 targets tier 3; the bank only has a tier-1 question
	e := newTestEngine(st, 90)
	qz, err := e.Generate(ctx, "mod-1", "stu-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(qz.QuestionIDs) != 0 {
		t.Fatalf("want empty quiz, got %v", qz.QuestionIDs)
	}
}

func TestGenerateNotFound(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	e := newTestEngine(st, 60)

	if _, err := e.Generate(ctx, "no-such-module", "stu-1"); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("missing module: got %v, want ErrNotFound", err)
	}

	st.PutModule(quiz.Module{ID: "mod-2", CourseID: "course-1", Title: "Empty",
		AssessmentType: quiz.TypeMix, NumberOfQuestions: 5})
	st.PutBank(quiz.Bank{ID: "bank-2", ModuleID: "mod-2", QuestionIDs: nil})
	if _, err := e.Generate(ctx, "mod-2", "stu-1"); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("empty bank: got %v, want ErrNotFound", err)
	}
}

func TestGenerateGradeSourceFailure(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	e := quiz.NewEngine(st, fakeGrades{err: errors.New("gradebook down")},
		quiz.WithRand(rand.New(rand.NewSource(1))))

	_, err := e.Generate(ctx, "mod-1", "stu-1")
	if !errors.Is(err, quiz.ErrDependency) {
		t.Fatalf("got %v, want ErrDependency", err)
	}
}

func TestSubmitLengthMismatch(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	e := newTestEngine(st, 60)

	_, err := e.Submit(ctx, "course-1", "mod-1", "stu-1", []string{"q2", "q3"}, []string{"6"})
	if !errors.Is(err, quiz.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	list, err := st.ListAttempts(ctx, quiz.AttemptListOpts{})
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected submission persisted %d attempts", len(list))
	}
}

func TestSubmitPassBumpsProgressOnce(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	events := &captureEvents{}
	e := newTestEngine(st, 60, quiz.WithEvents(events))

	a, err := e.Submit(ctx, "course-1", "mod-1", "stu-1",
		[]string{"q2", "q3"}, []string{"6", "4"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if a.Score != 100 || a.FinalGrade != quiz.GradePassed {
		t.Fatalf("got score=%v grade=%s, want 100 passed", a.Score, a.FinalGrade)
	}
	if a.ID == "" || a.CreatedAt != 1700000000 {
		t.Fatalf("attempt identity not filled in: %+v", a)
	}

	p, ok := st.GetProgress("stu-1", "course-1")
	if !ok {
		t.Fatal("progress row vanished")
	}
	if p.Completion != 3 {
		t.Fatalf("completion = %d, want 3", p.Completion)
	}
	if len(p.LastAccessed) != 1 || p.LastAccessed[0] != 1700000000 {
		t.Fatalf("last accessed = %v, want exactly one timestamp", p.LastAccessed)
	}
	if len(events.attempts) != 1 || events.attempts[0].ID != a.ID {
		t.Fatalf("event log got %d entries", len(events.attempts))
	}
}

func TestSubmitBoundaryScorePasses(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	e := newTestEngine(st, 60)

	// one of two correct: exactly 50
	a, err := e.Submit(ctx, "course-1", "mod-1", "stu-1",
		[]string{"q2", "q3"}, []string{"6", "5"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if a.Score != 50 || a.FinalGrade != quiz.GradePassed {
		t.Fatalf("got score=%v grade=%s, want 50 passed", a.Score, a.FinalGrade)
	}
}

func TestSubmitFailLeavesProgressAlone(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	e := newTestEngine(st, 60)

	a, err := e.Submit(ctx, "course-1", "mod-1", "stu-1",
		[]string{"q2", "q3"}, []string{"5", "3"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if a.Score != 0 || a.FinalGrade != quiz.GradeFailed {
		t.Fatalf("got score=%v grade=%s, want 0 failed", a.Score, a.FinalGrade)
	}
	p, _ := st.GetProgress("stu-1", "course-1")
	if p.Completion != 2 || len(p.LastAccessed) != 0 {
		t.Fatalf("failed attempt touched progress: %+v", p)
	}
}

func TestSubmitSurvivesMissingProgressRow(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	e := newTestEngine(st, 60)

	// no enrollment row for stu-2; the pass must still be recorded
	a, err := e.Submit(ctx, "course-1", "mod-1", "stu-2",
		[]string{"q2", "q3"}, []string{"6", "4"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, err := st.GetAttempt(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if got.FinalGrade != quiz.GradePassed {
		t.Fatalf("grade = %s, want passed", got.FinalGrade)
	}
}

func TestSubmitSurvivesEventSinkFailure(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	events := &captureEvents{err: errors.New("event log offline")}
	e := newTestEngine(st, 60, quiz.WithEvents(events))

	a, err := e.Submit(ctx, "course-1", "mod-1", "stu-1",
		[]string{"q2", "q3"}, []string{"6", "4"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := st.GetAttempt(ctx, a.ID); err != nil {
		t.Fatalf("attempt not persisted: %v", err)
	}
}

func TestFeedbackIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	e := newTestEngine(st, 60)

	a, err := e.Submit(ctx, "course-1", "mod-1", "stu-1",
		[]string{"q2", "q3"}, []string{"6", "5"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	first, err := e.Feedback(ctx, a.ID)
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}
	second, err := e.Feedback(ctx, a.ID)
	if err != nil {
		t.Fatalf("Feedback (second): %v", err)
	}

	if first.Score != 50 {
		t.Fatalf("score = %v, want 50", first.Score)
	}
	if len(first.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(first.Items))
	}
	if !first.Items[0].IsCorrect || first.Items[1].IsCorrect {
		t.Fatalf("correctness flags wrong: %+v", first.Items)
	}
	if first.Items[1].YourAnswer != "5" || first.Items[1].CorrectAnswer != "4" {
		t.Fatalf("answers not echoed: %+v", first.Items[1])
	}
	if first.Message != "You passed the quiz, well done!" {
		t.Fatalf("message = %q", first.Message)
	}
	if len(second.Items) != len(first.Items) || second.Score != first.Score || second.Message != first.Message {
		t.Fatal("feedback not stable across calls")
	}
	for i := range first.Items {
		if first.Items[i] != second.Items[i] {
			t.Fatalf("item %d differs between calls", i)
		}
	}
}

func TestFeedbackFailMessageNamesModule(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	e := newTestEngine(st, 60)

	a, err := e.Submit(ctx, "course-1", "mod-1", "stu-1",
		[]string{"q2", "q3"}, []string{"5", "3"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	fb, err := e.Feedback(ctx, a.ID)
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}
	want := "You failed the quiz, please study the Algebra module again"
	if fb.Message != want {
		t.Fatalf("message = %q, want %q", fb.Message, want)
	}
}

func TestFeedbackUnknownAttempt(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(seededStore(t), 60)
	if _, err := e.Feedback(ctx, "nope"); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

// Walks the whole flow at a 60 average against a two-question mcq module.
func TestAdaptiveFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	st := quiz.NewMemoryStore()
	st.PutModule(quiz.Module{ID: "mod-1", CourseID: "course-1", Title: "Fractions",
		AssessmentType: quiz.TypeMCQ, NumberOfQuestions: 2})
	st.PutBank(quiz.Bank{ID: "bank-1", ModuleID: "mod-1", QuestionIDs: []string{"qa", "qb"}})
	st.PutQuestion(quiz.Question{ID: "qa", Text: "1/2 + 1/2?", Type: quiz.TypeMCQ,
		Choices: []string{"A", "B", "C", "D"}, RightChoice: "A", Difficulty: 2})
	st.PutQuestion(quiz.Question{ID: "qb", Text: "1/4 * 2?", Type: quiz.TypeMCQ,
		Choices: []string{"A", "B", "C", "D"}, RightChoice: "B", Difficulty: 2})
	st.PutProgress(quiz.Progress{StudentID: "stu-1", CourseID: "course-1"})

	e := newTestEngine(st, 60)

	qz, err := e.Generate(ctx, "mod-1", "stu-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(qz.QuestionIDs) != 2 {
		t.Fatalf("quiz has %d questions, want 2", len(qz.QuestionIDs))
	}

	answerFor := func(ids []string, byQuestion map[string]string) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = byQuestion[id]
		}
		return out
	}

	cases := []struct {
		answers   map[string]string
		wantScore float64
		wantGrade string
	}{
		{map[string]string{"qa": "A", "qb": "B"}, 100, quiz.GradePassed},
		{map[string]string{"qa": "A", "qb": "C"}, 50, quiz.GradePassed},
		{map[string]string{"qa": "B", "qb": "C"}, 0, quiz.GradeFailed},
	}
	for _, c := range cases {
		a, err := e.Submit(ctx, "course-1", "mod-1", "stu-1",
			qz.QuestionIDs, answerFor(qz.QuestionIDs, c.answers))
		if err != nil {
			t.Fatalf("Submit(%v): %v", c.answers, err)
		}
		if a.Score != c.wantScore || a.FinalGrade != c.wantGrade {
			t.Errorf("answers %v: score=%v grade=%s, want %v %s",
				c.answers, a.Score, a.FinalGrade, c.wantScore, c.wantGrade)
		}
	}

	p, _ := st.GetProgress("stu-1", "course-1")
	if p.Completion != 2 {
		t.Fatalf("completion = %d, want 2 (one per pass)", p.Completion)
	}
}
