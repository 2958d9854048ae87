package quiz

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-lms/internal/grading"
)

// Engine composes generation, submission and feedback over injected
// collaborators. It keeps no state of its own between calls.
type Engine struct {
	store  Store
	grades GradeSource
	grader grading.Grader
	events EventSink
	rng    *rand.Rand
	now    func() time.Time
}

type Option func(*Engine)

// WithRand overrides the selection source; tests seed it deterministically.
func WithRand(rng *rand.Rand) Option { return func(e *Engine) { e.rng = rng } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithEvents(sink EventSink) Option { return func(e *Engine) { e.events = sink } }

func NewEngine(store Store, grades GradeSource, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		grades: grades,
		grader: grading.NewDefaultGrader(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Generate builds a quiz for the module matched to the student's proficiency.
// An empty quiz (no eligible questions at the target tier) is a valid result,
// distinct from the NotFound cases below.
func (e *Engine) Generate(ctx context.Context, moduleID, studentID string) (Quiz, error) {
	m, err := e.store.GetModule(ctx, moduleID)
	if err != nil {
		return Quiz{}, err
	}
	bank, err := e.store.GetBank(ctx, moduleID)
	if err != nil {
		return Quiz{}, err
	}
	if len(bank.QuestionIDs) == 0 {
		return Quiz{}, fmt.Errorf("%w: question bank for module %s is empty", ErrNotFound, moduleID)
	}
	questions, err := e.store.GetQuestions(ctx, bank.QuestionIDs)
	if err != nil {
		return Quiz{}, err
	}
	if len(questions) == 0 {
		return Quiz{}, fmt.Errorf("%w: no questions for module %s", ErrNotFound, moduleID)
	}

	avg, err := e.grades.AverageGrade(ctx, m.CourseID, studentID)
	if err != nil {
		// no safe default tier; generation fails closed
		return Quiz{}, fmt.Errorf("%w: average grade: %v", ErrDependency, err)
	}
	tier := ClassifyDifficulty(avg)

	eligible := filterByDifficulty(questions, tier)
	if m.AssessmentType != TypeMix {
		eligible = filterByType(eligible, m.AssessmentType)
	}
	selected := pickRandom(e.rng, eligible, m.NumberOfQuestions)

	quiz := Quiz{
		ModuleID:    m.ID,
		QuestionIDs: make([]string, 0, len(selected)),
		Choices:     make([][]string, 0, len(selected)),
	}
	for _, q := range selected {
		quiz.QuestionIDs = append(quiz.QuestionIDs, q.ID)
		quiz.Choices = append(quiz.Choices, q.Choices)
	}
	return quiz, nil
}

// Submit grades the answers positionally, persists a fresh immutable attempt
// and, on a pass, bumps the student's course progress. Progress and event-log
// failures never undo or mask the persisted attempt.
func (e *Engine) Submit(ctx context.Context, courseID, moduleID, studentID string, questionIDs, answers []string) (Attempt, error) {
	if len(questionIDs) != len(answers) {
		return Attempt{}, fmt.Errorf("%w: answer all questions before submitting", ErrInvalidInput)
	}

	resolved, err := e.store.GetQuestions(ctx, questionIDs)
	if err != nil {
		return Attempt{}, err
	}
	byID := make(map[string]Question, len(resolved))
	for _, q := range resolved {
		byID[q.ID] = q
	}

	score := Score(byID, questionIDs, answers, e.grader)
	grade := GradeFailed
	if score >= PassingScore {
		grade = GradePassed
	}

	a := Attempt{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		ModuleID:    moduleID,
		QuestionIDs: questionIDs,
		Answers:     answers,
		Score:       score,
		FinalGrade:  grade,
		CreatedAt:   e.now().Unix(),
	}
	if err := e.store.PutAttempt(ctx, a); err != nil {
		return Attempt{}, err
	}

	if grade == GradePassed {
		if err := e.store.IncrementProgress(ctx, studentID, courseID, e.now()); err != nil {
			// best-effort bookkeeping; the graded attempt stands
			log.Printf("quiz: progress update student=%s course=%s: %v", studentID, courseID, err)
		}
	}
	if e.events != nil {
		if err := e.events.AttemptSubmitted(ctx, a); err != nil {
			log.Printf("quiz: event log attempt=%s: %v", a.ID, err)
		}
	}
	return a, nil
}

// Feedback rebuilds the per-question report for a graded attempt. It is a pure
// read; calling it twice yields identical contents.
func (e *Engine) Feedback(ctx context.Context, attemptID string) (Feedback, error) {
	a, err := e.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return Feedback{}, err
	}
	resolved, err := e.store.GetQuestions(ctx, a.QuestionIDs)
	if err != nil {
		return Feedback{}, err
	}
	byID := make(map[string]Question, len(resolved))
	for _, q := range resolved {
		byID[q.ID] = q
	}

	items := make([]QuestionFeedback, 0, len(a.QuestionIDs))
	for i, qid := range a.QuestionIDs {
		var answer string
		if i < len(a.Answers) {
			answer = a.Answers[i]
		}
		q, ok := byID[qid]
		if !ok {
			items = append(items, QuestionFeedback{YourAnswer: answer})
			continue
		}
		gq := grading.Q{Type: q.Type, Choices: q.Choices, RightChoice: q.RightChoice}
		items = append(items, QuestionFeedback{
			Question:      q.Text,
			YourAnswer:    answer,
			CorrectAnswer: q.RightChoice,
			IsCorrect:     e.grader.Correct(gq, answer),
		})
	}

	m, err := e.store.GetModule(ctx, a.ModuleID)
	if err != nil {
		return Feedback{}, err
	}
	message := "You passed the quiz, well done!"
	if a.Score < PassingScore {
		message = fmt.Sprintf("You failed the quiz, please study the %s module again", m.Title)
	}

	return Feedback{
		StudentID: a.StudentID,
		Score:     a.Score,
		Items:     items,
		Message:   message,
	}, nil
}
