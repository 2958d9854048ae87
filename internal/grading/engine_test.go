package grading_test

import (
	"testing"

	"github.com/studyhall/studyhall-lms/internal/grading"
)

func TestDefaultGraderExactMatch(t *testing.T) {
	g := grading.NewDefaultGrader()

	mcq := grading.Q{Type: "mcq", Choices: []string{"A", "B", "C", "D"}, RightChoice: "B"}
	tf := grading.Q{Type: "true_false", Choices: []string{"True", "False"}, RightChoice: "True"}

	cases := []struct {
		name   string
		q      grading.Q
		answer string
		want   bool
	}{
		{"mcq correct", mcq, "B", true},
		{"mcq wrong", mcq, "A", false},
		{"mcq case sensitive", mcq, "b", false},
		{"mcq empty answer", mcq, "", false},
		{"tf correct", tf, "True", true},
		{"tf case sensitive", tf, "true", false},
	}
	for _, c := range cases {
		if got := g.Correct(c.q, c.answer); got != c.want {
			t.Errorf("%s: Correct = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDefaultGraderUnknownType(t *testing.T) {
	g := grading.NewDefaultGrader()
	q := grading.Q{Type: "essay", RightChoice: "whatever"}
	if g.Correct(q, "whatever") {
		t.Fatal("unknown question type must never grade correct")
	}
}
