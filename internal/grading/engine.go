package grading

// Q is the minimal view of a question needed to judge an answer.
type Q struct {
	Type        string
	Choices     []string
	RightChoice string
}

// Strategy judges a single submitted answer.
type Strategy interface {
	Correct(q Q, answer string) bool
}

// Grader routes by question type to the matching Strategy.
type Grader interface {
	Correct(q Q, answer string) bool
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Correct(q Q, answer string) bool {
	s, ok := g.strategies[q.Type]
	if !ok {
		// unknown type: never auto-credit
		return false
	}
	return s.Correct(q, answer)
}

// NewDefaultGrader installs the built-in strategies. Both platform question
// types are answered by picking a canonical choice string, so both use exact
// matching.
func NewDefaultGrader() Grader {
	return &defaultGrader{
		strategies: map[string]Strategy{
			"mcq":        exactChoiceStrategy{},
			"true_false": exactChoiceStrategy{},
		},
	}
}

type exactChoiceStrategy struct{}

// Case-sensitive on purpose: answers are canonical choice strings echoed back
// by the client, not free text.
func (exactChoiceStrategy) Correct(q Q, answer string) bool {
	return answer == q.RightChoice
}
