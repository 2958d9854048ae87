package quiz

import "github.com/studyhall/studyhall-lms/internal/grading"

// Score grades submitted answers strictly by position: answers[i] is judged
// against the question at questionIDs[i]. IDs missing from the resolved set
// count as incorrect but stay in the denominator. An empty attempt scores 0.
func Score(questions map[string]Question, questionIDs, answers []string, g grading.Grader) float64 {
	if len(questionIDs) == 0 {
		return 0
	}
	correct := 0
	for i, qid := range questionIDs {
		q, ok := questions[qid]
		if !ok || i >= len(answers) {
			continue
		}
		gq := grading.Q{Type: q.Type, Choices: q.Choices, RightChoice: q.RightChoice}
		if g.Correct(gq, answers[i]) {
			correct++
		}
	}
	return 100 * float64(correct) / float64(len(questionIDs))
}
