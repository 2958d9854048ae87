package quiz

// ClassifyDifficulty maps a student's rolling course average onto the target
// question tier. Total over all inputs; no history upstream reports as 0.
func ClassifyDifficulty(averageGrade float64) int {
	switch {
	case averageGrade < 50:
		return 1
	case averageGrade < 70:
		return 2
	default:
		return 3
	}
}
