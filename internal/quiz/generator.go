package quiz

import "math/rand"

func filterByDifficulty(qs []Question, tier int) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if q.Difficulty == tier {
			out = append(out, q)
		}
	}
	return out
}

func filterByType(qs []Question, typ string) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if q.Type == typ {
			out = append(out, q)
		}
	}
	return out
}

// pickRandom selects up to n distinct questions without replacement using a
// partial Fisher-Yates shuffle. Fewer than n available returns all of them.
func pickRandom(rng *rand.Rand, qs []Question, n int) []Question {
	if n > len(qs) {
		n = len(qs)
	}
	if n <= 0 {
		return nil
	}
	pool := make([]Question, len(qs))
	copy(pool, qs)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
