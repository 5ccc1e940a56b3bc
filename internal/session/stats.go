package session

import (
	"sort"
	"time"
)

// Stats is an end-of-question or end-of-session snapshot of a play-through.
type Stats struct {
	Score                 int           `json:"score"`
	Correct               int           `json:"answered_correctly"`
	Incorrect             int           `json:"answered_incorrectly"`
	Skipped               int           `json:"skipped"`
	Accuracy              float64       `json:"accuracy"`
	AverageTime           time.Duration `json:"average_time"`
	HintsUsed             int           `json:"hints_used"`
	Difficulty            string        `json:"difficulty"`
	Category              string        `json:"category"`
	TotalQuestions        int           `json:"total_questions"`
	Timestamp             time.Time     `json:"timestamp"`
	CategoriesPlayed      []string      `json:"categories_played"`
	DifficultiesCompleted []string      `json:"difficulties_completed"`
}

// Statistics returns a snapshot of the current session.
func (e *Engine) Statistics() Stats {
	answered := e.correct + e.incorrect
	accuracy := 0.0
	if answered > 0 {
		accuracy = float64(e.correct) / float64(answered) * 100
	}

	var avg time.Duration
	if len(e.elapsed) > 0 {
		var total time.Duration
		for _, d := range e.elapsed {
			total += d
		}
		avg = total / time.Duration(len(e.elapsed))
	}

	return Stats{
		Score:                 e.score,
		Correct:               e.correct,
		Incorrect:             e.incorrect,
		Skipped:               e.skipped,
		Accuracy:              accuracy,
		AverageTime:           avg,
		HintsUsed:             e.hintsUsed,
		Difficulty:            e.difficulty,
		Category:              e.category,
		TotalQuestions:        len(e.batch),
		Timestamp:             e.now(),
		CategoriesPlayed:      sortedKeys(e.categoriesPlayed),
		DifficultiesCompleted: sortedKeys(e.difficultiesCompleted),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
