package scoring

import (
	"time"

	"github.com/k5602/quizdesk/internal/question"
)

// Config holds configurable scoring constants.
type Config struct {
	BasePoints   map[string]int // points per difficulty
	FallbackBase int            // base for unmapped difficulties
	BonusTiers   []BonusTier    // evaluated in order, first match wins
	HintPenalty  int            // deducted per hint, score floored at zero
}

// BonusTier awards Points when elapsed time is strictly below Under.
type BonusTier struct {
	Under  time.Duration
	Points int
}

// DefaultConfig returns the production point table.
func DefaultConfig() Config {
	return Config{
		BasePoints: map[string]int{
			question.DifficultyEasy:   10,
			question.DifficultyMedium: 15,
			question.DifficultyHard:   20,
		},
		FallbackBase: 10,
		BonusTiers: []BonusTier{
			{Under: 5 * time.Second, Points: 5},
			{Under: 10 * time.Second, Points: 3},
			{Under: 15 * time.Second, Points: 1},
		},
		HintPenalty: 5,
	}
}

// Engine computes points for answered questions.
type Engine struct {
	config Config
}

// NewEngine creates a scoring engine with the provided config.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Score computes points for a correct answer: difficulty base plus time bonus.
func (e *Engine) Score(difficulty string, elapsed time.Duration) int {
	base, ok := e.config.BasePoints[difficulty]
	if !ok {
		base = e.config.FallbackBase
	}
	return base + e.timeBonus(elapsed)
}

func (e *Engine) timeBonus(elapsed time.Duration) int {
	for _, tier := range e.config.BonusTiers {
		if elapsed < tier.Under {
			return tier.Points
		}
	}
	return 0
}

// HintPenalty returns the per-hint deduction.
func (e *Engine) HintPenalty() int {
	return e.config.HintPenalty
}
