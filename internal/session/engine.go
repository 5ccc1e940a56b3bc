package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/k5602/quizdesk/internal/question"
	"github.com/k5602/quizdesk/internal/session/scoring"
)

// pageSize is how many reserve questions one pagination step may pull in.
const pageSize = 5

const minOptions = 4

// Engine runs quiz sessions over a loaded question bank. It owns all mutable
// session state; starting a new game discards the previous session outright.
type Engine struct {
	bank   *question.Store
	scorer *scoring.Engine
	logger zerolog.Logger

	rng *rand.Rand
	now func() time.Time

	active  bool
	id      string
	batch   []question.Question
	reserve []question.Question
	cursor  int

	difficulty string
	category   string
	perGame    int

	score     int
	correct   int
	incorrect int
	skipped   int
	hintsUsed int

	elapsed   []time.Duration
	startedAt time.Time

	categoriesPlayed      map[string]struct{}
	difficultiesCompleted map[string]struct{}
}

// NewEngine creates a session engine over the given question bank.
func NewEngine(bank *question.Store, scorer *scoring.Engine, logger zerolog.Logger) *Engine {
	return &Engine{
		bank:                  bank,
		scorer:                scorer,
		logger:                logger.With().Str("component", "session_engine").Logger(),
		rng:                   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:                   time.Now,
		categoriesPlayed:      map[string]struct{}{},
		difficultiesCompleted: map[string]struct{}{},
	}
}

// StartNewGame filters the bank by difficulty and category ("all" disables
// either filter), deduplicates by question text, and selects a shuffled batch
// of up to perGame questions. Returns false when the filter matches nothing.
func (e *Engine) StartNewGame(difficulty, category string, perGame int) bool {
	filtered := e.filter(difficulty, category)
	if len(filtered) == 0 {
		e.logger.Warn().
			Str("difficulty", difficulty).
			Str("category", category).
			Msg("no questions match the selected criteria")
		return false
	}

	e.rng.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})

	take := perGame
	if take > len(filtered) {
		take = len(filtered)
	}

	e.active = true
	e.id = uuid.NewString()
	e.batch = filtered[:take]
	e.reserve = filtered[take:]
	e.cursor = 0
	e.difficulty = difficulty
	e.category = category
	e.perGame = perGame
	e.score = 0
	e.correct = 0
	e.incorrect = 0
	e.skipped = 0
	e.hintsUsed = 0
	e.elapsed = nil
	e.startedAt = e.now()

	if category != question.FilterAll {
		e.categoriesPlayed[category] = struct{}{}
	}

	e.logger.Info().
		Str("session_id", e.id).
		Str("difficulty", difficulty).
		Str("category", category).
		Int("batch", len(e.batch)).
		Int("reserve", len(e.reserve)).
		Msg("session started")
	return true
}

// filter returns a deduplicated copy of the bank entries matching the
// difficulty/category selection. First occurrence of a question text wins.
func (e *Engine) filter(difficulty, category string) []question.Question {
	seen := map[string]struct{}{}
	var out []question.Question
	for _, q := range e.bank.Questions() {
		if difficulty != question.FilterAll && q.Difficulty != difficulty {
			continue
		}
		if category != question.FilterAll && q.Category != category {
			continue
		}
		if _, ok := seen[q.Text]; ok {
			continue
		}
		seen[q.Text] = struct{}{}
		out = append(out, q)
	}
	return out
}

// CurrentQuestion returns the question at the cursor, or nil when the cursor
// is out of bounds. The first access stamps the question's start time.
func (e *Engine) CurrentQuestion() *question.Question {
	if !e.active || e.cursor < 0 || e.cursor >= len(e.batch) {
		return nil
	}
	q := &e.batch[e.cursor]
	if q.StartTime.IsZero() {
		q.StartTime = e.now()
	}
	return q
}

// ShuffledOptions returns a freshly randomized copy of the current question's
// options, padded with filler entries to at least four and guaranteed to
// contain the correct answer.
func (e *Engine) ShuffledOptions() []string {
	q := e.CurrentQuestion()
	if q == nil {
		return nil
	}

	options := make([]string, len(q.Options))
	copy(options, q.Options)

	if !contains(options, q.CorrectAnswer) {
		options = append(options, q.CorrectAnswer)
	}
	for i := 1; len(options) < minOptions; i++ {
		filler := fmt.Sprintf("Option %d", i)
		if !contains(options, filler) {
			options = append(options, filler)
		}
	}

	e.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

// CheckAnswer evaluates the selected option against the current question's
// correct answer, records the elapsed time sample, and awards points on a
// match. Returns whether the answer was correct.
func (e *Engine) CheckAnswer(selected string) bool {
	q := e.CurrentQuestion()
	if q == nil {
		return false
	}

	q.AnswerTime = e.now()
	elapsed := q.AnswerTime.Sub(q.StartTime)
	e.elapsed = append(e.elapsed, elapsed)

	if selected != q.CorrectAnswer {
		e.incorrect++
		q.PointsAwarded = 0
		return false
	}

	e.correct++
	points := e.scorer.Score(q.Difficulty, elapsed)
	q.PointsAwarded = points
	e.score += points
	return true
}

// SkipQuestion marks the current question as skipped. The caller is expected
// to Advance afterwards.
func (e *Engine) SkipQuestion() {
	e.skipped++
}

// UseHint returns the current question's hint and deducts the hint penalty,
// floored at a zero score.
func (e *Engine) UseHint() string {
	q := e.CurrentQuestion()
	if q == nil {
		return "No active question."
	}
	e.hintsUsed++
	e.score -= e.scorer.HintPenalty()
	if e.score < 0 {
		e.score = 0
	}
	return q.Hint
}

// Advance moves the cursor to the next question, extending the batch from the
// reserve pool when needed. It returns false once the session is complete:
// either the per-game limit of answered and skipped questions is reached, or
// no questions remain.
func (e *Engine) Advance() bool {
	if !e.active {
		return false
	}

	e.cursor++

	totalAnswered := e.correct + e.incorrect + e.skipped
	if totalAnswered >= e.perGame {
		return false
	}

	if e.cursor >= len(e.batch) && len(e.reserve) > 0 {
		pull := pageSize
		if remaining := e.perGame - totalAnswered; pull > remaining {
			pull = remaining
		}
		if pull > len(e.reserve) {
			pull = len(e.reserve)
		}
		e.batch = append(e.batch, e.reserve[:pull]...)
		e.reserve = e.reserve[pull:]
	}

	if len(e.reserve) == 0 && e.difficulty != question.FilterAll {
		e.difficultiesCompleted[e.difficulty] = struct{}{}
	}

	return e.cursor < len(e.batch)
}

// Progress reports the 1-based position and the batch size so far. The total
// grows as pagination extends the batch.
func (e *Engine) Progress() (current, total int) {
	return e.cursor + 1, len(e.batch)
}

// Score returns the running session score.
func (e *Engine) Score() int {
	return e.score
}
