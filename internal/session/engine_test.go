package session

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k5602/quizdesk/internal/question"
	"github.com/k5602/quizdesk/internal/session/scoring"
)

func fixtureBank(t *testing.T) *question.Store {
	t.Helper()
	doc := map[string]any{
		"questions": []map[string]any{
			{
				"question":       "What is 2+2?",
				"options":        []string{"3", "4", "5", "6"},
				"correct_answer": "4",
				"difficulty":     "easy",
				"category":       "Math",
			},
			{
				"question":       "What is the capital of France?",
				"options":        []string{"London", "Berlin", "Paris", "Madrid"},
				"correct_answer": "Paris",
				"difficulty":     "easy",
				"category":       "Geography",
			},
			{
				"question":       "Which is the largest planet?",
				"options":        []string{"Earth", "Jupiter", "Mars", "Venus"},
				"correct_answer": "Jupiter",
				"difficulty":     "medium",
				"category":       "Science",
			},
			{
				"question":       "Who wrote 'Hamlet'?",
				"options":        []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"},
				"correct_answer": "William Shakespeare",
				"difficulty":     "medium",
				"category":       "Literature",
			},
			{
				"question":       "What is the square root of 144?",
				"options":        []string{"10", "11", "12", "14"},
				"correct_answer": "12",
				"difficulty":     "hard",
				"category":       "Math",
			},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return question.NewStore(path, zerolog.Nop())
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine := NewEngine(fixtureBank(t), scoring.NewEngine(scoring.DefaultConfig()), zerolog.Nop())
	engine.rng = rand.New(rand.NewSource(42))
	return engine
}

// fakeClock lets tests control elapsed answer times.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func TestStartNewGameImpossibleFilter(t *testing.T) {
	engine := testEngine(t)

	ok := engine.StartNewGame("hard", "Geography", 10)
	assert.False(t, ok)
	assert.Nil(t, engine.CurrentQuestion())
}

func TestStartNewGameSelectsBatch(t *testing.T) {
	engine := testEngine(t)

	ok := engine.StartNewGame(question.FilterAll, question.FilterAll, 10)
	require.True(t, ok)

	current, total := engine.Progress()
	assert.Equal(t, 1, current)
	assert.Equal(t, 5, total, "batch capped at available questions")
	assert.Equal(t, 0, engine.Score())

	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 3))
	_, total = engine.Progress()
	assert.Equal(t, 3, total, "batch capped at requested count")
}

func TestStartNewGameFiltersByDifficulty(t *testing.T) {
	engine := testEngine(t)

	require.True(t, engine.StartNewGame("easy", question.FilterAll, 10))
	_, total := engine.Progress()
	assert.Equal(t, 2, total)

	for q := engine.CurrentQuestion(); q != nil; {
		assert.Equal(t, "easy", q.Difficulty)
		if !engine.Advance() {
			break
		}
		q = engine.CurrentQuestion()
	}
}

func TestStartNewGameDeduplicatesByText(t *testing.T) {
	engine := testEngine(t)
	// Append a duplicate of the first bank question under another id.
	dup := engine.bank.Questions()[0]
	engine.bank = dupStore(t, append(engine.bank.Questions(), dup))

	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 10))
	_, total := engine.Progress()
	assert.Equal(t, 5, total, "duplicate question text must not repeat in a session")
}

func dupStore(t *testing.T, qs []question.Question) *question.Store {
	t.Helper()
	data, err := json.Marshal(map[string]any{"questions": qs})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return question.NewStore(path, zerolog.Nop())
}

func TestCheckAnswerCorrectAwardsBaseAndBonus(t *testing.T) {
	engine := testEngine(t)
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	engine.now = clock.now

	require.True(t, engine.StartNewGame("medium", question.FilterAll, 1))
	q := engine.CurrentQuestion()
	require.NotNil(t, q)

	clock.advance(3 * time.Second)
	assert.True(t, engine.CheckAnswer(q.CorrectAnswer))
	assert.Equal(t, 20, engine.Score(), "medium base 15 + fast bonus 5")
	assert.Equal(t, 20, q.PointsAwarded)
}

func TestCheckAnswerWrongLeavesScoreUnchanged(t *testing.T) {
	engine := testEngine(t)

	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 5))
	q := engine.CurrentQuestion()
	require.NotNil(t, q)

	assert.False(t, engine.CheckAnswer("definitely not the answer"))
	assert.Equal(t, 0, engine.Score())
	assert.Equal(t, 0, q.PointsAwarded)

	stats := engine.Statistics()
	assert.Equal(t, 1, stats.Incorrect)
}

func TestShuffledOptionsPadsToFour(t *testing.T) {
	engine := testEngine(t)
	engine.bank = dupStore(t, []question.Question{
		{
			ID:            "short",
			Text:          "True or false: Go has generics?",
			Options:       []string{"True"},
			CorrectAnswer: "False",
			Difficulty:    "easy",
			Category:      "Tech",
		},
	})

	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 1))
	options := engine.ShuffledOptions()
	assert.Len(t, options, 4)
	assert.Contains(t, options, "False", "correct answer appended when absent")
	assert.Contains(t, options, "True")
}

func TestShuffledOptionsReturnsCopy(t *testing.T) {
	engine := testEngine(t)
	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 5))

	q := engine.CurrentQuestion()
	require.NotNil(t, q)
	original := make([]string, len(q.Options))
	copy(original, q.Options)

	for i := 0; i < 5; i++ {
		opts := engine.ShuffledOptions()
		assert.ElementsMatch(t, original, opts)
	}
	assert.Equal(t, original, q.Options, "source option order must not change")
}

func TestUseHintDeductsFlooredAtZero(t *testing.T) {
	engine := testEngine(t)
	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 5))

	hint := engine.UseHint()
	assert.NotEmpty(t, hint)
	assert.Equal(t, 0, engine.Score(), "penalty floors at zero")

	stats := engine.Statistics()
	assert.Equal(t, 1, stats.HintsUsed)
}

func TestAdvanceStopsAtPerGameLimit(t *testing.T) {
	engine := testEngine(t)
	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 2))

	q := engine.CurrentQuestion()
	require.NotNil(t, q)
	engine.CheckAnswer(q.CorrectAnswer)
	require.True(t, engine.Advance())

	q = engine.CurrentQuestion()
	require.NotNil(t, q)
	engine.SkipQuestion()

	assert.False(t, engine.Advance(), "limit reached even though reserve questions remain")
}

func TestAdvancePullsFromReserve(t *testing.T) {
	engine := testEngine(t)
	// Batch of 2, 3 left in reserve, generous per-game limit.
	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 5))
	engine.batch, engine.reserve = engine.batch[:2], engine.batch[2:]

	for i := 0; i < 2; i++ {
		q := engine.CurrentQuestion()
		require.NotNil(t, q)
		engine.CheckAnswer(q.CorrectAnswer)
		require.True(t, engine.Advance())
	}

	_, total := engine.Progress()
	assert.Equal(t, 5, total, "reserve paged into the batch")
	assert.NotNil(t, engine.CurrentQuestion())
}

func TestStatisticsAccuracy(t *testing.T) {
	engine := testEngine(t)
	require.True(t, engine.StartNewGame(question.FilterAll, question.FilterAll, 5))

	q := engine.CurrentQuestion()
	require.NotNil(t, q)
	engine.CheckAnswer(q.CorrectAnswer)
	require.True(t, engine.Advance())

	q = engine.CurrentQuestion()
	require.NotNil(t, q)
	engine.CheckAnswer("wrong on purpose")

	stats := engine.Statistics()
	assert.Equal(t, 1, stats.Correct)
	assert.Equal(t, 1, stats.Incorrect)
	assert.InDelta(t, 50.0, stats.Accuracy, 0.001)
	assert.Len(t, engine.elapsed, 2)
}

func TestStatisticsTracksCategoriesAndDifficulties(t *testing.T) {
	engine := testEngine(t)

	require.True(t, engine.StartNewGame("hard", "Math", 5))
	q := engine.CurrentQuestion()
	require.NotNil(t, q)
	engine.CheckAnswer(q.CorrectAnswer)
	engine.Advance()

	stats := engine.Statistics()
	assert.Equal(t, []string{"Math"}, stats.CategoriesPlayed)
	assert.Equal(t, []string{"hard"}, stats.DifficultiesCompleted)
}
