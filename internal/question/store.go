package question

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
)

// Store loads and holds the full question bank.
type Store struct {
	questions []Question
	logger    zerolog.Logger
}

// NewStore reads the question bank at path. A missing or malformed file
// yields an empty store, not an error.
func NewStore(path string, logger zerolog.Logger) *Store {
	s := &Store{logger: logger.With().Str("component", "question_store").Logger()}
	s.load(path)
	return s
}

func (s *Store) load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("questions file unavailable, starting empty")
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("questions file malformed, starting empty")
		return
	}

	s.questions = doc.Questions
	for i := range s.questions {
		normalize(&s.questions[i], i)
	}
	s.logger.Info().Int("count", len(s.questions)).Msg("question bank loaded")
}

// normalize fills in the optional fields a raw record may omit.
func normalize(q *Question, index int) {
	if q.ID == "" {
		q.ID = fmt.Sprintf("q%d", index)
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyEasy
	}
	if q.Category == "" {
		q.Category = "General"
	}
	if q.Hint == "" {
		q.Hint = deriveHint(q.CorrectAnswer)
	}
}

func deriveHint(answer string) string {
	if len(answer) > 3 {
		return fmt.Sprintf("The answer starts with '%c' and has %d characters.", answer[0], len(answer))
	}
	return "No hint available for this question."
}

// Questions returns the full loaded bank.
func (s *Store) Questions() []Question {
	return s.questions
}

// Categories returns the sorted, deduplicated categories across the whole bank.
func (s *Store) Categories() []string {
	return distinct(s.questions, func(q Question) string { return q.Category })
}

// Difficulties returns the sorted, deduplicated difficulties across the whole bank.
func (s *Store) Difficulties() []string {
	return distinct(s.questions, func(q Question) string { return q.Difficulty })
}

func distinct(qs []Question, field func(Question) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, q := range qs {
		v := field(q)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
