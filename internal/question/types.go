package question

import "time"

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// FilterAll is the sentinel that disables difficulty/category filtering.
const FilterAll = "all"

// Question is a single normalized quiz question.
type Question struct {
	ID            string   `json:"id,omitempty"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty"`
	Category      string   `json:"category"`
	Hint          string   `json:"hint,omitempty"`

	// Per-presentation bookkeeping, never serialized.
	StartTime     time.Time `json:"-"`
	AnswerTime    time.Time `json:"-"`
	PointsAwarded int       `json:"-"`
}

// document is the on-disk shape of a question bank.
type document struct {
	Questions []Question `json:"questions"`
}
