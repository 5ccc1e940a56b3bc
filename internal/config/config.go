package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds runtime configuration for the quiz game.
type App struct {
	Name string `env:"APP_NAME" envDefault:"quizdesk"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	Files    Files
	Gameplay Gameplay
}

// Files points at the flat-file stores.
type Files struct {
	Questions string `env:"QUESTIONS_FILE" envDefault:"questions.json"`
	Scores    string `env:"SCORES_FILE" envDefault:"high_scores.txt"`
	Stats     string `env:"STATS_FILE" envDefault:"player_stats.json"`
}

// Gameplay groups session defaults.
type Gameplay struct {
	QuestionsPerGame   int           `env:"QUESTIONS_PER_GAME" envDefault:"10"`
	PerQuestionSeconds time.Duration `env:"PER_QUESTION_SECONDS" envDefault:"15s"`
}

// Load parses environment variables into App config.
func Load() (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
