package app

import (
	"github.com/rs/zerolog"

	"github.com/k5602/quizdesk/internal/config"
	"github.com/k5602/quizdesk/internal/logging"
	"github.com/k5602/quizdesk/internal/question"
	"github.com/k5602/quizdesk/internal/scores"
	"github.com/k5602/quizdesk/internal/session"
	"github.com/k5602/quizdesk/internal/session/scoring"
	"github.com/k5602/quizdesk/internal/stats"
)

// Application aggregates the game core: question bank, session engine, and
// the two persistence stores.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	Questions *question.Store
	Engine    *session.Engine
	Ledger    *scores.Ledger
	Stats     *stats.Store
}

// New bootstraps logger, question bank, stores, and the session engine.
func New(cfg *config.App) *Application {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	questionStore := question.NewStore(cfg.Files.Questions, logger)
	statsStore := stats.NewStore(cfg.Files.Stats, logger)
	ledger := scores.NewLedger(cfg.Files.Scores, statsStore, logger)
	engine := session.NewEngine(questionStore, scoring.NewEngine(scoring.DefaultConfig()), logger)

	return &Application{
		cfg:       cfg,
		logger:    logger,
		Questions: questionStore,
		Engine:    engine,
		Ledger:    ledger,
		Stats:     statsStore,
	}
}

// Config returns the runtime configuration.
func (a *Application) Config() *config.App {
	return a.cfg
}

// Logger returns the application root logger.
func (a *Application) Logger() zerolog.Logger {
	return a.logger
}
