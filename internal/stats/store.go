package stats

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/k5602/quizdesk/internal/question"
	"github.com/k5602/quizdesk/internal/session"
)

// Achievement identifiers. Stable strings, only ever appended to.
const (
	AchievementFirstGame   = "first_game"
	AchievementCentury     = "century"
	AchievementPerfectGame = "perfect_game"
	AchievementVeteran     = "veteran"
)

const veteranGames = 10
const centuryScore = 100

// Record holds the lifetime aggregates for one player.
type Record struct {
	TotalScore            int      `json:"total_score"`
	GamesPlayed           int      `json:"games_played"`
	HighestScore          int      `json:"highest_score"`
	AverageScore          float64  `json:"average_score"`
	QuestionsAnswered     int      `json:"questions_answered"`
	CorrectAnswers        int      `json:"correct_answers"`
	LastPlayed            string   `json:"last_played"`
	Achievements          []string `json:"achievements"`
	CategoriesPlayed      []string `json:"categories_played"`
	DifficultiesCompleted []string `json:"difficulties_completed"`
}

// LeaderboardEntry ranks one player by a single metric.
type LeaderboardEntry struct {
	Name  string
	Value float64
}

// Store persists per-player statistics as one JSON document keyed by player
// name. Every update rewrites the whole document.
type Store struct {
	path    string
	records map[string]*Record
	logger  zerolog.Logger
	now     func() time.Time
}

// NewStore loads the statistics document at path. A missing or corrupt file
// yields an empty store.
func NewStore(path string, logger zerolog.Logger) *Store {
	s := &Store{
		path:    path,
		records: map[string]*Record{},
		logger:  logger.With().Str("component", "player_stats").Logger(),
		now:     time.Now,
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("stats file unreadable, starting empty")
		}
		return
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("stats file corrupt, starting empty")
		s.records = map[string]*Record{}
	}
}

func (s *Store) save() {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal player stats")
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("failed to write stats file")
	}
}

// Update folds one finished game into the player's lifetime record and
// persists immediately. Unseen names get a fresh record.
func (s *Store) Update(name string, score int, gameStats *session.Stats) {
	record, ok := s.records[name]
	if !ok {
		record = &Record{}
		s.records[name] = record
	}

	record.GamesPlayed++
	record.TotalScore += score
	if score > record.HighestScore {
		record.HighestScore = score
	}
	record.AverageScore = float64(record.TotalScore) / float64(record.GamesPlayed)
	record.LastPlayed = s.now().Format("2006-01-02 15:04:05")

	if gameStats != nil {
		record.QuestionsAnswered += gameStats.TotalQuestions
		record.CorrectAnswers += gameStats.Correct
		if gameStats.Category != "" && gameStats.Category != question.FilterAll {
			record.CategoriesPlayed = appendUnique(record.CategoriesPlayed, gameStats.Category)
		}
		if gameStats.Difficulty != "" && gameStats.Difficulty != question.FilterAll {
			record.DifficultiesCompleted = appendUnique(record.DifficultiesCompleted, gameStats.Difficulty)
		}
	}

	s.unlockAchievements(record, score, gameStats)
	s.save()
}

func (s *Store) unlockAchievements(record *Record, score int, gameStats *session.Stats) {
	if record.GamesPlayed == 1 {
		record.Achievements = appendUnique(record.Achievements, AchievementFirstGame)
	}
	if score >= centuryScore {
		record.Achievements = appendUnique(record.Achievements, AchievementCentury)
	}
	if gameStats != nil && gameStats.Correct > 0 && gameStats.Incorrect == 0 && gameStats.Skipped == 0 {
		record.Achievements = appendUnique(record.Achievements, AchievementPerfectGame)
	}
	if record.GamesPlayed >= veteranGames {
		record.Achievements = appendUnique(record.Achievements, AchievementVeteran)
	}
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// GetPlayerStats returns the record for name, or nil when unseen.
func (s *Store) GetPlayerStats(name string) *Record {
	return s.records[name]
}

// Leaderboard ranks all players descending by the named metric, truncated to
// limit. Players are skipped silently for unknown metrics.
func (s *Store) Leaderboard(metric string, limit int) []LeaderboardEntry {
	var entries []LeaderboardEntry
	for name, record := range s.records {
		value, ok := metricValue(record, metric)
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{Name: name, Value: value})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Name < entries[j].Name
	})

	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func metricValue(r *Record, metric string) (float64, bool) {
	switch metric {
	case "total_score":
		return float64(r.TotalScore), true
	case "games_played":
		return float64(r.GamesPlayed), true
	case "highest_score":
		return float64(r.HighestScore), true
	case "average_score":
		return r.AverageScore, true
	case "questions_answered":
		return float64(r.QuestionsAnswered), true
	case "correct_answers":
		return float64(r.CorrectAnswers), true
	default:
		return 0, false
	}
}
