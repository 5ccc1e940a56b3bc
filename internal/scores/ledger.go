package scores

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/k5602/quizdesk/internal/question"
	"github.com/k5602/quizdesk/internal/session"
)

// DateLayout is the timestamp format used in the ledger file.
const DateLayout = "2006-01-02 15:04:05"

// highScoreRank is how many top entries a score must beat into.
const highScoreRank = 5

// Entry is one ranked score line.
type Entry struct {
	Name       string
	Score      int
	Date       string
	Category   string
	Difficulty string
}

// StatsUpdater receives the per-player aggregate update on every saved score.
type StatsUpdater interface {
	Update(name string, score int, gameStats *session.Stats)
}

// Ledger persists ranked score entries to a comma-delimited text file. The
// whole file is rewritten on every save.
type Ledger struct {
	path    string
	entries []Entry
	stats   StatsUpdater
	logger  zerolog.Logger
	now     func() time.Time
}

// NewLedger loads the ledger at path. A missing file yields an empty ledger.
// stats may be nil when no aggregate store is attached.
func NewLedger(path string, stats StatsUpdater, logger zerolog.Logger) *Ledger {
	l := &Ledger{
		path:   path,
		stats:  stats,
		logger: logger.With().Str("component", "score_ledger").Logger(),
		now:    time.Now,
	}
	l.load()
	return l
}

func (l *Ledger) load() {
	l.entries = nil

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn().Err(err).Str("path", l.path).Msg("score file unreadable, starting empty")
		}
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry, ok := parseLine(line)
		if !ok {
			l.logger.Warn().Str("line", line).Msg("skipping malformed score line")
			continue
		}
		l.entries = append(l.entries, entry)
	}
	l.sortEntries()
}

// parseLine accepts the extended 5-field form and the legacy name,score form.
func parseLine(line string) (Entry, bool) {
	fields := strings.Split(line, ",")
	switch {
	case len(fields) >= 5:
		score, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return Entry{}, false
		}
		return Entry{
			Name:       fields[0],
			Score:      score,
			Date:       fields[2],
			Category:   fields[3],
			Difficulty: fields[4],
		}, true
	case len(fields) == 2:
		score, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return Entry{}, false
		}
		return Entry{
			Name:       fields[0],
			Score:      score,
			Date:       "Unknown",
			Category:   question.FilterAll,
			Difficulty: question.FilterAll,
		}, true
	default:
		return Entry{}, false
	}
}

func (l *Ledger) sortEntries() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Score > l.entries[j].Score
	})
}

// Save records a new score, rewrites the ledger file, and forwards the game
// statistics to the attached stats store. An empty name becomes "Anonymous".
func (l *Ledger) Save(name string, score int, gameStats *session.Stats) {
	if name == "" {
		name = "Anonymous"
	}

	category, difficulty := question.FilterAll, question.FilterAll
	if gameStats != nil {
		if gameStats.Category != "" {
			category = gameStats.Category
		}
		if gameStats.Difficulty != "" {
			difficulty = gameStats.Difficulty
		}
	}

	l.entries = append(l.entries, Entry{
		Name:       name,
		Score:      score,
		Date:       l.now().Format(DateLayout),
		Category:   category,
		Difficulty: difficulty,
	})
	l.sortEntries()
	l.write()

	if l.stats != nil {
		l.stats.Update(name, score, gameStats)
	}
}

func (l *Ledger) write() {
	var sb strings.Builder
	for _, e := range l.entries {
		fmt.Fprintf(&sb, "%s,%d,%s,%s,%s\n", e.Name, e.Score, e.Date, e.Category, e.Difficulty)
	}
	if err := os.WriteFile(l.path, []byte(sb.String()), 0o644); err != nil {
		l.logger.Error().Err(err).Str("path", l.path).Msg("failed to write score file")
	}
}

// TopScores returns up to limit entries sorted descending by score. Category
// and difficulty filter by exact match; "" or "all" disables either filter.
func (l *Ledger) TopScores(limit int, category, difficulty string) []Entry {
	qualifying := l.filter(category, difficulty)
	if limit < len(qualifying) {
		qualifying = qualifying[:limit]
	}
	return qualifying
}

// IsHighScore reports whether score would rank among the top five qualifying
// entries. Any score qualifies while fewer than five entries exist.
func (l *Ledger) IsHighScore(score int, category, difficulty string) bool {
	qualifying := l.filter(category, difficulty)
	if len(qualifying) < highScoreRank {
		return true
	}
	return score > qualifying[highScoreRank-1].Score
}

func (l *Ledger) filter(category, difficulty string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if category != "" && category != question.FilterAll && e.Category != category {
			continue
		}
		if difficulty != "" && difficulty != question.FilterAll && e.Difficulty != difficulty {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Reload re-reads the ledger from disk.
func (l *Ledger) Reload() {
	l.load()
}
