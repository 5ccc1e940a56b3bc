// Package cli is the interactive presentation layer. It only consumes the
// presentation-facing operations of the session engine and the stores.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/k5602/quizdesk/internal/app"
	"github.com/k5602/quizdesk/internal/question"
	"github.com/k5602/quizdesk/internal/session"
)

// CLI drives one player through menus and quiz sessions over a terminal.
type CLI struct {
	app *app.Application
	in  *bufio.Scanner
	out io.Writer
}

// New creates a CLI over the given reader and writer.
func New(application *app.Application, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		app: application,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run shows the main menu until the player quits.
func (c *CLI) Run() {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "=== Quiz Desk ===")
		fmt.Fprintln(c.out, "1) Play")
		fmt.Fprintln(c.out, "2) High scores")
		fmt.Fprintln(c.out, "3) Player statistics")
		fmt.Fprintln(c.out, "4) Quit")

		switch c.prompt("> ") {
		case "1":
			c.playSession()
		case "2":
			c.showHighScores()
		case "3":
			c.showPlayerStats()
		case "4", "q", "quit":
			return
		}
	}
}

func (c *CLI) prompt(label string) string {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "q"
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *CLI) playSession() {
	engine := c.app.Engine

	difficulty := c.choose("Difficulty", c.app.Questions.Difficulties())
	category := c.choose("Category", c.app.Questions.Categories())

	cfg := c.app.Config()
	if !engine.StartNewGame(difficulty, category, cfg.Gameplay.QuestionsPerGame) {
		fmt.Fprintln(c.out, "No questions available for the selected criteria.")
		return
	}

	seconds := int(cfg.Gameplay.PerQuestionSeconds.Seconds())
	for {
		q := engine.CurrentQuestion()
		if q == nil {
			break
		}
		if !c.askQuestion(q, seconds) {
			break
		}
		if !engine.Advance() {
			break
		}
	}

	c.finishSession(difficulty, category)
}

// choose offers "all" plus the available values.
func (c *CLI) choose(label string, available []string) string {
	options := append([]string{question.FilterAll}, available...)
	fmt.Fprintf(c.out, "%s (%s): ", label, strings.Join(options, ", "))
	if !c.in.Scan() {
		return question.FilterAll
	}
	value := strings.TrimSpace(c.in.Text())
	if value == "" {
		return question.FilterAll
	}
	return value
}

// askQuestion presents one question and routes the answer into the engine.
// Returns false when the player abandons the session.
func (c *CLI) askQuestion(q *question.Question, seconds int) bool {
	engine := c.app.Engine

	current, total := engine.Progress()
	fmt.Fprintf(c.out, "\nQuestion %d of %d  |  Score: %d\n", current, total, engine.Score())
	fmt.Fprintf(c.out, "[%s | %s] %s\n", q.Difficulty, q.Category, q.Text)

	options := engine.ShuffledOptions()
	for i, option := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, option)
	}
	fmt.Fprintln(c.out, "Enter a number, (h)int, (s)kip, or (q)uit.")

	var expired atomic.Bool
	countdown := session.NewCountdown(nil, func() {
		expired.Store(true)
		fmt.Fprintln(c.out, "\nTime is up! Press enter to continue.")
	})
	countdown.Start(seconds)

	for {
		input := c.prompt("> ")
		if expired.Load() {
			countdown.Stop()
			engine.SkipQuestion()
			fmt.Fprintf(c.out, "The correct answer was: %s\n", q.CorrectAnswer)
			return true
		}

		switch input {
		case "h":
			fmt.Fprintln(c.out, "Hint:", engine.UseHint())
			continue
		case "s":
			countdown.Stop()
			engine.SkipQuestion()
			return true
		case "q":
			countdown.Stop()
			return false
		}

		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(options) {
			fmt.Fprintln(c.out, "Invalid choice.")
			continue
		}

		countdown.Stop()
		if engine.CheckAnswer(options[idx-1]) {
			fmt.Fprintf(c.out, "Correct! +%d points.\n", q.PointsAwarded)
		} else {
			fmt.Fprintf(c.out, "Wrong. The correct answer was: %s\n", q.CorrectAnswer)
		}
		return true
	}
}

func (c *CLI) finishSession(difficulty, category string) {
	engine := c.app.Engine
	stats := engine.Statistics()

	fmt.Fprintln(c.out, "\n=== Session complete ===")
	fmt.Fprintf(c.out, "Score: %d\n", stats.Score)
	fmt.Fprintf(c.out, "Correct: %d  Incorrect: %d  Skipped: %d\n", stats.Correct, stats.Incorrect, stats.Skipped)
	fmt.Fprintf(c.out, "Accuracy: %.1f%%  Hints used: %d\n", stats.Accuracy, stats.HintsUsed)

	if c.app.Ledger.IsHighScore(stats.Score, category, difficulty) {
		fmt.Fprintln(c.out, "New high score!")
	}
	name := c.prompt("Enter your name to save your score: ")
	if name == "q" {
		name = ""
	}
	c.app.Ledger.Save(name, stats.Score, &stats)
	c.showHighScores()
}

func (c *CLI) showHighScores() {
	top := c.app.Ledger.TopScores(5, "", "")
	fmt.Fprintln(c.out, "\n=== High scores ===")
	if len(top) == 0 {
		fmt.Fprintln(c.out, "No high scores yet!")
		return
	}
	for i, entry := range top {
		fmt.Fprintf(c.out, "%d. %-20s %5d  %s  (%s/%s)\n",
			i+1, entry.Name, entry.Score, entry.Date, entry.Category, entry.Difficulty)
	}
}

func (c *CLI) showPlayerStats() {
	name := c.prompt("Player name: ")
	record := c.app.Stats.GetPlayerStats(name)
	if record == nil {
		fmt.Fprintln(c.out, "No statistics recorded for", name)
	} else {
		fmt.Fprintf(c.out, "\n=== %s ===\n", name)
		fmt.Fprintf(c.out, "Games played: %d  Total score: %d\n", record.GamesPlayed, record.TotalScore)
		fmt.Fprintf(c.out, "Highest: %d  Average: %.1f\n", record.HighestScore, record.AverageScore)
		fmt.Fprintf(c.out, "Questions answered: %d  Correct: %d\n", record.QuestionsAnswered, record.CorrectAnswers)
		if len(record.Achievements) > 0 {
			fmt.Fprintf(c.out, "Achievements: %s\n", strings.Join(record.Achievements, ", "))
		}
	}

	fmt.Fprintln(c.out, "\n=== Leaderboard (total score) ===")
	for i, entry := range c.app.Stats.Leaderboard("total_score", 5) {
		fmt.Fprintf(c.out, "%d. %-20s %.0f\n", i+1, entry.Name, entry.Value)
	}
}
