package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/firstclick-live/firstclick/internal/session"
)

// ExportRound appends a human-readable report of a finished round to the
// results file: the leaderboard in rank order and the team totals at that
// point. Called just before a reset wipes the clicks.
func ExportRound(rec session.Record, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	entries := session.Rank(rec)
	standings := session.ComputeStandings(rec)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("First Click round results - %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	if len(entries) == 0 {
		sb.WriteString("No clicks recorded.\n")
	} else {
		for i, entry := range entries {
			marker := ""
			if i == 0 {
				marker = " (winner)"
			}
			line := fmt.Sprintf("%d. %s %s%s", i+1, entry.Name, entry.Display, marker)
			if entry.Team != "" {
				line += fmt.Sprintf(" [team %s]", entry.Team)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString(fmt.Sprintf("Fastest click: %s\n", session.Fastest(entries)))
	}

	sb.WriteString(fmt.Sprintf("Scores: alpha %d, omega %d", standings.Alpha, standings.Omega))
	if standings.Leader == session.LeaderTie {
		sb.WriteString(" (tie)\n")
	} else {
		sb.WriteString(fmt.Sprintf(" (%s leads)\n", standings.Leader))
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
