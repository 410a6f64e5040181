package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firstclick-live/firstclick/internal/session"
	"github.com/firstclick-live/firstclick/internal/store"
)

func TestExportRound(t *testing.T) {
	origin := store.TimestampFromMillis(10000)
	rec := session.Record{
		Participants: map[session.ParticipantID]session.Participant{
			"a": {Name: "Alice", Team: session.TeamAlpha},
			"b": {Name: "Bob", Team: session.TeamOmega},
		},
		Clicks: map[session.ParticipantID]session.Click{
			"a": {At: store.TimestampFromMillis(10412), Valid: true},
			"b": {At: store.TimestampFromMillis(10900), Valid: true},
		},
		EnabledAt: &origin,
		Scores:    map[session.Team]int64{session.TeamAlpha: 3, session.TeamOmega: 1},
	}

	file := filepath.Join(t.TempDir(), "results.txt")
	if err := ExportRound(rec, file); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "1. Alice +0.412s (winner) [team alpha]") {
		t.Fatalf("missing winner line in:\n%s", out)
	}
	if !strings.Contains(out, "2. Bob +0.900s [team omega]") {
		t.Fatalf("missing runner-up line in:\n%s", out)
	}
	if !strings.Contains(out, "Fastest click: 0.412s") {
		t.Fatalf("missing fastest line in:\n%s", out)
	}
	if !strings.Contains(out, "Scores: alpha 3, omega 1 (alpha leads)") {
		t.Fatalf("missing scores line in:\n%s", out)
	}

	// a second export appends instead of truncating
	if err := ExportRound(rec, file); err != nil {
		t.Fatalf("second export failed: %v", err)
	}
	data, _ = os.ReadFile(file)
	if strings.Count(string(data), "First Click round results") != 2 {
		t.Fatalf("expected two appended reports:\n%s", string(data))
	}
}

func TestExportRoundNoClicks(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.txt")
	rec := session.Record{}
	if err := ExportRound(rec, file); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, _ := os.ReadFile(file)
	if !strings.Contains(string(data), "No clicks recorded.") {
		t.Fatalf("missing placeholder in:\n%s", string(data))
	}
}
