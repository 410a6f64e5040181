package session

import (
	"testing"

	"github.com/firstclick-live/firstclick/internal/store"
)

func TestDecodeRecordEmptyDoc(t *testing.T) {
	rec := DecodeRecord(nil)
	if rec.Participants != nil {
		t.Fatal("no participants field should decode to a nil map")
	}
	if rec.ButtonEnabled || rec.Locked {
		t.Fatal("flags should default to false")
	}
	if rec.EnabledAt != nil {
		t.Fatal("enable origin should default to absent")
	}
	if rec.Scores[TeamAlpha] != 0 || rec.Scores[TeamOmega] != 0 {
		t.Fatalf("scores should default to 0, got %v", rec.Scores)
	}
}

func TestDecodeRecordTyped(t *testing.T) {
	doc := store.Document{
		"participants": map[string]any{
			"p1": map[string]any{"name": "Alice", "team": "alpha", "disabled": false},
			"p2": map[string]any{"name": "Bob", "disabled": true},
		},
		"clicks": map[string]any{
			"p1": store.TimestampFromMillis(1500),
		},
		"buttonEnabled":    true,
		"enabledTimestamp": store.TimestampFromMillis(1000),
		"sessionLocked":    true,
		"scores":           map[string]any{"alpha": int64(3), "omega": int64(1)},
	}

	rec := DecodeRecord(doc)
	if len(rec.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(rec.Participants))
	}
	if p := rec.Participants["p1"]; p.Name != "Alice" || p.Team != TeamAlpha || p.Disabled {
		t.Fatalf("p1 decoded wrong: %+v", p)
	}
	if p := rec.Participants["p2"]; p.Team != "" || !p.Disabled {
		t.Fatalf("p2 decoded wrong: %+v", p)
	}
	click, ok := rec.Clicks["p1"]
	if !ok || !click.Valid || click.At.Millis() != 1500 {
		t.Fatalf("click decoded wrong: %+v", click)
	}
	if !rec.ButtonEnabled || !rec.Locked {
		t.Fatal("flags should decode true")
	}
	if rec.EnabledAt == nil || rec.EnabledAt.Millis() != 1000 {
		t.Fatalf("enable origin decoded wrong: %v", rec.EnabledAt)
	}
	if rec.Scores[TeamAlpha] != 3 || rec.Scores[TeamOmega] != 1 {
		t.Fatalf("scores decoded wrong: %v", rec.Scores)
	}
}

func TestDecodeRecordMalformed(t *testing.T) {
	doc := store.Document{
		"participants": map[string]any{
			"good":    map[string]any{"name": "Alice"},
			"noName":  map[string]any{"disabled": true},
			"badTeam": map[string]any{"name": "Eve", "team": "gamma"},
			"scalar":  42,
		},
		"clicks": map[string]any{
			"good": store.TimestampFromMillis(1500),
			"bad":  "not-a-timestamp",
		},
		"buttonEnabled":    "yes", // wrong type
		"enabledTimestamp": "soon",
		"scores":           map[string]any{"alpha": "many", "gamma": int64(7)},
	}

	rec := DecodeRecord(doc)

	if _, ok := rec.Participants["good"]; !ok {
		t.Fatal("well-formed entry should survive")
	}
	if _, ok := rec.Participants["noName"]; ok {
		t.Fatal("entry without a name should be dropped")
	}
	if _, ok := rec.Participants["scalar"]; ok {
		t.Fatal("non-map entry should be dropped")
	}
	if p := rec.Participants["badTeam"]; p.Team != "" {
		t.Fatalf("unknown team should decode empty, got %q", p.Team)
	}

	// a malformed click still counts as "clicked" for presence, but carries
	// no usable timestamp
	bad, ok := rec.Clicks["bad"]
	if !ok {
		t.Fatal("malformed click should keep its presence")
	}
	if bad.Valid {
		t.Fatal("malformed click must not claim a valid timestamp")
	}

	if rec.ButtonEnabled {
		t.Fatal("wrongly typed flag should decode false")
	}
	if rec.EnabledAt != nil {
		t.Fatal("wrongly typed enable origin should decode absent")
	}
	if rec.Scores[TeamAlpha] != 0 {
		t.Fatalf("non-numeric score should decode 0, got %d", rec.Scores[TeamAlpha])
	}
	if _, ok := rec.Scores[Team("gamma")]; ok {
		t.Fatal("unknown team score should be ignored")
	}
}

func TestDecodedRoundSurvivesViewAndRank(t *testing.T) {
	// malformed data flows end to end without ever raising
	doc := store.Document{
		"participants": map[string]any{
			"a": map[string]any{"name": "Alice"},
		},
		"clicks": map[string]any{
			"a": "garbage",
		},
		"enabledTimestamp": store.TimestampFromMillis(1000),
	}
	rec := DecodeRecord(doc)

	if got := ViewFor(&rec, "a"); got != ViewClicked {
		t.Fatalf("presence of a malformed click still means clicked, got %s", got)
	}
	if entries := Rank(rec); len(entries) != 0 {
		t.Fatalf("malformed click must be excluded from ranking, got %v", entries)
	}
}
