package session

import (
	"github.com/firstclick-live/firstclick/internal/store"
)

// Field paths of the shared session record. Mutations and decoding both go
// through these so the wire shape stays in one place.
const (
	FieldParticipants     = "participants"
	FieldClicks           = "clicks"
	FieldButtonEnabled    = "buttonEnabled"
	FieldEnabledTimestamp = "enabledTimestamp"
	FieldSessionLocked    = "sessionLocked"
	FieldScores           = "scores"
)

// ParticipantID is the opaque identifier handed out at join time. Never
// reused.
type ParticipantID string

type Team string

const (
	TeamAlpha Team = "alpha"
	TeamOmega Team = "omega"
)

// ValidTeam reports whether t names one of the two fixed teams.
func ValidTeam(t Team) bool {
	return t == TeamAlpha || t == TeamOmega
}

type Participant struct {
	Name     string `json:"name"`
	Team     Team   `json:"team,omitempty"`
	Disabled bool   `json:"disabled"`
}

// Click is one recorded buzz. Valid is false when the stored value lacked a
// usable timestamp; the entry still counts as "this participant clicked" but
// is excluded from ranking.
type Click struct {
	At    store.Timestamp `json:"at"`
	Valid bool            `json:"valid"`
}

// Record is one decoded snapshot of the shared session record. A nil
// Participants map means the snapshot carried no participants field at all,
// which is distinct from an empty one (the view-state machine needs the
// difference to tell "removed" from "nobody joined yet").
type Record struct {
	Participants  map[ParticipantID]Participant `json:"participants"`
	Clicks        map[ParticipantID]Click       `json:"clicks"`
	ButtonEnabled bool                          `json:"buttonEnabled"`
	EnabledAt     *store.Timestamp              `json:"enabledTimestamp,omitempty"`
	Locked        bool                          `json:"sessionLocked"`
	Scores        map[Team]int64                `json:"scores"`
}

// DecodeRecord turns a raw store document into a typed Record. Malformed
// sub-structure is dropped or zeroed, never propagated as an error: one bad
// entry must not take down ranking or view-state for everyone else.
func DecodeRecord(doc store.Document) Record {
	rec := Record{
		Scores: map[Team]int64{TeamAlpha: 0, TeamOmega: 0},
	}

	if raw, ok := doc[FieldParticipants].(map[string]any); ok {
		rec.Participants = make(map[ParticipantID]Participant, len(raw))
		for id, v := range raw {
			entry, ok := decodeParticipant(v)
			if !ok {
				continue
			}
			rec.Participants[ParticipantID(id)] = entry
		}
	}

	if raw, ok := doc[FieldClicks].(map[string]any); ok {
		rec.Clicks = make(map[ParticipantID]Click, len(raw))
		for id, v := range raw {
			if ts, ok := v.(store.Timestamp); ok {
				rec.Clicks[ParticipantID(id)] = Click{At: ts, Valid: true}
			} else {
				rec.Clicks[ParticipantID(id)] = Click{}
			}
		}
	}

	rec.ButtonEnabled, _ = doc[FieldButtonEnabled].(bool)
	rec.Locked, _ = doc[FieldSessionLocked].(bool)

	if ts, ok := doc[FieldEnabledTimestamp].(store.Timestamp); ok {
		rec.EnabledAt = &ts
	}

	if raw, ok := doc[FieldScores].(map[string]any); ok {
		for team, v := range raw {
			t := Team(team)
			if !ValidTeam(t) {
				continue
			}
			rec.Scores[t] = numeric(v)
		}
	}

	return rec
}

func decodeParticipant(v any) (Participant, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Participant{}, false
	}
	name, _ := m["name"].(string)
	if name == "" {
		return Participant{}, false
	}
	p := Participant{Name: name}
	if team, ok := m["team"].(string); ok && ValidTeam(Team(team)) {
		p.Team = Team(team)
	}
	p.Disabled, _ = m["disabled"].(bool)
	return p, true
}

func numeric(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
