package session

import (
	"fmt"
	"sort"
)

// FastestNone is shown when no valid click exists in the current round.
const FastestNone = "N/A"

// RankEntry is one row of the leaderboard.
type RankEntry struct {
	ID      ParticipantID `json:"id"`
	Name    string        `json:"name"`
	Team    Team          `json:"team,omitempty"`
	Speed   float64       `json:"speed"`
	Display string        `json:"display"`
}

// Rank orders the round's clicks by reaction speed, fastest first.
//
// Entries are excluded when the round has no enable origin, when the click
// value carried no usable timestamp, or when the speed comes out negative (a
// stale click from a previous round that raced a reset). Ties beyond speed
// keep a deterministic but otherwise unspecified order.
func Rank(rec Record) []RankEntry {
	if rec.EnabledAt == nil || len(rec.Clicks) == 0 {
		return nil
	}
	origin := rec.EnabledAt.Millis()

	ids := make([]ParticipantID, 0, len(rec.Clicks))
	for id := range rec.Clicks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	entries := make([]RankEntry, 0, len(ids))
	for _, id := range ids {
		click := rec.Clicks[id]
		if !click.Valid {
			continue
		}
		speed := float64(click.At.Millis()-origin) / 1000
		if speed < 0 {
			continue
		}
		name := "Unknown"
		var team Team
		if p, ok := rec.Participants[id]; ok {
			name = p.Name
			team = p.Team
		}
		entries = append(entries, RankEntry{
			ID:      id,
			Name:    name,
			Team:    team,
			Speed:   speed,
			Display: fmt.Sprintf("+%.3fs", speed),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Speed < entries[j].Speed })
	return entries
}

// Fastest formats the winning speed to millisecond precision, or FastestNone
// when the filtered leaderboard is empty.
func Fastest(entries []RankEntry) string {
	if len(entries) == 0 {
		return FastestNone
	}
	return fmt.Sprintf("%.3fs", entries[0].Speed)
}
