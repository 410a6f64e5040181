package session

// LeaderTie marks a level score between the two teams.
const LeaderTie = "tie"

// Standings is the derived team score summary. Leader is "alpha", "omega" or
// LeaderTie; there is no stored leader field anywhere, this is recomputed
// from scratch on every snapshot.
type Standings struct {
	Alpha  int64  `json:"alpha"`
	Omega  int64  `json:"omega"`
	Leader string `json:"leader"`
}

// ComputeStandings folds the record's score counters into a summary.
func ComputeStandings(rec Record) Standings {
	s := Standings{
		Alpha: rec.Scores[TeamAlpha],
		Omega: rec.Scores[TeamOmega],
	}
	switch {
	case s.Alpha > s.Omega:
		s.Leader = string(TeamAlpha)
	case s.Omega > s.Alpha:
		s.Leader = string(TeamOmega)
	default:
		s.Leader = LeaderTie
	}
	return s
}
