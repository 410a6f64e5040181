package session

import "testing"

func TestStandingsAlphaLeads(t *testing.T) {
	rec := Record{Scores: map[Team]int64{TeamAlpha: 3, TeamOmega: 1}}
	s := ComputeStandings(rec)
	if s.Alpha != 3 || s.Omega != 1 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.Leader != string(TeamAlpha) {
		t.Fatalf("expected alpha to lead, got %s", s.Leader)
	}
}

func TestStandingsOmegaLeads(t *testing.T) {
	rec := Record{Scores: map[Team]int64{TeamAlpha: -1, TeamOmega: 0}}
	s := ComputeStandings(rec)
	if s.Leader != string(TeamOmega) {
		t.Fatalf("expected omega to lead, got %s", s.Leader)
	}
}

func TestStandingsTie(t *testing.T) {
	rec := Record{Scores: map[Team]int64{TeamAlpha: 2, TeamOmega: 2}}
	if s := ComputeStandings(rec); s.Leader != LeaderTie {
		t.Fatalf("expected tie, got %s", s.Leader)
	}
}

func TestStandingsZeroValue(t *testing.T) {
	// missing scores map reads as 0:0
	if s := ComputeStandings(Record{}); s.Leader != LeaderTie || s.Alpha != 0 || s.Omega != 0 {
		t.Fatalf("expected 0:0 tie, got %+v", s)
	}
}
