package game

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/firstclick-live/firstclick/internal/session"
	"github.com/firstclick-live/firstclick/internal/store"
)

var (
	ErrEmptyName          = errors.New("participant name must not be empty")
	ErrUnknownTeam        = errors.New("unknown team")
	ErrEmptyParticipantID = errors.New("empty participant id")
)

// Service issues the fixed set of mutations against the shared session
// record. Every method writes a pure delta: nothing here reads the record
// first, so no operation can lose a concurrent writer's update. Score changes
// go through the store's commutative increment; everything else is a
// last-writer-wins field merge, which is exactly the tolerance the ranking
// engine is built around.
type Service struct {
	store    *store.Store
	recordID string
}

func New(st *store.Store, recordID string) *Service {
	return &Service{store: st, recordID: recordID}
}

func (s *Service) RecordID() string {
	return s.recordID
}

// Subscribe opens a snapshot stream on the session record.
func (s *Service) Subscribe() *store.Subscription {
	return s.store.Subscribe(s.recordID)
}

// Join creates a fresh participant entry and returns its generated id. The
// team is optional; some deployments run without team play.
func (s *Service) Join(name string, team session.Team) (session.ParticipantID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if team != "" && !session.ValidTeam(team) {
		return "", ErrUnknownTeam
	}

	id := session.ParticipantID(uuid.NewString())
	entry := map[string]any{
		"name":     name,
		"disabled": false,
	}
	if team != "" {
		entry["team"] = string(team)
	}
	err := s.store.MergeWrite(s.recordID, map[string]any{
		session.FieldParticipants + "." + string(id): entry,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// EnableButton opens a round: the server-assigned enable time is the fairness
// origin every click is measured against.
func (s *Service) EnableButton() error {
	return s.store.MergeWrite(s.recordID, map[string]any{
		session.FieldButtonEnabled:    true,
		session.FieldEnabledTimestamp: s.store.Now(),
	})
}

func (s *Service) DisableButton() error {
	return s.store.MergeWrite(s.recordID, map[string]any{
		session.FieldButtonEnabled: false,
	})
}

// ResetGame clears the round (clicks and enable origin) in one write.
// Participants are deliberately untouched so everyone can buzz again next
// round.
func (s *Service) ResetGame() error {
	return s.store.MergeWrite(s.recordID, map[string]any{
		session.FieldClicks:           map[string]any{},
		session.FieldButtonEnabled:    false,
		session.FieldEnabledTimestamp: nil,
	})
}

func (s *Service) LockSession() error {
	return s.store.MergeWrite(s.recordID, map[string]any{
		session.FieldSessionLocked: true,
	})
}

func (s *Service) UnlockSession() error {
	return s.store.MergeWrite(s.recordID, map[string]any{
		session.FieldSessionLocked: false,
	})
}

// SetParticipantDisabled writes the absolute disabled flag. The caller
// computes the flip from its own snapshot; sending the target value instead
// of a "toggle" keeps the write a plain merge.
func (s *Service) SetParticipantDisabled(id session.ParticipantID, disabled bool) error {
	if id == "" {
		return ErrEmptyParticipantID
	}
	return s.store.MergeWrite(s.recordID, map[string]any{
		session.FieldParticipants + "." + string(id) + ".disabled": disabled,
	})
}

// RemoveParticipant deletes the participant entry and any click it recorded
// in a single operation, so a removed participant can never leave an orphaned
// click behind.
func (s *Service) RemoveParticipant(id session.ParticipantID) error {
	if id == "" {
		return ErrEmptyParticipantID
	}
	return s.store.DeleteFields(s.recordID,
		session.FieldParticipants+"."+string(id),
		session.FieldClicks+"."+string(id),
	)
}

// RecordClick stamps the participant's buzz with server time and closes the
// button in the same write. The eligibility check (enabled, not yet clicked,
// not disabled) is the caller's, against a possibly stale snapshot; two
// racing clicks may both land, and ranking by timestamp settles it.
func (s *Service) RecordClick(id session.ParticipantID) error {
	if id == "" {
		return ErrEmptyParticipantID
	}
	return s.store.MergeWrite(s.recordID, map[string]any{
		session.FieldClicks + "." + string(id): s.store.Now(),
		session.FieldButtonEnabled:             false,
	})
}

// UpdateScore adds delta to a team counter. Concurrent updates from several
// admin screens converge regardless of order; do not turn this into a
// read-modify-write.
func (s *Service) UpdateScore(team session.Team, delta int64) error {
	if !session.ValidTeam(team) {
		return ErrUnknownTeam
	}
	return s.store.AtomicIncrement(s.recordID, session.FieldScores+"."+string(team), delta)
}
