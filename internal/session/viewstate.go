package session

// ViewState is what one participant's screen should show for a given
// snapshot.
type ViewState string

const (
	ViewLoading   ViewState = "loading"
	ViewRemoved   ViewState = "removed"
	ViewDisabled  ViewState = "disabled"
	ViewClicked   ViewState = "clicked"
	ViewRoundOver ViewState = "round_over"
	ViewActive    ViewState = "active"
	ViewWaiting   ViewState = "waiting"
)

// ViewFor derives the participant's display state from a snapshot. The rules
// are evaluated strictly top to bottom and the first match wins; the order is
// a contract, not an optimization. A disabled participant sees "disabled"
// even mid-round, a removed one sees "removed" before anything else is
// considered.
func ViewFor(rec *Record, id ParticipantID) ViewState {
	if rec == nil {
		return ViewLoading
	}
	entry, present := rec.Participants[id]
	if rec.Participants != nil && !present {
		return ViewRemoved
	}
	if present && entry.Disabled {
		return ViewDisabled
	}
	if _, clicked := rec.Clicks[id]; clicked {
		return ViewClicked
	}
	if len(rec.Clicks) > 0 {
		return ViewRoundOver
	}
	if rec.ButtonEnabled {
		return ViewActive
	}
	return ViewWaiting
}
