package lieng

import "encoding/json"

// Phase represents the current phase of a round
type Phase int

// constants for Phase. Transitions are strictly linear:
// Waiting → Dealing → Betting → Showdown → Ended → Waiting
const (
	PhaseWaiting Phase = iota
	PhaseDealing
	PhaseBetting
	PhaseShowdown
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseDealing:
		return "dealing"
	case PhaseBetting:
		return "betting"
	case PhaseShowdown:
		return "showdown"
	case PhaseEnded:
		return "ended"
	}

	return ""
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}
