package lieng

import (
	"encoding/json"
	"fmt"
)

// Action represents a betting action a player can take
type Action string

// action constants. The identifiers double as the wire format; the
// Vietnamese names (bỏ, theo, tố, tố tất) show up in log text only.
const (
	ActionFold  Action = "fold"
	ActionCall  Action = "call"
	ActionRaise Action = "raise"
	ActionAllIn Action = "all-in"
)

var allowedActions = map[Action]bool{
	ActionFold:  true,
	ActionCall:  true,
	ActionRaise: true,
	ActionAllIn: true,
}

// ActionFromString returns an action for the given string
func ActionFromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case ActionFold:
		return "Fold"
	case ActionCall:
		return "Call"
	case ActionRaise:
		return "Raise"
	case ActionAllIn:
		return "All-In"
	}

	panic("unknown action")
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// LogMessage returns a message formatted for the log
func (a Action) LogMessage(amount int) string {
	switch a {
	case ActionFold:
		return "folded (bỏ)"
	case ActionCall:
		return fmt.Sprintf("called ${%d} (theo)", amount)
	case ActionRaise:
		return fmt.Sprintf("raised to ${%d} (tố)", amount)
	case ActionAllIn:
		return fmt.Sprintf("went all-in for ${%d} (tố tất)", amount)
	}

	return ""
}
