package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionType is a closed set of betting actions.
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

// String returns the wire name of the action.
func (a ActionType) String() string {
	switch a {
	case Fold:
		return "Fold"
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Bet:
		return "Bet"
	case Raise:
		return "Raise"
	case AllIn:
		return "AllIn"
	default:
		return "Unknown"
	}
}

// ParseActionType parses a wire action name, case-insensitively.
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	case "allin", "all-in", "all_in":
		return AllIn, nil
	default:
		return Fold, fmt.Errorf("unknown action type %q", s)
	}
}

// MarshalJSON encodes the action type as its wire name.
func (a ActionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a wire action name.
func (a *ActionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseActionType(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Action is a requested player action. Amount is only meaningful for Bet and
// Raise, where it is the total street commitment the actor wants to reach.
type Action struct {
	Type   ActionType `json:"action_type"`
	Amount int        `json:"amount"`
}
