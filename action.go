package caliper

import (
	"fmt"
	"strings"
)

// Action is the verb describing what an actor did to an object.
type Action int

const (
	// ActionUnset is the zero value; events require a real action.
	ActionUnset Action = iota
	ActionArchived
	ActionCopied
	ActionCreated
	ActionDeleted
	ActionModified
	ActionRestored
	ActionShared
	ActionSubmitted
	ActionUsed
	ActionViewed
)

var actionTerms = map[Action]string{
	ActionArchived:  "Archived",
	ActionCopied:    "Copied",
	ActionCreated:   "Created",
	ActionDeleted:   "Deleted",
	ActionModified:  "Modified",
	ActionRestored:  "Restored",
	ActionShared:    "Shared",
	ActionSubmitted: "Submitted",
	ActionUsed:      "Used",
	ActionViewed:    "Viewed",
}

// Term returns the Caliper term for the action and whether it is known.
func (a Action) Term() (string, bool) {
	term, ok := actionTerms[a]
	return term, ok
}

func (a Action) String() string {
	if term, ok := actionTerms[a]; ok {
		return term
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// MarshalText encodes the action as its Caliper term.
func (a Action) MarshalText() ([]byte, error) {
	term, ok := a.Term()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
	}
	return []byte(term), nil
}

// UnmarshalText accepts a Caliper term, case-insensitively.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction maps a Caliper term such as "Modified" to its Action.
func ParseAction(term string) (Action, error) {
	for action, t := range actionTerms {
		if strings.EqualFold(t, strings.TrimSpace(term)) {
			return action, nil
		}
	}
	return ActionUnset, fmt.Errorf("%w: %q", ErrUnknownAction, term)
}
