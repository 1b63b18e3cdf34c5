// Package status defines the per-conversation synchronization state machine.
package status

import "errors"

// Status represents the load state of the active conversation view.
type Status string

const (
	StatusIdle    Status = "idle"    // No conversation selected yet
	StatusLoading Status = "loading" // Initial fetch for a newly selected conversation
	StatusLoaded  Status = "loaded"  // Snapshot available; background refreshes stay here
	StatusError   Status = "error"   // Initial fetch failed; retried on next tick
)

// ErrInvalidTransition is returned when a state transition is not allowed.
var ErrInvalidTransition = errors.New("invalid sync state transition")

// ValidTransitions defines allowed state transitions. Background refreshes
// never re-enter Loading; only selecting a conversation does.
var ValidTransitions = map[Status][]Status{
	StatusIdle:    {StatusLoading},
	StatusLoading: {StatusLoaded, StatusError, StatusLoading},
	StatusLoaded:  {StatusLoading},
	StatusError:   {StatusLoading},
}

// IsSettled returns true when no initial fetch is outstanding.
func (s Status) IsSettled() bool {
	return s == StatusLoaded || s == StatusError
}

// ShowsIndicator returns true when the UI should render a loading
// indicator. Only the initial load of a newly selected conversation
// qualifies; background polls never flip this on.
func (s Status) ShowsIndicator() bool {
	return s == StatusLoading
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range ValidTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts the transition and returns an error if invalid.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}
