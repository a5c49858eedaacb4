package order

import (
	"fmt"
	"strings"

	"qrcafe/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so that kitchen
// staff can only move an order forward along the pipeline.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> Completed
//	   │            │
//	   └────────────┴──> Cancelled
//
// Completed and Cancelled are terminal. A transition to the current status is
// not an edge and is rejected like any other missing edge.
//
// The numeric value doubles as the display rank used to sort staff views:
// actionable orders come first.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every submitted order.
	Pending

	// Confirmed means staff accepted the order.
	Confirmed

	// Preparing means the kitchen started working on the order.
	Preparing

	// Ready means the order is waiting to be served.
	Ready

	// Completed is a final state: the order was served.
	Completed

	// Cancelled is a final state: the order will not be served.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// getTransitions returns the permitted edges of the lifecycle DAG.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Preparing, Cancelled},
		Preparing: {Ready},
		Ready:     {Completed},
	}
}

// Statuses lists every valid status in rank order.
func Statuses() []Status {
	return []Status{Pending, Confirmed, Preparing, Ready, Completed, Cancelled}
}

// ParseStatus converts the wire name of a status (case-insensitive) into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Unknown, errs.NewValueIsRequiredError("status")
	}
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks that s is one of the six lifecycle statuses.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Rank is the sort key used by staff views: pending 0 through cancelled 5.
// Invalid statuses sort last.
func (s Status) Rank() int {
	if s.Validate() != nil {
		return int(Cancelled)
	}
	return int(s) - 1
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// NextStatuses returns the statuses reachable in one step.
func (s Status) NextStatuses() []Status {
	next := getTransitions()[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether s -> target is an edge of the lifecycle.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range getTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when s -> target is permitted.
//
// Returns:
//   - (target, nil) on a valid edge
//   - (Unknown, ValueIsInvalidError) when target is not a lifecycle status
//   - (Unknown, TransitionIsInvalidError) for every other request, including self-transitions
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewTransitionIsInvalidError(s.String(), target.String())
	}
	return target, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
