package run

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery run.
//
// State transitions:
//
//	DRAFT ──> PLANNED ──> ASSIGNED ──> IN_PROGRESS ──> COMPLETED
//	  │  └────────────────────┘            │
//	  └──────────┴─────────┴───────────────┴──> CANCELLED
//
// DRAFT and PLANNED may both go straight to ASSIGNED. COMPLETED and
// CANCELLED are terminal. Values are persisted as integers.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Draft runs have orders attached by dispatch and nothing else.
	Draft

	// Planned runs have been reviewed; still no driver or vehicle.
	Planned

	// Assigned runs have a driver and a vehicle bound and capacity checked.
	Assigned

	// InProgress is set when the driver starts the route.
	InProgress

	Completed

	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Draft:      "DRAFT",
		Planned:    "PLANNED",
		Assigned:   "ASSIGNED",
		InProgress: "IN_PROGRESS",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

// ActiveStatuses are the non-terminal statuses that count toward the
// one-active-run-per-zone-and-date rule.
func ActiveStatuses() []Status {
	return []Status{Draft, Planned, Assigned, InProgress}
}

// ParseStatus accepts the upper-case names returned by String.
func ParseStatus(s string) (Status, error) {
	for st, name := range getStatusStrings() {
		if st != Unknown && strings.EqualFold(name, s) {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a run status", s))
}

func (s Status) Validate() error {
	if s < Draft || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports COMPLETED and CANCELLED.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// AcceptsOrders reports whether orders can still be appended.
func (s Status) AcceptsOrders() bool {
	return s == Draft || s == Planned
}

// Plan moves DRAFT to PLANNED.
func (s Status) Plan() (Status, error) {
	if s != Draft {
		return Unknown, s.transitionError(Planned)
	}
	return Planned, nil
}

// Assign moves DRAFT or PLANNED to ASSIGNED. An ASSIGNED run is not
// reassigned; it must be cancelled and recreated.
func (s Status) Assign() (Status, error) {
	if s != Draft && s != Planned {
		return Unknown, s.transitionError(Assigned)
	}
	return Assigned, nil
}

// Start moves ASSIGNED to IN_PROGRESS.
func (s Status) Start() (Status, error) {
	if s != Assigned {
		return Unknown, s.transitionError(InProgress)
	}
	return InProgress, nil
}

// Complete moves IN_PROGRESS to COMPLETED.
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return Unknown, s.transitionError(Completed)
	}
	return Completed, nil
}

// Cancel is allowed from every non-terminal status.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, s.transitionError(Cancelled)
	}
	return Cancelled, nil
}

func (s Status) transitionError(to Status) error {
	return errs.NewInvalidStateError("status", "", s.String(), fmt.Sprintf("cannot move to %s", to))
}
