package fleet

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status says whether a driver or vehicle may be offered for assignment.
type Status int

const (
	Unknown Status = iota
	Active
	Inactive
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "unknown",
		Active:   "active",
		Inactive: "inactive",
	}
}

func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return Active, nil
	case "inactive":
		return Inactive, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a fleet status", s))
}

func (s Status) Validate() error {
	if s != Active && s != Inactive {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
