package errs

import (
	"errors"
	"fmt"
)

var (
	ErrGeometry         = errors.New("geometry is malformed")
	ErrNoZonesAvailable = errors.New("no zones available")
	ErrTemplateNotFound = errors.New("zone template not found")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidState     = errors.New("invalid state")
	ErrExternalService  = errors.New("external service failed")
)

const (
	MsgResourceCommitted  = "driver or vehicle already committed for this date"
	MsgDuplicateRunForDay = "active run already exists for zone and date"
)

// GeometryError reports a zone boundary that cannot be used for geofencing.
type GeometryError struct {
	Reason string
}

func NewGeometryError(reason string) *GeometryError {
	return &GeometryError{Reason: reason}
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrGeometry, sanitize(e.Reason))
}

func (e *GeometryError) Unwrap() error {
	return ErrGeometry
}

// NoZonesAvailableError is returned when no candidate zone exists for a date.
type NoZonesAvailableError struct {
	Date string
}

func NewNoZonesAvailableError(date string) *NoZonesAvailableError {
	return &NoZonesAvailableError{Date: date}
}

func (e *NoZonesAvailableError) Error() string {
	if e.Date == "" {
		return ErrNoZonesAvailable.Error()
	}
	return fmt.Sprintf("%s: date is %s", ErrNoZonesAvailable, e.Date)
}

func (e *NoZonesAvailableError) Unwrap() error {
	return ErrNoZonesAvailable
}

type TemplateNotFoundError struct {
	Name string
}

func NewTemplateNotFoundError(name string) *TemplateNotFoundError {
	return &TemplateNotFoundError{Name: name}
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTemplateNotFound, sanitize(e.Name))
}

func (e *TemplateNotFoundError) Unwrap() error {
	return ErrTemplateNotFound
}

// ConflictError means the caller lost a race on a shared record.
// Entity and ID identify what the caller was writing so it can retry
// with a different resource or defer.
type ConflictError struct {
	Message string
	Entity  string
	ID      string
	Cause   error
}

func NewConflictError(message string, entity string, id string) *ConflictError {
	return &ConflictError{
		Message: message,
		Entity:  entity,
		ID:      id,
	}
}

func NewConflictErrorWithCause(message string, entity string, id string, cause error) *ConflictError {
	return &ConflictError{
		Message: message,
		Entity:  entity,
		ID:      id,
		Cause:   cause,
	}
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrConflict, sanitize(e.Message))
	if e.Entity != "" {
		msg = fmt.Sprintf("%s (%s %s)", msg, e.Entity, e.ID)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// CapacityExceededError reports which bound of the vehicle the run would break.
type CapacityExceededError struct {
	Dimension string
	Required  float64
	Capacity  float64
}

func NewCapacityExceededError(dimension string, required float64, capacity float64) *CapacityExceededError {
	return &CapacityExceededError{
		Dimension: dimension,
		Required:  required,
		Capacity:  capacity,
	}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: %s required %.3f, capacity %.3f",
		ErrCapacityExceeded, e.Dimension, e.Required, e.Capacity)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// InvalidStateError is a violated precondition on an aggregate's state.
type InvalidStateError struct {
	Entity string
	ID     string
	State  string
	Reason string
}

func NewInvalidStateError(entity string, id string, state string, reason string) *InvalidStateError {
	return &InvalidStateError{
		Entity: entity,
		ID:     id,
		State:  state,
		Reason: reason,
	}
}

func (e *InvalidStateError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s is %s: %s", ErrInvalidState, e.Entity, e.State, sanitize(e.Reason))
	}
	return fmt.Sprintf("%s: %s %s is %s: %s", ErrInvalidState, e.Entity, e.ID, e.State, sanitize(e.Reason))
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// ExternalServiceError wraps a failure of a collaborator such as the
// route optimizer, geocoder or SMS gateway.
type ExternalServiceError struct {
	Service string
	Cause   error
}

func NewExternalServiceError(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		Service: service,
		Cause:   cause,
	}
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrExternalService, e.Service, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrExternalService, e.Service)
}

func (e *ExternalServiceError) Unwrap() error {
	return ErrExternalService
}
