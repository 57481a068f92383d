// Package apperr is the recoverable error taxonomy of the fulfillment core.
// Every error here is returned to the caller and mapped to an HTTP status;
// none is fatal.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

// Validation rejects malformed input at the boundary.
type Validation struct {
	Msg string
}

func (e *Validation) Error() string { return e.Msg }

// InvalidStateTransition rejects an illegal kitchen/courier move and leaves
// the unit unchanged.
type InvalidStateTransition struct {
	From, To string
	Detail   string
}

func (e *InvalidStateTransition) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Detail)
	}
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// ScheduleLocked rejects a time-slot edit past the mutability window.
type ScheduleLocked struct {
	Reason string
}

func (e *ScheduleLocked) Error() string { return "schedule locked: " + e.Reason }

// StartDateConflict carries the corrected earliest start so the client can
// resubmit without another round trip.
type StartDateConflict struct {
	Requested time.Time
	Earliest  time.Time
}

func (e *StartDateConflict) Error() string {
	return fmt.Sprintf("plan cannot start %s, earliest allowed is %s",
		e.Requested.Format("2006-01-02"), e.Earliest.Format("2006-01-02"))
}

type InvalidDuration struct {
	Days, Min, Max int
}

func (e *InvalidDuration) Error() string {
	return fmt.Sprintf("plan duration %d days out of bounds [%d, %d]", e.Days, e.Min, e.Max)
}

type OutOfServiceRange struct {
	DistanceKm, MaxRangeKm float64
}

func (e *OutOfServiceRange) Error() string {
	return fmt.Sprintf("distance %.2f km exceeds service range %.2f km", e.DistanceKm, e.MaxRangeKm)
}

type InsufficientBalance struct {
	Requested, Balance int64
}

func (e *InsufficientBalance) Error() string {
	return fmt.Sprintf("withdrawal %d exceeds wallet balance %d", e.Requested, e.Balance)
}
