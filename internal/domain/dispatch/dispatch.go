// internal/domain/dispatch/dispatch.go
package dispatch

import (
	"time"

	"loadtracker/internal/domain/cycle"
)

// Status is the outcome of a trigger run.
type Status string

const (
	StatusSent   Status = "SENT"
	StatusFailed Status = "FAILED"
)

// Dispatch records one trigger run for a target date.
// Corresponds to the 'reminder_dispatches' table.
type Dispatch struct {
	ID           int64
	TargetDate   time.Time // Day the reminder announces (tomorrow at trigger time)
	ISOYear      int
	ISOWeek      int
	Phase        cycle.Phase
	Title        string
	Body         string
	Status       Status
	ProviderID   string // Notification ID returned by the push provider, if any
	ErrorMessage string
	CreatedAt    time.Time
}
