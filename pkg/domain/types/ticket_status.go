package types

import "fmt"

// TicketStatus represents the lifecycle state of a tracked ticket channel
type TicketStatus string

const (
	// TicketStatusTracked is the initial state: the channel is tracked and
	// no qualifying activity has been seen yet.
	TicketStatusTracked TicketStatus = "TRACKED"
	// TicketStatusActive means a prospect posted in the channel. Terminal
	// for scheduling purposes: bump and close no longer fire.
	TicketStatusActive TicketStatus = "ACTIVE"
	// TicketStatusBumped means the bump reminder fired while the ticket was
	// still inactive. The ticket can still become active afterwards.
	TicketStatusBumped TicketStatus = "BUMPED"
)

// AllTicketStatuses returns all valid ticket statuses
func AllTicketStatuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusTracked,
		TicketStatusActive,
		TicketStatusBumped,
	}
}

// IsValid checks if the ticket status is valid
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusTracked,
		TicketStatusActive,
		TicketStatusBumped:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ticket status
func (s TicketStatus) String() string {
	return string(s)
}

// ParseTicketStatus parses a string into a TicketStatus
func ParseTicketStatus(s string) (TicketStatus, error) {
	status := TicketStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return status, nil
}
