package model

// ListReason explains an empty result from a ticket-listing query.
// The distinction matters to the caller: an inviter with no recorded
// invitees is different from one whose invitees own no tracked ticket.
type ListReason string

const (
	ListReasonFound      ListReason = "FOUND"
	ListReasonNoInvitees ListReason = "NO_INVITEES"
	ListReasonNoTickets  ListReason = "NO_TICKETS"
)

// TicketListing is the result of joining an inviter's ledger entries
// against currently tracked ticket owners.
type TicketListing struct {
	Reason       ListReason
	ChannelNames []string
}
