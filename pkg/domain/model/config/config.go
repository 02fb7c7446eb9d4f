package config

import "time"

// RoleConfig holds the role names that drive invite attribution and
// ticket tracking.
type RoleConfig struct {
	// Prospect is the designated role whose holders' messages count as
	// ticket activity. Matched case-insensitively.
	Prospect string

	// InviterPrefix is prepended to an inviter's display name to form
	// the inviter role name.
	InviterPrefix string

	// VanitySentinel is the role name suffix used when no inviter could
	// be determined for a join.
	VanitySentinel string
}

// TicketConfig holds the delays and message texts of the ticket
// lifecycle. The bump and close delays are independent offsets from
// channel creation time, not from each other.
type TicketConfig struct {
	IntroDelay time.Duration
	BumpDelay  time.Duration
	CloseDelay time.Duration

	// GraceDelay is the pause between the closing notice and the actual
	// channel deletion.
	GraceDelay time.Duration

	IntroMessage string

	// BumpMessage is the reminder text; the literal token {role} is
	// replaced with a mention of the prospect role.
	BumpMessage string

	CloseMessage string
}

// FAQEntry is one question/answer pair of the public FAQ embed
type FAQEntry struct {
	Name  string
	Value string
}

// FAQConfig holds the FAQ embed content
type FAQConfig struct {
	Title   string
	Color   int
	Entries []FAQEntry
}

// DefaultRoleConfig returns the stock role names
func DefaultRoleConfig() *RoleConfig {
	return &RoleConfig{
		Prospect:       "prospect",
		InviterPrefix:  "Invited by ",
		VanitySentinel: "vanity invite or unknown",
	}
}

// DefaultTicketConfig returns the stock ticket lifecycle settings
func DefaultTicketConfig() *TicketConfig {
	return &TicketConfig{
		IntroDelay: 6 * time.Second,
		BumpDelay:  6 * time.Hour,
		CloseDelay: 24 * time.Hour,
		GraceDelay: 3 * time.Second,
		IntroMessage: "**# How to apply:**\n\n" +
			":writing_hand: 1️⃣ ➜ Submit your application form (takes 60 seconds)\n\n" +
			":microphone: 2️⃣ ➜ send us a voice note explaining:\n" +
			"- Why you'd be a great fit,\n" +
			"- A little about your hobbies",
		BumpMessage: "Hey {role}!\n\n" +
			"This is just a quick bump reminding you to fill out the form and to send a voice note!\n\n" +
			"Failing to do so within a 24hour period will have this ticket deleted!",
		CloseMessage: "⏳ This ticket is now being closed due to inactivity.",
	}
}
