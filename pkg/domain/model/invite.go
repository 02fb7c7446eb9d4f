package model

import "github.com/commguard/cerberus/pkg/domain/types"

// InviteSnapshot maps invite codes to their cumulative use counts as of
// the last successful fetch. Snapshots are replaced wholesale, never
// merged, so drift cannot accumulate between fetches.
type InviteSnapshot map[types.InviteCode]int

// Clone returns a copy of the snapshot
func (s InviteSnapshot) Clone() InviteSnapshot {
	copied := make(InviteSnapshot, len(s))
	for code, uses := range s {
		copied[code] = uses
	}
	return copied
}

// Attribution is the outcome of resolving a join event to an invite.
// InviterID and InviterName are empty when no inviter could be
// determined (vanity invite, unresolved code, or audit-log miss).
type Attribution struct {
	Code        types.InviteCode
	InviterID   types.UserID
	InviterName string
}

// Resolved reports whether an inviter was determined
func (a Attribution) Resolved() bool {
	return a.InviterName != ""
}
