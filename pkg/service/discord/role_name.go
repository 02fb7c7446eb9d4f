package discord

import (
	"strings"
	"unicode/utf8"
)

// MaxRoleNameLength is the Discord limit for role names
const MaxRoleNameLength = 100

// InviterRoleName derives the name of the role that encodes an inviter.
// An empty inviter name means the join could not be attributed (vanity
// invite or unresolved code), in which case the sentinel is used as-is.
// The result is truncated to the platform limit.
func InviterRoleName(prefix, inviterName, sentinel string) string {
	name := prefix + sentinel
	if inviterName != "" {
		name = prefix + inviterName
	}

	if len(name) > MaxRoleNameLength {
		// Back up to a rune boundary so a multi-byte display name is
		// never split mid-rune.
		cut := MaxRoleNameLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimRight(name[:cut], " ")
	}

	return name
}

// FindRoleByName returns the first role with an exact, case-sensitive
// name match. Role resolution is idempotent by name: two joins
// attributed to the same inviter resolve to the same role.
func FindRoleByName(roles []Role, name string) (Role, bool) {
	for _, role := range roles {
		if role.Name == name {
			return role, true
		}
	}
	return Role{}, false
}

// FindRoleByNameFold returns the first role whose name matches
// case-insensitively. Used for the designated prospect role, which
// guild admins tend to capitalize inconsistently.
func FindRoleByNameFold(roles []Role, name string) (Role, bool) {
	for _, role := range roles {
		if strings.EqualFold(role.Name, name) {
			return role, true
		}
	}
	return Role{}, false
}
