package niri

import "strconv"

// ParseReference turns user input into a workspace reference. Anything that
// parses as an unsigned 64-bit decimal is an id, everything else is a name,
// so "-1" and values overflowing uint64 are names. A workspace whose name is
// all digits therefore cannot be reached through ParseReference; build a
// NameReference directly for that case.
func ParseReference(s string) WorkspaceReferenceArg {
	if id, err := strconv.ParseUint(s, 10, 64); err == nil {
		return IDReference(id)
	}
	return NameReference(s)
}
