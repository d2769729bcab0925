package feed

import "strings"

// OwnerMatcher decides whether a post belongs to the feed's designated
// owner account.
//
// This is a heuristic, not an identity check: the handle is matched as a
// substring of the author URN and profile URL, so a crafted URL containing
// the handle could false-positive. Accepted for this system's trust model,
// since a match only affects pin placement.
type OwnerMatcher struct {
	urn    string
	handle string
}

func NewOwnerMatcher(ownerURN, ownerHandle string) OwnerMatcher {
	return OwnerMatcher{
		urn:    ownerURN,
		handle: ownerHandle,
	}
}

// Matches reports whether the author URN or profile URL points at the
// owner account. Both inputs empty means no match, never an error.
func (m OwnerMatcher) Matches(authorURN, profileURL string) bool {
	if authorURN == "" && profileURL == "" {
		return false
	}

	if authorURN != "" {
		if authorURN == m.urn ||
			strings.HasSuffix(authorURN, m.handle) ||
			strings.Contains(authorURN, m.handle) {
			return true
		}
	}

	if profileURL != "" &&
		strings.Contains(strings.ToLower(profileURL), strings.ToLower(m.handle)) {
		return true
	}

	return false
}
