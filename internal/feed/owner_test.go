package feed

import "testing"

func TestOwnerMatcher(t *testing.T) {
	m := NewOwnerMatcher("urn:li:person:michaelsimoneau", "michaelsimoneau")

	cases := []struct {
		name       string
		authorURN  string
		profileURL string
		want       bool
	}{
		{"exact urn", "urn:li:person:michaelsimoneau", "", true},
		{"urn ending in handle", "urn:li:member:michaelsimoneau", "", true},
		{"urn containing handle", "urn:li:person:michaelsimoneau-123", "", true},
		{"profile url with handle", "", "https://linkedin.com/in/michaelsimoneau", true},
		{"profile url case insensitive", "", "https://linkedin.com/in/MichaelSimoneau", true},
		{"unrelated urn", "urn:li:person:someoneelse", "", false},
		{"unrelated profile url", "", "https://linkedin.com/in/janedoe", false},
		{"both empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Matches(tc.authorURN, tc.profileURL); got != tc.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tc.authorURN, tc.profileURL, got, tc.want)
			}
		})
	}
}

func TestOwnerMatcher_URNMissesButProfileHits(t *testing.T) {
	m := NewOwnerMatcher("urn:li:person:michaelsimoneau", "michaelsimoneau")

	if !m.Matches("urn:li:person:other", "https://linkedin.com/in/michaelsimoneau") {
		t.Error("profile url should rescue a post whose urn does not match")
	}
}
