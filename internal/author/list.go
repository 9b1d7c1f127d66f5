package author

import (
	"strings"

	"github.com/mlowery/cotag/internal/lookup"
)

// List is the ordered co-author sequence. Insertion order is significant
// (it mirrors the left-to-right token order in the input). Duplicate logins
// are permitted; suggestion filtering suppresses them upstream.
type List []Author

// Contains reports whether any entry has the given login,
// case-insensitively.
func (l List) Contains(login string) bool {
	for _, a := range l {
		if strings.EqualFold(a.Login(), login) {
			return true
		}
	}
	return false
}

// KnownFor returns the first resolved entry matching the login
// case-insensitively.
func (l List) KnownFor(login string) (Known, bool) {
	for _, a := range l {
		if k, ok := a.(Known); ok && strings.EqualFold(k.Username, login) {
			return k, true
		}
	}
	return Known{}, false
}

// Resolved returns the Known entries in list order. Pending and failed
// tokens are skipped.
func (l List) Resolved() []Known {
	var out []Known
	for _, a := range l {
		if k, ok := a.(Known); ok {
			out = append(out, k)
		}
	}
	return out
}

// Unresolved returns the logins of entries still searching or in error.
func (l List) Unresolved() []string {
	var out []string
	for _, a := range l {
		if u, ok := a.(Unknown); ok {
			out = append(out, u.Username)
		}
	}
	return out
}

// Resolution is the terminal outcome of one lookup attempt for a login.
// Found with an Author means the login resolved; not Found means the
// directory had no match.
type Resolution struct {
	Login  string
	Found  bool
	Author Known
}

// ResolutionFor converts a provider result into a Resolution. A nil
// identity is a miss.
func ResolutionFor(login string, id *lookup.Identity) Resolution {
	if id == nil {
		return Resolution{Login: login}
	}
	return Resolution{Login: login, Found: true, Author: FromIdentity(*id)}
}

// Apply rewrites every pending entry whose login matches the resolution,
// case-insensitively. A hit replaces the token with the resolved author; a
// miss moves it to the error state. Resolved entries are never touched, and
// a resolution for a login no longer present leaves the list unchanged.
// The input list is not mutated.
func Apply(l List, res Resolution) List {
	out := make(List, len(l))
	for i, a := range l {
		u, ok := a.(Unknown)
		if !ok || !strings.EqualFold(u.Username, res.Login) {
			out[i] = a
			continue
		}
		if res.Found {
			out[i] = res.Author
		} else {
			out[i] = Unknown{Username: u.Username, State: StateError}
		}
	}
	return out
}
