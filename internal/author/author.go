// Package author implements the co-author token list: an ordered list of
// author entries, some resolved to a directory identity, others pending or
// failed asynchronous resolution. The list is mutated only through pure
// whole-list transforms, so a resolution that completes after the user has
// edited the list applies cleanly to whatever the list looks like then.
package author

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/mlowery/cotag/internal/lookup"
)

// ResolveState describes where a pending token is in its lookup lifecycle.
type ResolveState int

const (
	// StateSearching means a lookup for this login is in flight.
	StateSearching ResolveState = iota

	// StateError means the lookup completed without a match. Terminal;
	// the user clears it by removing the token.
	StateError
)

// String returns the state name for display and logging.
func (s ResolveState) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Author is one entry in the co-author list. Exactly two implementations
// exist: Known (resolved to a directory identity) and Unknown (pending or
// failed resolution). The interface is sealed so type switches over the
// two cases are exhaustive.
type Author interface {
	// Login returns the username the user typed or picked.
	Login() string

	sealed()
}

// Known is an author fully resolved to a directory identity.
type Known struct {
	// Username is the directory login.
	Username string

	// Name is the display name (falls back to the login).
	Name string

	// Email is the public email, or a stealth placeholder when the
	// identity has none.
	Email string
}

// Login returns the resolved username.
func (a Known) Login() string { return a.Username }

func (Known) sealed() {}

// Unknown is an author token that has not resolved to an identity.
type Unknown struct {
	// Username is the login as typed.
	Username string

	// State is searching while a lookup is in flight, error after a
	// lookup found no match.
	State ResolveState
}

// Login returns the username as typed.
func (a Unknown) Login() string { return a.Username }

func (Unknown) sealed() {}

// FromIdentity builds a Known author from a directory identity. The display
// name falls back to the login, and an identity without a public email gets
// a stealth placeholder address.
func FromIdentity(id lookup.Identity) Known {
	name := id.Name
	if name == "" {
		name = id.Login
	}
	email := id.Email
	if email == "" {
		email = StealthEmail(id.Login, id.Endpoint)
	}
	return Known{Username: id.Login, Name: name, Email: email}
}

// StealthEmail returns a deterministic placeholder address for a login that
// has no public email. The address is stable and unique per (login,
// endpoint): the local part carries a UUIDv5 prefix of the endpoint+login
// pair so it cannot be mistaken for a guessable real mailbox.
func StealthEmail(login, endpoint string) string {
	key := uuid.NewSHA1(uuid.NameSpaceURL, []byte(endpoint+"/"+login))
	hex := strings.ReplaceAll(key.String(), "-", "")[:12]
	return fmt.Sprintf("%s+%s@%s", hex, strings.ToLower(login), noreplyHost(endpoint))
}

// noreplyHost derives the stealth email host from a provider endpoint,
// e.g. "https://api.github.com" becomes "users.noreply.github.com".
func noreplyHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "users.noreply.localhost"
	}
	host := strings.TrimPrefix(u.Host, "api.")
	return "users.noreply." + host
}
