package lookup

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/mlowery/cotag/internal/git"
)

// historyLimit caps how far back the local provider reads commit authors.
const historyLimit = 500

// Local is a Provider mining identities from the commit history of a
// repository. Useful offline and for repositories whose contributors are
// not on any directory service. Local identities always carry an email, so
// resolution never needs a stealth placeholder.
type Local struct {
	dir string
}

// NewLocal creates a local provider for the repository containing dir.
func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// Name returns the provider identifier.
func (l *Local) Name() string {
	return "local"
}

// Search returns recent commit authors whose login or name contains the
// query, case-insensitively, most recent first.
func (l *Local) Search(ctx context.Context, query string, limit int) ([]Identity, error) {
	ids, err := l.identities(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := strings.ToLower(query)
	var out []Identity
	for _, id := range ids {
		if q != "" &&
			!strings.Contains(strings.ToLower(id.Login), q) &&
			!strings.Contains(strings.ToLower(id.Name), q) {
			continue
		}
		out = append(out, id)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ExactMatch resolves a login against the commit history. A login no
// author derives to is a clean miss.
func (l *Local) ExactMatch(ctx context.Context, login string) (*Identity, error) {
	ids, err := l.identities(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if strings.EqualFold(id.Login, login) {
			found := id
			return &found, nil
		}
	}
	return nil, nil
}

// identities reads the author history and derives a login for each
// distinct author. First-seen order (most recent commit first) is kept so
// search results favor active contributors.
func (l *Local) identities(ctx context.Context) ([]Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	authors, err := git.RecentAuthors(l.dir, historyLimit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	ids := make([]Identity, 0, len(authors))
	for _, a := range authors {
		login := DeriveLogin(a.Name, a.Email)
		if seen[login] {
			continue
		}
		seen[login] = true
		ids = append(ids, Identity{
			Login: login,
			Name:  a.Name,
			Email: a.Email,
		})
	}
	return ids, nil
}

// DeriveLogin generates a login from a name and email. The email local
// part wins when present; otherwise the name is lowercased, stripped of
// diacritics, and hyphenated.
func DeriveLogin(name, email string) string {
	if email != "" {
		if idx := strings.Index(email, "@"); idx > 0 {
			return strings.ToLower(email[:idx])
		}
	}

	lower := strings.ToLower(slugFold(name))
	lower = strings.ReplaceAll(lower, " ", "-")
	var cleaned strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			cleaned.WriteRune(r)
		}
	}
	result := strings.Trim(cleaned.String(), "-")
	if result == "" {
		return "user"
	}
	return result
}

// slugFold decomposes the string and drops combining marks, so accented
// names keep their base letters ("Ève" -> "Eve") instead of losing them.
func slugFold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
