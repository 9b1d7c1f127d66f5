package git

import (
	"strings"
)

// coAuthorKey is the trailer key recognized by GitHub and friends for
// commit co-attribution.
const coAuthorKey = "Co-Authored-By"

// CoAuthorTrailer renders one co-author trailer line.
func CoAuthorTrailer(s Signature) string {
	return coAuthorKey + ": " + s.String()
}

// ParseCoAuthors extracts Co-Authored-By trailers from a commit message.
// The key match is case-insensitive; malformed lines are skipped.
func ParseCoAuthors(message string) []Signature {
	var out []Signature
	for _, line := range strings.Split(message, "\n") {
		value, ok := trailerValue(line)
		if !ok {
			continue
		}
		sig, ok := parseSignature(value)
		if !ok {
			continue
		}
		out = append(out, sig)
	}
	return out
}

// trailerValue returns the value of a Co-Authored-By trailer line.
func trailerValue(line string) (string, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok || !strings.EqualFold(strings.TrimSpace(key), coAuthorKey) {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// parseSignature parses "Name <email>"; the angle brackets are required.
func parseSignature(value string) (Signature, bool) {
	open := strings.LastIndex(value, "<")
	end := strings.LastIndex(value, ">")
	if open < 0 || end < open {
		return Signature{}, false
	}
	email := strings.TrimSpace(value[open+1 : end])
	name := strings.TrimSpace(value[:open])
	if email == "" {
		return Signature{}, false
	}
	if name == "" {
		name = email
	}
	return Signature{Name: name, Email: email}, true
}

// AppendCoAuthors returns the message with co-author trailers for the
// given signatures appended. Signatures whose email already appears in an
// existing trailer are skipped, so re-tagging a commit is idempotent. A
// blank line separates the trailer block from the body when the message
// does not already end in trailers.
func AppendCoAuthors(message string, sigs []Signature) string {
	existing := make(map[string]bool)
	for _, s := range ParseCoAuthors(message) {
		existing[strings.ToLower(s.Email)] = true
	}

	var add []string
	for _, s := range sigs {
		key := strings.ToLower(s.Email)
		if existing[key] {
			continue
		}
		existing[key] = true
		add = append(add, CoAuthorTrailer(s))
	}
	if len(add) == 0 {
		return message
	}

	body := strings.TrimRight(message, "\n")
	if strings.TrimSpace(body) == "" {
		body = ""
	}
	sep := "\n\n"
	switch {
	case body == "":
		sep = ""
	case endsInTrailer(body):
		sep = "\n"
	}
	return body + sep + strings.Join(add, "\n") + "\n"
}

// endsInTrailer reports whether the last line of the message is already a
// co-author trailer, in which case new trailers join the same block.
func endsInTrailer(body string) bool {
	idx := strings.LastIndex(body, "\n")
	last := body[idx+1:]
	_, ok := trailerValue(last)
	return ok
}
