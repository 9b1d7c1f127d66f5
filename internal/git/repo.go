// Package git shells out to the git CLI for the small set of plumbing the
// tagger needs: repository discovery, commit messages, amending, and the
// author history that feeds the local identity provider.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Signature is a name/email pair as it appears in commit authorship and
// Co-Authored-By trailers.
type Signature struct {
	Name  string
	Email string
}

// String renders the signature in "Name <email>" form.
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

// TopLevel returns the root of the work tree containing dir.
func TopLevel(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// MessageOf returns the full commit message of ref.
func MessageOf(dir, ref string) (string, error) {
	cmd := exec.Command("git", "log", "-1", "--format=%B", ref)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("reading commit message of %s: %w", ref, err)
	}
	return string(out), nil
}

// HeadMessage returns the full commit message of HEAD.
func HeadMessage(dir string) (string, error) {
	return MessageOf(dir, "HEAD")
}

// AmendHead rewrites the HEAD commit with a new message, leaving the tree
// untouched.
func AmendHead(dir, message string) error {
	cmd := exec.Command("git", "commit", "--amend", "--only", "-F", "-")
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdin = strings.NewReader(message)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("amending HEAD: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// RecentAuthors returns the distinct commit authors of the repository's
// recent history, most recent first. Merge commits are skipped, and
// authors are deduplicated by email, case-insensitively.
func RecentAuthors(dir string, limit int) ([]Signature, error) {
	if limit <= 0 {
		limit = 200
	}
	cmd := exec.Command("git", "log", "--no-merges", "-n", fmt.Sprintf("%d", limit), "--format=%aN\x1f%aE")
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("reading author history: %w", err)
	}
	return parseAuthorLines(string(out)), nil
}

// parseAuthorLines turns "name\x1femail" log output into deduplicated
// signatures, preserving first-seen (most recent) order.
func parseAuthorLines(out string) []Signature {
	seen := make(map[string]bool)
	var authors []Signature
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, email, ok := strings.Cut(line, "\x1f")
		if !ok || email == "" {
			continue
		}
		key := strings.ToLower(email)
		if seen[key] {
			continue
		}
		seen[key] = true
		authors = append(authors, Signature{Name: name, Email: email})
	}
	return authors
}
