package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const (
	defaultBaseURL     = "https://api.github.com"
	defaultAccept      = "application/vnd.github+json"
	defaultTimeout     = 30 * time.Second
	defaultSearchLimit = 10

	// EnvGitHubToken is the default environment variable consulted for
	// an API token. Unauthenticated requests work but are rate-limited
	// aggressively by GitHub.
	EnvGitHubToken = "GITHUB_TOKEN"
)

// GitHub is a Provider backed by the GitHub REST v3 users API.
type GitHub struct {
	token   string
	baseURL string
	client  *http.Client
}

// GitHubOption configures the GitHub provider.
type GitHubOption func(*GitHub)

// WithBaseURL sets a custom API base URL (GitHub Enterprise, or tests).
func WithBaseURL(u string) GitHubOption {
	return func(g *GitHub) {
		g.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) GitHubOption {
	return func(g *GitHub) {
		g.client = client
	}
}

// WithToken sets the API token explicitly instead of reading the
// environment.
func WithToken(token string) GitHubOption {
	return func(g *GitHub) {
		g.token = token
	}
}

// NewGitHub creates a GitHub provider. The token is read from
// GITHUB_TOKEN unless WithToken overrides it; an empty token is allowed.
func NewGitHub(opts ...GitHubOption) *GitHub {
	g := &GitHub{
		token:   os.Getenv(EnvGitHubToken),
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the provider identifier.
func (g *GitHub) Name() string {
	return "github"
}

// Endpoint returns the API base URL this provider talks to.
func (g *GitHub) Endpoint() string {
	return g.baseURL
}

// searchResponse is the body of GET /search/users.
type searchResponse struct {
	TotalCount int `json:"total_count"`
	Items      []struct {
		Login string `json:"login"`
		Type  string `json:"type"`
	} `json:"items"`
}

// userResponse is the body of GET /users/{login}.
type userResponse struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  string `json:"type"`
}

// Search returns candidate identities whose login matches the query.
// Candidates carry the login only; ExactMatch hydrates name and email when
// a candidate is committed.
func (g *GitHub) Search(ctx context.Context, query string, limit int) ([]Identity, error) {
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := url.Values{}
	q.Set("q", query+" in:login")
	q.Set("per_page", fmt.Sprintf("%d", limit))

	var body searchResponse
	if err := g.get(ctx, "/search/users?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	identities := make([]Identity, 0, len(body.Items))
	for _, item := range body.Items {
		identities = append(identities, Identity{
			Login:    item.Login,
			Endpoint: g.baseURL,
		})
	}
	return identities, nil
}

// ExactMatch resolves a login via GET /users/{login}. A 404 is a clean
// miss, not an error.
func (g *GitHub) ExactMatch(ctx context.Context, login string) (*Identity, error) {
	if login == "" {
		return nil, nil
	}

	var body userResponse
	err := g.get(ctx, "/users/"+url.PathEscape(login), &body)
	if err != nil {
		if errIsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up %s: %w", login, err)
	}

	return &Identity{
		Login:    body.Login,
		Name:     body.Name,
		Email:    body.Email,
		Endpoint: g.baseURL,
	}, nil
}

// notFoundError marks a 404 response so ExactMatch can translate it to a
// clean miss.
type notFoundError struct {
	path string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.path)
}

// errIsNotFound reports whether err wraps a 404.
func errIsNotFound(err error) bool {
	var nf *notFoundError
	return errors.As(err, &nf)
}

// get performs an authenticated GET and decodes the JSON response into out.
func (g *GitHub) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", defaultAccept)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &notFoundError{path: path}
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
