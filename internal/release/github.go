package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
)

const (
	// DefaultBaseURL is the GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "lsprov/1.0"
	// releasesPerPage bounds how many recent releases are inspected.
	releasesPerPage = 30
)

// GitHub implements Host for github.com and GitHub Enterprise.
type GitHub struct {
	client    *http.Client
	baseURL   string
	token     string
	userAgent string
	logger    logr.Logger
}

// GitHubOption configures a GitHub host.
type GitHubOption func(*GitHub)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) GitHubOption {
	return func(g *GitHub) {
		if baseURL != "" {
			g.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithToken authenticates requests with a bearer token.
func WithToken(token string) GitHubOption {
	return func(g *GitHub) {
		g.token = token
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger logr.Logger) GitHubOption {
	return func(g *GitHub) {
		g.logger = logger
	}
}

// NewGitHub creates a GitHub host with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewGitHub(client *http.Client, opts ...GitHubOption) *GitHub {
	if client == nil {
		client = http.DefaultClient
	}
	g := &GitHub{
		client:    client,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		logger:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type githubRelease struct {
	TagName    string        `json:"tag_name"`
	Draft      bool          `json:"draft"`
	Prerelease bool          `json:"prerelease"`
	Assets     []githubAsset `json:"assets"`
}

// LatestRelease lists the most recent releases of repository and returns the
// first that is not a draft, whose pre-release flag equals opts.PreRelease
// and, if opts.RequireAssets is set, that has at least one asset.
func (g *GitHub) LatestRelease(ctx context.Context, repository string, opts Options) (*Release, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d",
		g.baseURL, url.PathEscape(owner), url.PathEscape(repo), releasesPerPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", g.userAgent)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	g.logger.V(1).Info("listing releases", "repository", repository, "url", endpoint)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("repository %s not found", repository)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("release host returned status %d", resp.StatusCode)
	}

	var releases []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode releases response: %w", err)
	}

	for _, rel := range releases {
		if rel.Draft || rel.Prerelease != opts.PreRelease {
			continue
		}
		if opts.RequireAssets && len(rel.Assets) == 0 {
			continue
		}
		return convertRelease(rel), nil
	}

	return nil, fmt.Errorf("%s: %w", repository, ErrNoRelease)
}

func convertRelease(rel githubRelease) *Release {
	result := &Release{
		Version: rel.TagName,
		Assets:  make([]Asset, len(rel.Assets)),
	}
	for i, a := range rel.Assets {
		result.Assets[i] = Asset{
			Name:        a.Name,
			DownloadURL: a.BrowserDownloadURL,
		}
	}
	return result
}

// splitRepository parses an "owner/repo" slug.
func splitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be in format owner/repo, got %q", repository)
	}
	return parts[0], parts[1], nil
}
