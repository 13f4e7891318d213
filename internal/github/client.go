// Package github implements the repository data source over the GitHub REST
// API: latest release lookup, paginated merged pull request listing, file
// content reads, and the commit-file write. It speaks plain net/http so the
// rest of the system can consume it through the narrow workflow.DataSource
// interface and be tested against httptest servers.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/release-tools/changelog-ci/internal/changelog"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// perPage is the page size used when listing closed pull requests.
const perPage = 100

// maxRateLimitWait bounds how long a single rate-limit retry may sleep.
const maxRateLimitWait = 2 * time.Minute

// Identity names the author of the changelog commit.
type Identity struct {
	Name  string
	Email string
}

// RepositoryFile is the content and blob SHA of a file fetched from a branch.
// The SHA is required by the contents API when updating an existing file.
type RepositoryFile struct {
	Content []byte
	SHA     string
}

// Client is a minimal GitHub REST client scoped to what the changelog
// pipeline needs. A zero token is valid for public repositories.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	// sleep is swapped out in tests to avoid real rate-limit waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Client against the given base URL. An empty baseURL
// selects the public GitHub endpoint.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LatestRelease returns the most recent published release, or nil when the
// repository has never been released (the API answers 404 in that case).
func (c *Client) LatestRelease(ctx context.Context, repo string) (*changelog.Release, error) {
	var body releaseResponse
	status, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/releases/latest", repo), nil, &body)
	if err != nil {
		return nil, fmt.Errorf("fetching latest release: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	return &changelog.Release{TagName: body.TagName, PublishedAt: body.PublishedAt}, nil
}

// MergedPullRequestsSince lists pull requests merged strictly after the given
// boundary, newest-first. A zero boundary means all time. Closed-but-unmerged
// pull requests are excluded.
//
// Pages are requested in descending update order and every record is filtered
// against the boundary, so correctness never depends on pagination order; a
// page whose newest update already predates the boundary just ends the walk
// early.
func (c *Client) MergedPullRequestsSince(ctx context.Context, repo string, since time.Time) ([]changelog.PullRequest, error) {
	var out []changelog.PullRequest

	for page := 1; ; page++ {
		query := url.Values{
			"state":     {"closed"},
			"sort":      {"updated"},
			"direction": {"desc"},
			"per_page":  {strconv.Itoa(perPage)},
			"page":      {strconv.Itoa(page)},
		}

		var body []pullResponse
		status, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/pulls", repo), query, &body)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests (page %d): %w", page, err)
		}
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("repository %s not found", repo)
		}

		pastBoundary := len(body) > 0
		for _, pr := range body {
			if !since.IsZero() && pr.UpdatedAt.After(since) {
				pastBoundary = false
			}
			if pr.MergedAt == nil {
				continue
			}
			if !since.IsZero() && !pr.MergedAt.After(since) {
				continue
			}
			out = append(out, changelog.PullRequest{
				Number:   pr.Number,
				Title:    pr.Title,
				URL:      pr.HTMLURL,
				Labels:   pr.labelNames(),
				MergedAt: *pr.MergedAt,
			})
		}

		if len(body) < perPage {
			break
		}
		if !since.IsZero() && pastBoundary {
			// Every record on this page was last touched before the boundary;
			// later pages are older still.
			break
		}
	}

	// Newest-first regardless of fetch order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].MergedAt.After(out[j].MergedAt)
	})
	return out, nil
}

// FileContent fetches a file from a branch, or nil when it does not exist.
func (c *Client) FileContent(ctx context.Context, repo, branch, path string) (*RepositoryFile, error) {
	query := url.Values{}
	if branch != "" {
		query.Set("ref", branch)
	}

	var body contentResponse
	status, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/contents/%s", repo, path), query, &body)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	content, err := base64.StdEncoding.DecodeString(body.trimmedContent())
	if err != nil {
		return nil, fmt.Errorf("decoding %s content: %w", path, err)
	}
	return &RepositoryFile{Content: content, SHA: body.SHA}, nil
}

// CommitFile creates or updates a file on a branch through the contents API.
// sha must be the existing blob SHA when updating, and empty when creating.
func (c *Client) CommitFile(ctx context.Context, repo, branch, path string, content []byte, sha, message string, author Identity) error {
	payload := commitRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  branch,
		SHA:     sha,
	}
	payload.Committer.Name = author.Name
	payload.Committer.Email = author.Email

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding commit request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/contents/%s", repo, path), nil, raw)
	if err != nil {
		return fmt.Errorf("committing %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("committing %s: %s", path, apiError(resp))
	}
	return nil
}

// getJSON performs a GET and decodes the response body. It returns the status
// code so callers can treat 404 as a domain answer rather than a failure; any
// other non-2xx status is an error.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("%s", apiError(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}

// do issues one request, retrying exactly once after a rate-limit response.
// A second rate-limit answer, or a wait longer than maxRateLimitWait,
// escalates to the caller as an error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	resp, err := c.doOnce(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	wait, limited := rateLimitWait(resp)
	if !limited {
		return resp, nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if wait > maxRateLimitWait {
		return nil, fmt.Errorf("rate limited, reset in %s exceeds retry budget", wait)
	}
	if err := c.sleep(ctx, wait); err != nil {
		return nil, err
	}

	resp, err = c.doOnce(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if _, limited := rateLimitWait(resp); limited {
		defer resp.Body.Close()
		return nil, fmt.Errorf("rate limit still exhausted after retry: %s", apiError(resp))
	}
	return resp, nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	return resp, nil
}

// rateLimitWait reports whether the response is a rate-limit rejection and
// how long the API asks us to wait before retrying.
func rateLimitWait(resp *http.Response) (time.Duration, bool) {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil {
			return time.Duration(secs) * time.Second, true
		}
	}
	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		if s := resp.Header.Get("X-RateLimit-Reset"); s != "" {
			if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
				wait := time.Until(time.Unix(epoch, 0))
				if wait < time.Second {
					wait = time.Second
				}
				return wait, true
			}
		}
		return time.Second, true
	}
	return 0, false
}

// apiError summarizes a non-2xx response, preferring the API's own message.
func apiError(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return fmt.Sprintf("%s (status %d)", body.Message, resp.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
}
