package github

import (
	"strings"
	"time"
)

// releaseResponse mirrors the fields we care about from the releases API.
type releaseResponse struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
}

// pullResponse mirrors one element of the pulls listing. MergedAt is a
// pointer because closed-but-unmerged pull requests report null.
type pullResponse struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	HTMLURL   string     `json:"html_url"`
	UpdatedAt time.Time  `json:"updated_at"`
	MergedAt  *time.Time `json:"merged_at"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

func (p pullResponse) labelNames() []string {
	if len(p.Labels) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.Labels))
	for _, l := range p.Labels {
		names = append(names, l.Name)
	}
	return names
}

// contentResponse mirrors the contents API answer for a single file.
// Content arrives base64 encoded with embedded newlines.
type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

func (c contentResponse) trimmedContent() string {
	return strings.ReplaceAll(strings.TrimSpace(c.Content), "\n", "")
}

// commitRequest is the contents API PUT payload for creating or updating a file.
type commitRequest struct {
	Message   string `json:"message"`
	Content   string `json:"content"`
	Branch    string `json:"branch,omitempty"`
	SHA       string `json:"sha,omitempty"`
	Committer struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"committer"`
}
