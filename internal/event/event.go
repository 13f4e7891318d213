// Package event reads the pull request webhook payload that the CI platform
// writes to disk (GITHUB_EVENT_PATH) and extracts the fields the pipeline
// needs: the title that gates the run, the number, and the head branch the
// changelog commit goes back to.
package event

import (
	"encoding/json"
	"fmt"
	"os"
)

// PullRequestEvent is the slice of the webhook payload the pipeline consumes.
type PullRequestEvent struct {
	Number  int
	Title   string
	HeadRef string
}

// payload mirrors the webhook JSON shape.
type payload struct {
	PullRequest *struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Head   struct {
			Ref string `json:"ref"`
		} `json:"head"`
	} `json:"pull_request"`
}

// Read decodes the event payload file. A payload without a pull_request
// object (e.g. the workflow was triggered by something else) is an error:
// the pipeline has nothing to gate on.
func Read(path string) (*PullRequestEvent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event payload: %w", err)
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding event payload: %w", err)
	}
	if p.PullRequest == nil {
		return nil, fmt.Errorf("event payload %s has no pull_request object", path)
	}

	return &PullRequestEvent{
		Number:  p.PullRequest.Number,
		Title:   p.PullRequest.Title,
		HeadRef: p.PullRequest.Head.Ref,
	}, nil
}
