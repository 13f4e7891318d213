package changelog

import "time"

// PullRequest is one merged pull request inside the changelog window.
type PullRequest struct {
	Number   int
	Title    string
	URL      string
	Labels   []string
	MergedAt time.Time
}

// HasAnyLabel reports whether the pull request carries at least one of the
// given label names.
func (p PullRequest) HasAnyLabel(labels []string) bool {
	for _, want := range labels {
		for _, have := range p.Labels {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Release identifies the previous published release that bounds the window.
type Release struct {
	TagName     string
	PublishedAt time.Time
}

// Group is a named bucket of pull requests sharing at least one configured
// label. Insertion order in the config defines render order.
type Group struct {
	Title  string   `koanf:"title" json:"title" validate:"required"`
	Labels []string `koanf:"labels" json:"labels" validate:"required,min=1,dive,required"`
}

// RenderedGroup pairs a group title with the pull requests that matched it.
type RenderedGroup struct {
	Title        string
	PullRequests []PullRequest
}

// Section is the rendered unit for one run: a setext heading plus either a
// flat bullet list or an ordered sequence of sub-headed groups.
type Section struct {
	Heading string
	// Flat holds the ungrouped body. Empty when Groups is set.
	Flat []PullRequest
	// Groups holds the grouped body in config order, empty groups omitted.
	Groups []RenderedGroup
}

// IsEmpty reports whether the section has no pull requests in its body.
func (s Section) IsEmpty() bool {
	if len(s.Flat) > 0 {
		return false
	}
	for _, g := range s.Groups {
		if len(g.PullRequests) > 0 {
			return false
		}
	}
	return true
}

// Count returns the total number of rendered bullets, counting a pull request
// once per group it matched.
func (s Section) Count() int {
	n := len(s.Flat)
	for _, g := range s.Groups {
		n += len(g.PullRequests)
	}
	return n
}
