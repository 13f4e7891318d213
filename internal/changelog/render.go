package changelog

import (
	"fmt"
	"io"
	"strings"
)

// BuildSection assembles a Section from the fetched pull requests.
//
// With no groups configured the body is flat and preserves the input order
// (newest-first as delivered by the fetcher). With groups configured, each
// group collects the pull requests whose labels intersect its label set, in
// config order; a pull request matching several groups appears once per
// matching group, and a pull request matching no group is dropped. Empty
// groups are omitted entirely.
func BuildSection(headerPrefix, version string, prs []PullRequest, groups []Group) Section {
	s := Section{Heading: strings.TrimSpace(headerPrefix + " " + version)}

	if len(groups) == 0 {
		s.Flat = prs
		return s
	}

	for _, g := range groups {
		var matched []PullRequest
		for _, pr := range prs {
			if pr.HasAnyLabel(g.Labels) {
				matched = append(matched, pr)
			}
		}
		if len(matched) > 0 {
			s.Groups = append(s.Groups, RenderedGroup{Title: g.Title, PullRequests: matched})
		}
	}
	return s
}

// Render writes the section as markdown: the heading, a setext underline of
// '=' characters matching the heading length, a blank line, then the body.
// A section with no pull requests renders as heading and underline only.
//
// Render is deterministic - the same section always produces identical bytes.
func Render(s Section, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", s.Heading, strings.Repeat("=", len(s.Heading))); err != nil {
		return err
	}
	if s.IsEmpty() {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if len(s.Groups) == 0 {
		return renderBullets(s.Flat, w)
	}

	for i, g := range s.Groups {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "#### %s\n\n", g.Title); err != nil {
			return err
		}
		if err := renderBullets(g.PullRequests, w); err != nil {
			return err
		}
	}
	return nil
}

// RenderString is a convenience wrapper that renders to a string.
func RenderString(s Section) (string, error) {
	var b strings.Builder
	if err := Render(s, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderBullets writes one line per pull request in the stable
// "* [#N](url): title" form that downstream tools can consume without parsing.
func renderBullets(prs []PullRequest, w io.Writer) error {
	for _, pr := range prs {
		if _, err := fmt.Fprintf(w, "* [#%d](%s): %s\n", pr.Number, pr.URL, pr.Title); err != nil {
			return err
		}
	}
	return nil
}
