package changelog

import "strings"

// Merge prepends the rendered section to the previous changelog content.
// The previous content is treated as an opaque blob: no byte of it is ever
// rewritten or dropped, so manual edits survive. When previous content exists
// it is separated from the new section by one blank line.
//
// Merge is deliberately not idempotent: merging the same section twice
// doubles it. Duplicate prevention is the caller's job via HasSection.
func Merge(section string, previous []byte) []byte {
	out := []byte(section)
	if len(previous) > 0 {
		out = append(out, '\n', '\n')
		out = append(out, previous...)
	}
	return out
}

// HasSection reports whether the previous changelog content already starts
// with the given heading. It compares the first non-blank line, which is
// where Merge always places the newest heading, so a repeated CI run against
// the same release pull request can be detected and skipped.
func HasSection(previous []byte, heading string) bool {
	for _, line := range strings.Split(string(previous), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return line == heading
	}
	return false
}
