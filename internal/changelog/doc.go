// Package changelog implements the changelog generation core: matching a
// release version out of a pull request title, rendering merged pull requests
// into a markdown section (flat or grouped by label), and merging that section
// with the existing changelog file content.
//
// Every function in this package is a pure transformation. Network access and
// file writes live in internal/github and internal/workflow so the core stays
// testable without I/O.
package changelog
