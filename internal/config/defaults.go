package config

// Default pattern dialect is Go's RE2. The title pattern is a gate: any title
// it matches is treated as a release pull request. The version pattern's
// whole match (or first capturing group, if the user supplies one) becomes
// the version string in the section heading.
const (
	// DefaultTitleRegex matches titles that start with "release", case-insensitive.
	DefaultTitleRegex = `(?i)^release`

	// DefaultVersionRegex matches SemVer-like tokens such as 1.2, v1.2.0.
	DefaultVersionRegex = `(?i)\bv?\d+\.\d+(?:\.\d+)?\b`
)

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		// header_prefix: Prepended to the extracted version to form the
		// section heading, e.g. "Version: v1.2.0".
		"header_prefix": "Version:",
		// pull_request_title_regex: Gate deciding whether a pull request is a
		// release pull request at all.
		"pull_request_title_regex": DefaultTitleRegex,
		// version_regex: Extracts the version string from a qualifying title.
		"version_regex": DefaultVersionRegex,
		// group_config: Ordered label buckets. Empty means flat rendering.
		"group_config": []interface{}{},
		// changelog_filename: Target file, relative to the repository root.
		"changelog_filename": "CHANGELOG.md",
		// commit_message: Used for the changelog commit.
		"commit_message": "(Changelog CI) Added Changelog",
		// committer identity for the changelog commit.
		"committer_name":  "changelog-ci-bot",
		"committer_email": "changelog-ci@users.noreply.github.com",
		// api_base_url: GitHub REST endpoint; override for GHES.
		"api_base_url": "https://api.github.com",
	}
}

// GetDefaultConfigTemplate returns a commented config template that documents
// every recognized option.
func GetDefaultConfigTemplate() string {
	return `# Changelog CI Configuration
# JSON and YAML are both accepted; unrecognized keys are ignored.

header_prefix: "Version:"                 # Section heading prefix
pull_request_title_regex: "(?i)^release"  # Release pull request gate (RE2)
version_regex: "(?i)\\bv?\\d+\\.\\d+(?:\\.\\d+)?\\b"  # Version extractor (RE2)

changelog_filename: CHANGELOG.md          # Target file at the repository root
commit_message: "(Changelog CI) Added Changelog"
committer_name: changelog-ci-bot
committer_email: changelog-ci@users.noreply.github.com

# Label buckets rendered as "#### Title" sub-sections, in this order.
# Empty list means one flat bullet list.
group_config: []
#  - title: Bug Fixes
#    labels: [bug, bugfix]
#  - title: New Features
#    labels: [feature, enhancement]
`
}
