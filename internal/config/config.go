// Package config provides configuration management for changelog-ci using
// koanf. Configuration is loaded with priority: environment variables
// (CHANGELOG_CI_*) > config file (JSON or YAML) > defaults. Pattern options
// are compiled once at load time so every later stage works with ready
// *regexp.Regexp values, and the resulting Configuration is treated as
// immutable for the rest of the run.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/release-tools/changelog-ci/internal/changelog"
	cierrors "github.com/release-tools/changelog-ci/internal/errors"
)

// Configuration is the validated, compiled configuration for one run.
// It is constructed once by Load and passed explicitly through every stage.
type Configuration struct {
	// HeaderPrefix is joined with the extracted version to form the section heading.
	HeaderPrefix string
	// TitlePattern gates which pull request titles count as release titles.
	TitlePattern *regexp.Regexp
	// VersionPattern extracts the version string from a qualifying title.
	VersionPattern *regexp.Regexp
	// Groups defines the grouped rendering mode; empty means flat.
	Groups []changelog.Group

	// ChangelogFile is the target path relative to the repository root.
	ChangelogFile string
	// Repository is the "owner/name" slug of the repository being processed.
	Repository string
	// Branch is the pull request head branch the commit goes to.
	Branch string
	// ReleaseVersion, when set, overrides version extraction entirely.
	ReleaseVersion string

	CommitMessage  string
	CommitterName  string
	CommitterEmail string

	// Token authorizes data source requests; required for private repositories.
	Token string
	// APIBaseURL is the REST endpoint, overridable for GitHub Enterprise.
	APIBaseURL string

	// Local commits to the local checkout with go-git instead of the contents API.
	Local bool
	// AllowEmpty publishes a heading-only section when no pull requests are found.
	AllowEmpty bool
	// Force publishes even when the changelog already starts with this heading.
	Force bool
}

// schema is the raw file/env shape before patterns are compiled.
type schema struct {
	HeaderPrefix          string            `koanf:"header_prefix"`
	PullRequestTitleRegex string            `koanf:"pull_request_title_regex" validate:"required"`
	VersionRegex          string            `koanf:"version_regex" validate:"required"`
	GroupConfig           []changelog.Group `koanf:"group_config" validate:"dive"`
	ChangelogFilename     string            `koanf:"changelog_filename" validate:"required"`
	CommitMessage         string            `koanf:"commit_message"`
	CommitterName         string            `koanf:"committer_name"`
	CommitterEmail        string            `koanf:"committer_email"`
	APIBaseURL            string            `koanf:"api_base_url"`
}

// Load builds the Configuration from defaults, an optional config file, and
// CHANGELOG_CI_* environment overrides. An empty path means no config file,
// which is not an error. Any malformed file, schema violation, or pattern
// that fails to compile aborts the run with a Configuration error.
func Load(path string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if path != "" {
		if err := loadConfigFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("CHANGELOG_CI_", ".", envTransform), nil); err != nil {
		return nil, cierrors.WrapWithMessage(err, cierrors.Configuration, "loading environment config")
	}

	return finalize(k, path)
}

// loadConfigFile loads a JSON or YAML config file, chosen by extension.
// YAML files get a syntax pre-check so errors carry line/column positions.
func loadConfigFile(k *koanf.Koanf, path string) error {
	parser := parserFor(path)
	if _, ok := parser.(*kyaml.YAML); ok {
		if err := ValidateYAMLSyntax(path); err != nil {
			return cierrors.WrapWithMessage(err, cierrors.Configuration,
				"invalid config file",
				"Check the YAML syntax at the reported position")
		}
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return cierrors.WrapWithMessage(err, cierrors.Configuration,
			fmt.Sprintf("loading config file %s", path),
			"Verify the file exists and contains valid JSON or YAML")
	}
	return nil
}

// parserFor picks the koanf parser by file extension. The original tool only
// accepted JSON, so JSON stays the default for unknown extensions.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return kyaml.Parser()
	default:
		return kjson.Parser()
	}
}

// finalize unmarshals the merged keys, validates the schema, and compiles
// the pattern options.
func finalize(k *koanf.Koanf, path string) (*Configuration, error) {
	var s schema
	if err := k.Unmarshal("", &s); err != nil {
		return nil, cierrors.WrapWithMessage(err, cierrors.Configuration, "unmarshaling config")
	}

	if err := ValidateSchema(&s, path); err != nil {
		return nil, cierrors.Wrap(err, cierrors.Configuration,
			"Every group_config entry needs a title and a non-empty labels list")
	}

	titlePattern, err := compilePattern("pull_request_title_regex", s.PullRequestTitleRegex)
	if err != nil {
		return nil, err
	}
	versionPattern, err := compilePattern("version_regex", s.VersionRegex)
	if err != nil {
		return nil, err
	}

	return &Configuration{
		HeaderPrefix:   s.HeaderPrefix,
		TitlePattern:   titlePattern,
		VersionPattern: versionPattern,
		Groups:         s.GroupConfig,
		ChangelogFile:  s.ChangelogFilename,
		CommitMessage:  s.CommitMessage,
		CommitterName:  s.CommitterName,
		CommitterEmail: s.CommitterEmail,
		APIBaseURL:     strings.TrimRight(s.APIBaseURL, "/"),
	}, nil
}

// compilePattern compiles a user-supplied pattern, surfacing the offending
// option name and pattern text on failure.
func compilePattern(option, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, cierrors.NewConfigError(
			fmt.Sprintf("invalid %s pattern %q: %v", option, pattern, err),
			"Patterns use Go's RE2 syntax (https://golang.org/s/re2syntax)")
	}
	return re, nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_CI_HEADER_PREFIX -> header_prefix
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "CHANGELOG_CI_"))
}
