package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cierrors "github.com/release-tools/changelog-ci/internal/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Version:", cfg.HeaderPrefix)
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogFile)
	assert.Equal(t, "(Changelog CI) Added Changelog", cfg.CommitMessage)
	assert.Equal(t, "changelog-ci-bot", cfg.CommitterName)
	assert.Equal(t, "https://api.github.com", cfg.APIBaseURL)
	assert.Empty(t, cfg.Groups)

	assert.True(t, cfg.TitlePattern.MatchString("Release v1.0.0"))
	assert.True(t, cfg.TitlePattern.MatchString("release something"))
	assert.False(t, cfg.TitlePattern.MatchString("Update docs"))

	assert.Equal(t, "v1.2.0", cfg.VersionPattern.FindString("Release v1.2.0"))
	assert.Equal(t, "2.4", cfg.VersionPattern.FindString("release 2.4"))
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"header_prefix": "Release Notes:",
		"pull_request_title_regex": "^\\[release\\]",
		"version_regex": "v(\\d+\\.\\d+\\.\\d+)",
		"group_config": [
			{"title": "Bug Fixes", "labels": ["bug", "bugfix"]},
			{"title": "New Features", "labels": ["feature"]}
		],
		"changelog_filename": "HISTORY.md"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Release Notes:", cfg.HeaderPrefix)
	assert.Equal(t, "HISTORY.md", cfg.ChangelogFile)
	assert.True(t, cfg.TitlePattern.MatchString("[release] v1.0.0"))
	assert.False(t, cfg.TitlePattern.MatchString("Release v1.0.0"))

	require.Len(t, cfg.Groups, 2)
	assert.Equal(t, "Bug Fixes", cfg.Groups[0].Title)
	assert.Equal(t, []string{"bug", "bugfix"}, cfg.Groups[0].Labels)
	assert.Equal(t, "New Features", cfg.Groups[1].Title)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, "config.yml", `
header_prefix: "Changes in"
group_config:
  - title: Bug Fixes
    labels: [bug]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Changes in", cfg.HeaderPrefix)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "Bug Fixes", cfg.Groups[0].Title)
	// Options not in the file keep their defaults.
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogFile)
}

func TestLoad_UnrecognizedKeysIgnored(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"header_prefix": "Version:",
		"some_future_option": {"nested": true}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Version:", cfg.HeaderPrefix)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CHANGELOG_CI_HEADER_PREFIX", "Release:")
	t.Setenv("CHANGELOG_CI_CHANGELOG_FILENAME", "NEWS.md")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Release:", cfg.HeaderPrefix)
	assert.Equal(t, "NEWS.md", cfg.ChangelogFile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.json", `{"header_prefix": "From File:"}`)
	t.Setenv("CHANGELOG_CI_HEADER_PREFIX", "From Env:")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env:", cfg.HeaderPrefix)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		file    string // empty means missing file path below
		content string
		wantMsg string
	}{
		"invalid title regex": {
			file:    "config.json",
			content: `{"pull_request_title_regex": "([unclosed"}`,
			wantMsg: "pull_request_title_regex",
		},
		"invalid version regex": {
			file:    "config.json",
			content: `{"version_regex": "*bad"}`,
			wantMsg: "version_regex",
		},
		"group missing title": {
			file:    "config.json",
			content: `{"group_config": [{"labels": ["bug"]}]}`,
			wantMsg: "title",
		},
		"group missing labels": {
			file:    "config.json",
			content: `{"group_config": [{"title": "Bug Fixes"}]}`,
			wantMsg: "labels",
		},
		"group with empty labels": {
			file:    "config.json",
			content: `{"group_config": [{"title": "Bug Fixes", "labels": []}]}`,
			wantMsg: "labels",
		},
		"malformed json": {
			file:    "config.json",
			content: `{"header_prefix": `,
			wantMsg: "loading config file",
		},
		"malformed yaml": {
			file:    "config.yml",
			content: "header_prefix: [unclosed\ngroup_config:",
			wantMsg: "invalid config file",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)

			cfg, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantMsg)

			cliErr := cierrors.AsCLIError(err)
			require.NotNil(t, cliErr, "config failures must be Configuration errors")
			assert.Equal(t, cierrors.Configuration, cliErr.Category)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	cliErr := cierrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, cierrors.Configuration, cliErr.Category)
}

func TestValidateYAMLSyntax(t *testing.T) {
	t.Run("valid yaml", func(t *testing.T) {
		path := writeConfig(t, "c.yml", "header_prefix: Version:\n")
		assert.NoError(t, ValidateYAMLSyntax(path))
	})

	t.Run("empty file is valid", func(t *testing.T) {
		path := writeConfig(t, "c.yml", "   \n")
		assert.NoError(t, ValidateYAMLSyntax(path))
	})

	t.Run("syntax error carries position", func(t *testing.T) {
		path := writeConfig(t, "c.yml", "a:\n  - b\n c\n")
		err := ValidateYAMLSyntax(path)
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, path, vErr.FilePath)
	})
}
