package git

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func TestCommitChangelogIn(t *testing.T) {
	t.Parallel()

	t.Run("writes, stages and commits the file", func(t *testing.T) {
		t.Parallel()

		dir, repo := initRepo(t)
		content := []byte("Version: v1.2.0\n================\n")

		hashStr, err := CommitChangelogIn(dir, "CHANGELOG.md", content,
			"changelog-ci-bot", "changelog-ci@users.noreply.github.com",
			"(Changelog CI) Added Changelog")
		require.NoError(t, err)
		require.NotEmpty(t, hashStr)

		// The file landed in the working tree.
		onDisk, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
		require.NoError(t, err)
		assert.Equal(t, content, onDisk)

		// The commit carries the message and identity.
		commit, err := repo.CommitObject(plumbing.NewHash(hashStr))
		require.NoError(t, err)
		assert.Equal(t, "(Changelog CI) Added Changelog", commit.Message)
		assert.Equal(t, "changelog-ci-bot", commit.Author.Name)
		assert.Equal(t, "changelog-ci@users.noreply.github.com", commit.Author.Email)

		head, err := repo.Head()
		require.NoError(t, err)
		assert.Equal(t, hashStr, head.Hash().String())
	})

	t.Run("overwrites on a second run", func(t *testing.T) {
		t.Parallel()

		dir, repo := initRepo(t)

		first, err := CommitChangelogIn(dir, "CHANGELOG.md", []byte("Version: v1.1.0\n"),
			"bot", "bot@example.com", "first")
		require.NoError(t, err)

		second, err := CommitChangelogIn(dir, "CHANGELOG.md", []byte("Version: v1.2.0\n\n\nVersion: v1.1.0\n"),
			"bot", "bot@example.com", "second")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		commit, err := repo.CommitObject(plumbing.NewHash(second))
		require.NoError(t, err)
		parent, err := commit.Parent(0)
		require.NoError(t, err)
		assert.Equal(t, first, parent.Hash.String())
	})

	t.Run("creates parent directories for nested paths", func(t *testing.T) {
		t.Parallel()

		dir, _ := initRepo(t)

		_, err := CommitChangelogIn(dir, filepath.Join("docs", "CHANGELOG.md"), []byte("x"),
			"bot", "bot@example.com", "msg")
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "docs", "CHANGELOG.md"))
		assert.NoError(t, err)
	})

	t.Run("fails outside a repository", func(t *testing.T) {
		t.Parallel()

		_, err := CommitChangelogIn(t.TempDir(), "CHANGELOG.md", []byte("x"),
			"bot", "bot@example.com", "msg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening repository")
	})
}

func TestSetDebugLogger(t *testing.T) {
	var lines []string
	SetDebugLogger(func(format string, args ...any) {
		lines = append(lines, format)
	})
	defer SetDebugLogger(nil)

	dir, _ := initRepo(t)
	_, err := CommitChangelogIn(dir, "CHANGELOG.md", []byte("x"), "bot", "b@e", "msg")
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}
