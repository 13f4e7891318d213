// Package git provides the local publisher: it writes the merged changelog
// into the working tree and commits it with the configured bot identity.
// It uses the go-git library so no git CLI is required in the CI image.
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the git repository containing the given path (or the current
// working directory when path is empty), traversing up to find the root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// CurrentBranch returns the name of the current git branch.
// Returns empty string in detached HEAD state.
func CurrentBranch() (string, error) {
	repo, err := openRepo("")
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// CommitChangelog writes content to relPath (relative to the repository
// root), stages it, and commits with the given identity. Returns the commit
// hash. The working tree is resolved from the current directory.
func CommitChangelog(relPath string, content []byte, name, email, message string) (string, error) {
	return commitChangelogAt("", relPath, content, name, email, message)
}

// CommitChangelogIn is CommitChangelog rooted at an explicit repository path.
func CommitChangelogIn(repoPath, relPath string, content []byte, name, email, message string) (string, error) {
	return commitChangelogAt(repoPath, relPath, content, name, email, message)
}

func commitChangelogAt(repoPath, relPath string, content []byte, name, email, message string) (string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	target := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", relPath, err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", relPath, err)
	}

	if _, err := worktree.Add(filepath.ToSlash(relPath)); err != nil {
		return "", fmt.Errorf("staging %s: %w", relPath, err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  name,
			Email: email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing %s: %w", relPath, err)
	}

	logDebug("[git] CommitChangelog: committed %s as %s", relPath, hash)
	return hash.String(), nil
}
