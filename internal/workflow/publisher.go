package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/release-tools/changelog-ci/internal/config"
	"github.com/release-tools/changelog-ci/internal/git"
	"github.com/release-tools/changelog-ci/internal/github"
)

// RemotePublisher commits the changelog through the contents API to the pull
// request head branch. This is the default publisher in CI, where the
// checkout may be shallow or detached.
type RemotePublisher struct {
	Source DataSource
	Config *config.Configuration
	// Branch is the resolved target branch (config override or event head ref).
	Branch string
}

// Publish writes the document as a single commit. The blob SHA of the
// existing file rides along so the contents API performs an update instead
// of rejecting the write.
func (r *RemotePublisher) Publish(ctx context.Context, doc []byte, existing *github.RepositoryFile) error {
	sha := ""
	if existing != nil {
		sha = existing.SHA
	}
	author := github.Identity{Name: r.Config.CommitterName, Email: r.Config.CommitterEmail}
	return r.Source.CommitFile(ctx, r.Config.Repository, r.Branch, r.Config.ChangelogFile, doc, sha, r.Config.CommitMessage, author)
}

// LocalPublisher writes the changelog into the local checkout and commits it
// with go-git. Useful when the workflow already has a full clone and push
// rights, or outside CI entirely.
type LocalPublisher struct {
	Config *config.Configuration
}

// Publish writes the file and creates the commit on the current branch.
func (l *LocalPublisher) Publish(ctx context.Context, doc []byte, _ *github.RepositoryFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := git.CommitChangelog(l.Config.ChangelogFile, doc, l.Config.CommitterName, l.Config.CommitterEmail, l.Config.CommitMessage)
	return err
}

// PreviewPublisher prints the merged document instead of committing it.
// Used by the preview subcommand.
type PreviewPublisher struct {
	Out io.Writer
}

// Publish writes the document to Out.
func (p *PreviewPublisher) Publish(_ context.Context, doc []byte, _ *github.RepositoryFile) error {
	_, err := p.Out.Write(doc)
	if err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}
	return nil
}
