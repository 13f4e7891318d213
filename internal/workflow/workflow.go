// Package workflow wires the changelog pipeline together: gate on the pull
// request title, fetch the window of merged pull requests, render the new
// section, merge it with the existing file, and hand the result to a
// publisher. Every stage outcome that is not a failure (skip, no changes,
// duplicate) is a tagged Result, not an error.
package workflow

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/release-tools/changelog-ci/internal/changelog"
	"github.com/release-tools/changelog-ci/internal/config"
	cierrors "github.com/release-tools/changelog-ci/internal/errors"
	"github.com/release-tools/changelog-ci/internal/event"
	"github.com/release-tools/changelog-ci/internal/github"
)

// DataSource is the abstract repository backend the pipeline reads from and
// writes to. internal/github.Client is the production implementation.
type DataSource interface {
	LatestRelease(ctx context.Context, repo string) (*changelog.Release, error)
	MergedPullRequestsSince(ctx context.Context, repo string, since time.Time) ([]changelog.PullRequest, error)
	FileContent(ctx context.Context, repo, branch, path string) (*github.RepositoryFile, error)
	CommitFile(ctx context.Context, repo, branch, path string, content []byte, sha, message string, author github.Identity) error
}

// Publisher persists the merged changelog document. existing is nil when the
// changelog file did not exist before this run.
type Publisher interface {
	Publish(ctx context.Context, doc []byte, existing *github.RepositoryFile) error
}

// Outcome tags how a run ended.
type Outcome int

const (
	// OutcomeSkipped: the title did not match the release pattern; nothing was
	// fetched or written.
	OutcomeSkipped Outcome = iota
	// OutcomeNoChanges: no pull requests were merged in the window and
	// publishing empty sections is disabled.
	OutcomeNoChanges
	// OutcomeDuplicate: the changelog already starts with this heading and
	// force mode is off.
	OutcomeDuplicate
	// OutcomePublished: the changelog was merged and handed to the publisher.
	OutcomePublished
)

// String returns a short human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoChanges:
		return "no changes"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomePublished:
		return "published"
	default:
		return "unknown"
	}
}

// Result describes a completed run.
type Result struct {
	Outcome      Outcome
	Version      string
	Heading      string
	Section      string
	PullRequests int
	Document     []byte
}

// Pipeline holds the collaborators for one run. Config is immutable; Source
// and Publisher carry all I/O.
type Pipeline struct {
	Config    *config.Configuration
	Source    DataSource
	Publisher Publisher
}

// Run executes the pipeline for one pull request event.
//
// The title gate runs before any network access: a non-matching title
// short-circuits with OutcomeSkipped and zero data source calls. An explicit
// release version in the configuration bypasses both the gate and extraction,
// since the operator has already asserted this is a release.
func (p *Pipeline) Run(ctx context.Context, evt *event.PullRequestEvent) (*Result, error) {
	cfg := p.Config

	version := cfg.ReleaseVersion
	if version == "" {
		ex := changelog.ExtractVersion(evt.Title, cfg.TitlePattern, cfg.VersionPattern)
		if !ex.Matched {
			return &Result{Outcome: OutcomeSkipped}, nil
		}
		version = ex.Version
	}

	branch := cfg.Branch
	if branch == "" {
		branch = evt.HeadRef
	}

	// The release boundary and the current file content are independent
	// reads; fetch them concurrently.
	var (
		release  *changelog.Release
		existing *github.RepositoryFile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		release, err = p.Source.LatestRelease(gctx, cfg.Repository)
		return err
	})
	g.Go(func() error {
		var err error
		existing, err = p.Source.FileContent(gctx, cfg.Repository, branch, cfg.ChangelogFile)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, cierrors.WrapWithMessage(err, cierrors.Fetch, "querying repository data source",
			"Check network access and the GITHUB_TOKEN permissions")
	}

	var since time.Time
	if release != nil {
		since = release.PublishedAt
	}

	prs, err := p.Source.MergedPullRequestsSince(ctx, cfg.Repository, since)
	if err != nil {
		return nil, cierrors.WrapWithMessage(err, cierrors.Fetch, "listing merged pull requests",
			"Check network access and the GITHUB_TOKEN permissions")
	}

	section := changelog.BuildSection(cfg.HeaderPrefix, version, prs, cfg.Groups)
	text, err := changelog.RenderString(section)
	if err != nil {
		return nil, cierrors.WrapWithMessage(err, cierrors.Runtime, "rendering changelog section")
	}

	result := &Result{
		Version:      version,
		Heading:      section.Heading,
		Section:      text,
		PullRequests: section.Count(),
	}

	if section.IsEmpty() && !cfg.AllowEmpty {
		result.Outcome = OutcomeNoChanges
		return result, nil
	}

	var previous []byte
	if existing != nil {
		previous = existing.Content
	}
	if changelog.HasSection(previous, section.Heading) && !cfg.Force {
		result.Outcome = OutcomeDuplicate
		return result, nil
	}

	result.Document = changelog.Merge(text, previous)

	if err := p.Publisher.Publish(ctx, result.Document, existing); err != nil {
		return nil, cierrors.WrapWithMessage(err, cierrors.Publish, "publishing changelog",
			"The token needs contents:write permission on the repository")
	}

	result.Outcome = OutcomePublished
	return result, nil
}
