package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/release-tools/changelog-ci/internal/config"
	cierrors "github.com/release-tools/changelog-ci/internal/errors"
	"github.com/release-tools/changelog-ci/internal/event"
	"github.com/release-tools/changelog-ci/internal/github"
	"github.com/release-tools/changelog-ci/internal/output"
	"github.com/release-tools/changelog-ci/internal/progress"
	"github.com/release-tools/changelog-ci/internal/workflow"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the changelog and commit it to the pull request branch",
	Long: `Generate the changelog for a release pull request and commit it.

The pull request title is read from the event payload (--event-path or
$GITHUB_EVENT_PATH). A title that does not match the release pattern ends
the run successfully without doing anything.

By default the commit goes through the contents API to the pull request
head branch. With --local the changelog is written into the local checkout
and committed with go-git instead.

Examples:
  changelog-ci run
  changelog-ci run --config .changelog-ci.json
  changelog-ci run --release-version v2.0.0 --force
  changelog-ci run --local --committer-name "Release Bot"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runChangelog(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("event-path", "", "Path to the pull request event payload (default $GITHUB_EVENT_PATH)")
	runCmd.Flags().String("release-version", "", "Explicit version, overriding title extraction")
	runCmd.Flags().String("branch", "", "Target branch (default: the pull request head branch)")
	runCmd.Flags().String("commit-message", "", "Commit message for the changelog commit")
	runCmd.Flags().String("committer-name", "", "Committer name")
	runCmd.Flags().String("committer-email", "", "Committer email")
	runCmd.Flags().Bool("local", false, "Commit to the local checkout instead of using the contents API")
	runCmd.Flags().Bool("allow-empty", false, "Publish a heading-only section when no pull requests are found")
	runCmd.Flags().Bool("force", false, "Publish even if the changelog already starts with this heading")
}

func runChangelog(cmd *cobra.Command) error {
	applyGlobalFlags(cmd)

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	eventPath, _ := cmd.Flags().GetString("event-path")
	eventPath = envOr(eventPath, "GITHUB_EVENT_PATH", "")
	if eventPath == "" {
		return cierrors.NewArgumentError("no event payload available",
			"Pass --event-path or run inside a CI job where GITHUB_EVENT_PATH is set")
	}
	evt, err := event.Read(eventPath)
	if err != nil {
		return cierrors.WrapWithMessage(err, cierrors.Event, "reading pull request event",
			"The run command needs a pull_request event payload")
	}

	branch := cfg.Branch
	if branch == "" {
		branch = evt.HeadRef
	}

	client := github.NewClient(cfg.APIBaseURL, cfg.Token)

	var publisher workflow.Publisher
	if cfg.Local {
		publisher = &workflow.LocalPublisher{Config: cfg}
	} else {
		publisher = &workflow.RemotePublisher{Source: client, Config: cfg, Branch: branch}
	}

	pipeline := &workflow.Pipeline{Config: cfg, Source: client, Publisher: publisher}

	caps := progress.DetectTerminalCapabilities()
	spin := progress.NewFetchSpinner(caps)
	spin.Start(fmt.Sprintf("Collecting merged pull requests for %s", cfg.Repository))
	result, err := pipeline.Run(cmd.Context(), evt)
	spin.Stop()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch result.Outcome {
	case workflow.OutcomeSkipped:
		output.PrintSkip(out, fmt.Sprintf("Title %q is not a release pull request title; nothing to do.", evt.Title))
	case workflow.OutcomeNoChanges:
		output.PrintSkip(out, "No pull requests merged since the last release; not publishing. Use --allow-empty to publish a heading-only section.")
	case workflow.OutcomeDuplicate:
		output.PrintSkip(out, fmt.Sprintf("%s already starts with %q; not publishing again. Use --force to override.", cfg.ChangelogFile, result.Heading))
	case workflow.OutcomePublished:
		target := branch
		if cfg.Local {
			target = "local checkout"
		}
		output.PrintSuccess(out, fmt.Sprintf("Committed %s (%d pull requests) to %s", cfg.ChangelogFile, result.PullRequests, target))
	}
	return nil
}

// loadRunConfig loads the layered configuration and applies flag and
// CI-environment overrides. Flags win over everything; GitHub Action inputs
// (INPUT_*) and the standard GITHUB_* variables fill the gaps.
func loadRunConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	configPath = envOr(configPath, "INPUT_CONFIG_FILE", "")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	changelogFile, _ := cmd.Flags().GetString("changelog-file")
	if v := envOr(changelogFile, "INPUT_CHANGELOG_FILENAME", ""); v != "" {
		cfg.ChangelogFile = v
	}

	repository, _ := cmd.Flags().GetString("repository")
	cfg.Repository = envOr(repository, "GITHUB_REPOSITORY", "")
	if cfg.Repository == "" {
		return nil, cierrors.NewArgumentError("no repository specified",
			"Pass --repository owner/name or set GITHUB_REPOSITORY")
	}

	token, _ := cmd.Flags().GetString("token")
	cfg.Token = envOr(token, "GITHUB_TOKEN", "")

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if v, _ := cmd.Flags().GetString("release-version"); v != "" {
		cfg.ReleaseVersion = v
	}
	if v, _ := cmd.Flags().GetString("branch"); v != "" {
		cfg.Branch = v
	}
	if v, _ := cmd.Flags().GetString("commit-message"); v != "" {
		cfg.CommitMessage = v
	}
	if v, _ := cmd.Flags().GetString("committer-name"); v != "" {
		cfg.CommitterName = v
	}
	if v, _ := cmd.Flags().GetString("committer-email"); v != "" {
		cfg.CommitterEmail = v
	}
	if cmd.Flags().Changed("local") {
		cfg.Local, _ = cmd.Flags().GetBool("local")
	}
	if cmd.Flags().Changed("allow-empty") {
		cfg.AllowEmpty, _ = cmd.Flags().GetBool("allow-empty")
	}
	if cmd.Flags().Changed("force") {
		cfg.Force, _ = cmd.Flags().GetBool("force")
	}

	return cfg, nil
}
