package cli

import (
	"github.com/spf13/cobra"

	cierrors "github.com/release-tools/changelog-ci/internal/errors"
	"github.com/release-tools/changelog-ci/internal/event"
	"github.com/release-tools/changelog-ci/internal/github"
	"github.com/release-tools/changelog-ci/internal/workflow"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the changelog that run would commit, without writing anything",
	Long: `Print the merged changelog document to stdout instead of committing it.

With an event payload the normal title gate applies. Without one, pass
--release-version to render a section for that version directly.

Examples:
  changelog-ci preview
  changelog-ci preview --repository owner/repo --release-version v1.2.0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPreview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().String("event-path", "", "Path to the pull request event payload (default $GITHUB_EVENT_PATH)")
	previewCmd.Flags().String("release-version", "", "Explicit version, overriding title extraction")
	previewCmd.Flags().String("branch", "", "Branch to read the existing changelog from")
}

func runPreview(cmd *cobra.Command) error {
	applyGlobalFlags(cmd)

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	// Preview always renders, even for empty windows or duplicate headings.
	cfg.AllowEmpty = true
	cfg.Force = true

	eventPath, _ := cmd.Flags().GetString("event-path")
	eventPath = envOr(eventPath, "GITHUB_EVENT_PATH", "")

	evt := &event.PullRequestEvent{}
	if eventPath != "" {
		evt, err = event.Read(eventPath)
		if err != nil {
			return cierrors.WrapWithMessage(err, cierrors.Event, "reading pull request event")
		}
	} else if cfg.ReleaseVersion == "" {
		return cierrors.NewArgumentError("nothing to preview",
			"Pass --release-version, or --event-path pointing at a pull_request payload")
	}

	client := github.NewClient(cfg.APIBaseURL, cfg.Token)
	pipeline := &workflow.Pipeline{
		Config:    cfg,
		Source:    client,
		Publisher: &workflow.PreviewPublisher{Out: cmd.OutOrStdout()},
	}

	result, err := pipeline.Run(cmd.Context(), evt)
	if err != nil {
		return err
	}
	if result.Outcome == workflow.OutcomeSkipped {
		cmd.PrintErrf("Title %q is not a release pull request title; nothing to preview.\n", evt.Title)
	}
	return nil
}
