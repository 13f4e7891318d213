// Package cli defines the changelog-ci command tree.
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cierrors "github.com/release-tools/changelog-ci/internal/errors"
	"github.com/release-tools/changelog-ci/internal/git"
)

var rootCmd = &cobra.Command{
	Use:   "changelog-ci",
	Short: "Generate and commit a changelog from merged pull requests",
	Long: `changelog-ci turns a release pull request into a changelog entry.

Given a pull request event whose title matches the release pattern, it
collects every pull request merged since the previous release, renders them
into a markdown section (optionally grouped by label), prepends the section
to the changelog file, and commits the result back to the pull request
branch.

Designed to run inside CI on pull_request events, but the preview command
works anywhere.`,
	Example: `  # Inside CI (GITHUB_EVENT_PATH, GITHUB_REPOSITORY and GITHUB_TOKEN set):
  changelog-ci run

  # With a config file and explicit version:
  changelog-ci run --config .changelog-ci.json --release-version v1.2.0

  # Commit to the local checkout instead of using the API:
  changelog-ci run --local

  # See what would be written without touching anything:
  changelog-ci preview --repository owner/repo --release-version v1.2.0`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().String("changelog-file", "", "Changelog file path (default CHANGELOG.md)")
	rootCmd.PersistentFlags().String("repository", "", "Repository slug owner/name (default $GITHUB_REPOSITORY)")
	rootCmd.PersistentFlags().String("token", "", "API token (default $GITHUB_TOKEN)")
	rootCmd.PersistentFlags().String("api-url", "", "REST API base URL, for GitHub Enterprise")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("plain", false, "Disable colors and spinners")
}

// Execute runs the root command and prints structured errors.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	if cliErr := cierrors.AsCLIError(err); cliErr != nil {
		cierrors.PrintError(cliErr)
	} else {
		cierrors.PrintSimpleError(err, cierrors.Runtime)
	}
	return err
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	cliErr := cierrors.AsCLIError(err)
	if cliErr == nil {
		return ExitRuntimeError
	}
	switch cliErr.Category {
	case cierrors.Argument, cierrors.Configuration:
		return ExitConfigError
	case cierrors.Event:
		return ExitEventError
	case cierrors.Fetch:
		return ExitFetchError
	case cierrors.Publish:
		return ExitPublishError
	default:
		return ExitRuntimeError
	}
}

// applyGlobalFlags handles flags that take effect before any command logic.
func applyGlobalFlags(cmd *cobra.Command) {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		color.NoColor = true
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		git.SetDebugLogger(func(format string, args ...any) {
			cmd.PrintErrf("DEBUG: "+format+"\n", args...)
		})
	}
}

// envOr returns the flag value if non-empty, then the environment variable,
// then the fallback.
func envOr(flagValue, envName, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return fallback
}
