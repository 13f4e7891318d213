package cli

// Exit codes for the changelog-ci CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful execution, including runs that
	// correctly skipped (non-release title, no new pull requests).
	ExitSuccess = 0

	// ExitConfigError indicates a malformed config file or invalid pattern.
	ExitConfigError = 1

	// ExitEventError indicates a missing or malformed event payload.
	ExitEventError = 2

	// ExitFetchError indicates the repository data source could not be queried.
	ExitFetchError = 3

	// ExitPublishError indicates the changelog commit failed.
	ExitPublishError = 4

	// ExitRuntimeError indicates any other failure.
	ExitRuntimeError = 5
)
