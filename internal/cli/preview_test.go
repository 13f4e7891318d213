package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cierrors "github.com/release-tools/changelog-ci/internal/errors"
)

// execute runs the root command with the given args and returns stdout.
// Not parallel-safe: cobra commands are package globals, so flag values are
// reset to their defaults afterwards.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GITHUB_EVENT_PATH", "GITHUB_REPOSITORY", "GITHUB_TOKEN",
		"INPUT_CONFIG_FILE", "INPUT_CHANGELOG_FILENAME",
	} {
		t.Setenv(name, "")
	}
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/releases/latest"):
			fmt.Fprint(w, `{"tag_name": "v1.1.0", "published_at": "2026-08-01T00:00:00Z"}`)
		case strings.Contains(r.URL.Path, "/contents/"):
			w.WriteHeader(http.StatusNotFound)
		case strings.HasSuffix(r.URL.Path, "/pulls"):
			fmt.Fprint(w, `[{
				"number": 10,
				"title": "Fix bug",
				"html_url": "https://github.com/o/r/pull/10",
				"updated_at": "2026-08-10T00:00:00Z",
				"merged_at": "2026-08-10T00:00:00Z",
				"labels": []
			}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPreviewCmd_PrintsRenderedChangelog(t *testing.T) {
	clearCIEnv(t)
	srv := fakeAPI(t)

	out, err := execute(t, "preview", "--plain",
		"--repository", "o/r",
		"--release-version", "v1.2.0",
		"--api-url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Version: v1.2.0\n================\n")
	assert.Contains(t, out, "* [#10](https://github.com/o/r/pull/10): Fix bug")
}

func TestPreviewCmd_RequiresVersionOrEvent(t *testing.T) {
	clearCIEnv(t)

	_, err := execute(t, "preview", "--repository", "o/r")
	require.Error(t, err)

	cliErr := cierrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, cierrors.Argument, cliErr.Category)
	assert.Contains(t, err.Error(), "nothing to preview")
}

func TestRunCmd_RequiresEventPayload(t *testing.T) {
	clearCIEnv(t)

	_, err := execute(t, "run", "--repository", "o/r")
	require.Error(t, err)

	cliErr := cierrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, cierrors.Argument, cliErr.Category)
	assert.Contains(t, err.Error(), "no event payload")
}

func TestRunCmd_RequiresRepository(t *testing.T) {
	clearCIEnv(t)

	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no repository specified")
}
