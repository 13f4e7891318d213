package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/release-tools/changelog-ci/internal/config"
	cierrors "github.com/release-tools/changelog-ci/internal/errors"
	"github.com/release-tools/changelog-ci/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented starter config file",
	Long: `Write a commented configuration template documenting every option.

Defaults to .changelog-ci.yml in the current directory. Refuses to
overwrite an existing file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ".changelog-ci.yml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil {
			return cierrors.NewArgumentError(
				fmt.Sprintf("%s already exists", path),
				"Pass a different path, or remove the existing file first")
		}

		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return cierrors.WrapWithMessage(err, cierrors.Runtime, "writing config template")
		}

		output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s", path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
