package main

import (
	"os"

	"github.com/release-tools/changelog-ci/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
