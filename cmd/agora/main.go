package main

import (
	"fmt"
	"os"

	"github.com/voteagora/agora-tally/internal/cli"
	"github.com/voteagora/agora-tally/internal/cli/render"
	"github.com/voteagora/agora-tally/internal/config"
)

// Set via -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
