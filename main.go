package main

import (
	"os"

	"github.com/snowdash/snowdash/core/cli"
	"github.com/snowdash/snowdash/core/cli/cmd"
)

// Version can be set at build time using -ldflags
var Version = "dev"

func init() {
	cmd.SetVersion(Version)
}

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
