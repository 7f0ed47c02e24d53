// Package main is the entry point for the rentwise CLI.
//
// rentwise lists rental properties through a four step wizard. The wizard
// runs interactively in the terminal or, through `rentwise serve`, as an
// HTTP API that web and mobile clients drive one step at a time.
//
// Commands: create, serve, properties, login, roi, hash-password, version.
//
// For detailed usage information, run:
//
//	rentwise --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/rentwise/cmd/rentwise/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
