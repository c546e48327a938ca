// Package main is the entry point for the fhirbench CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fhirbench/fhirbench/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
