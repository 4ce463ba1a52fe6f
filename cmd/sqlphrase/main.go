// Package main is the entry point for the sqlphrase CLI.
package main

import (
	"fmt"
	"os"

	"github.com/satishbabariya/sqlphrase/cmd/sqlphrase/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
