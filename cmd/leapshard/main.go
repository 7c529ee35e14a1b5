// Package main provides the leapshard command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/leapshard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
