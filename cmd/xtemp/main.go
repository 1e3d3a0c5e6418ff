// Command xtemp batches newline-delimited records from standard input into
// reusable temporary files and runs a command once per batch.
package main

import (
	"fmt"
	"os"

	"github.com/aromatt/xtemp/internal/cli"
	"github.com/aromatt/xtemp/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}

func main() {
	if err := run(); err != nil {
		// Every failure maps to exit status 1. The child's own exit code or
		// signal appears in the message, never in xtemp's status.
		fmt.Fprintf(os.Stderr, "xtemp: %v\n", err)
		os.Exit(1)
	}
}
