// Command nozzle derives nozzle flow quantities from partial inputs.
package main

import (
	"fmt"
	"os"

	"github.com/BCalow/engine-initial-variables/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
