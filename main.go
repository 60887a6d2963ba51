package main

import (
	"os"

	"bundlex/cmd"
	"bundlex/pkg/bundle"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(bundle.ExitCode(err))
	}
}
