package main

import (
	"os"

	"github.com/mid-diary/mid/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
