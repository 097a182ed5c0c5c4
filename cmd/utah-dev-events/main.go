package main

import (
	"os"

	"github.com/utahdevs/utah-dev-events/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
