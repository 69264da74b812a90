package main

import (
	"os"

	"github.com/mimir-dm/mimir-dm-go/internal/cli"
)

func main() {
	if err := cli.NewLoadTestCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
