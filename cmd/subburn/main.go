package main

import (
	"os"

	"github.com/skanda-dev/subburn/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
