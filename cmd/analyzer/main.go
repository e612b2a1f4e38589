package main

import (
	"os"

	"github.com/aristath/portfolio-analyzer/cmd/analyzer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
