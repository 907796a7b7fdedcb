package main

import (
	"os"

	"github.com/subtrack-dev/subtrack/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
