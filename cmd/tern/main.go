package main

import (
	"os"

	"github.com/metaphox/tern/cmd/tern/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
