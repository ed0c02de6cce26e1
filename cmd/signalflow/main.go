package main

import (
	"os"

	"github.com/rustyeddy/signalflow/cmd/signalflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
