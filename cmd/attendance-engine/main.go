package main

import (
	"fmt"
	"os"

	"attendance-engine/cmd/attendance-engine/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
