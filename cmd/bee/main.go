package main

import (
	"fmt"
	"os"

	"bee/cmd/bee/commands"
	"bee/internal/domain"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bee: %s: %v\n", domain.KindOf(err), err)
		os.Exit(1)
	}
}
