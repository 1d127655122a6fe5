package main

import (
	"os"

	"ac-advisor/cmd/acctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
