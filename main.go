package main

import (
	"os"

	"github.com/abhisek/mcceval/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
