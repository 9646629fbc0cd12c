package main

import (
	"os"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
