package main

import (
	"os"

	"github.com/nkootstra/kvwire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
