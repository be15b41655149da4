package main

import (
	"os"

	"github.com/sudhish-rithvik/transport-optimizer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
