package main

import (
	"os"

	"github.com/samuelfneumann/pursuit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
