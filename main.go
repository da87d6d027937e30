package main

import (
	"os"

	"github.com/resilinet/bridgeopt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
