package main

import (
	"os"

	"github.com/agrinet/allocd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
