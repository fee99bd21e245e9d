package main

import (
	"os"

	"github.com/nissyi-gh/prio/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
