package main

import (
	"os"

	"linear-reconciler/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
