package main

import (
	"os"

	"github.com/monorkin/air-quality-pipeline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
