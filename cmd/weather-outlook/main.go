package main

import (
	"os"

	"github.com/i474232898/weather-outlook/internal/cli"
)

func main() {
	if err := cli.New(cli.Load).Execute(); err != nil {
		os.Exit(1)
	}
}
