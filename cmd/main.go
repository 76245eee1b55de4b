package main

import (
	"os"

	"github.com/budd9442/edify.lk-sub000/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
