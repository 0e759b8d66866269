package main

import (
	"os"

	"github.com/example/shopadmin/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
