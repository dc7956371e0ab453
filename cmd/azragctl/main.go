package main

import (
	"os"

	"github.com/liliang-cn/azrag/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
