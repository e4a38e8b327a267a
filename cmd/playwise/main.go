package main

import (
	"os"

	"github.com/playwise/playwise/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
