// Command ninjatrace converts ninja build logs into Chrome trace files.
package main

import (
	"os"

	"github.com/roach88/ninjatrace/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
