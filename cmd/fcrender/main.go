// Command fcrender renders forecast charts headlessly and inspects their
// scales and hover resolution from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/PresageLabs/PrediBench-sub001/src/config"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(&cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
