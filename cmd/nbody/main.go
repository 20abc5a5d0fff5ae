// Command nbody runs a parallel-octree N-body simulation.
package main

import (
	"fmt"
	"os"

	"github.com/orrery-sim/octree-nbody/cmd/nbody/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
