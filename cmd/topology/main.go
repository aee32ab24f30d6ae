package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ekisa-team/topology/internal/topology"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode lets scripts branch on the failure kind.
func exitCode(err error) int {
	switch {
	case errors.Is(err, topology.ErrNotFound):
		return 2
	case errors.Is(err, topology.ErrParse):
		return 3
	case errors.Is(err, topology.ErrWrite):
		return 4
	case errors.Is(err, topology.ErrDuplicate):
		return 5
	default:
		return 1
	}
}
