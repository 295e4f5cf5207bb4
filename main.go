// Package main is the entry point for netproc.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/netproc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
