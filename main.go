// Package main is the entry point for the fastpath packet decision engine.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/fastpath/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
