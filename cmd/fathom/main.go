// Package main provides the Fathom ML Framework CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Fathom ML Framework %s\n", version)
		return
	}

	fmt.Println("Fathom ML Framework - Reverse-Mode Autodiff for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See examples/moons for a complete training example.")
}
