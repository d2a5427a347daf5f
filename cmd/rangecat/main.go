package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Pick up RANGECAT_* overrides from a local .env during development.
	_ = godotenv.Load()

	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
