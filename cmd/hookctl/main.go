// Command hookctl inspects and exercises hook configurations.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Version is set via ldflags during build.
var Version = "dev"

func main() {
	// Best effort; a missing .env is normal.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
