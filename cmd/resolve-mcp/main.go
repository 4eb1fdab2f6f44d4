package main

import (
	"fmt"
	"os"

	"github.com/reelcraft/resolve-mcp/internal/cli"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("resolve-mcp version %s (built on %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
