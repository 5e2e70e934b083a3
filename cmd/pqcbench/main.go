package main

import (
	"github.com/iotsec-lab/pqcbench/internal/cli"
)

// Build-time variables (set via -ldflags)
var (
	version   = ""        // Set via -ldflags "-X main.version=x.y.z"
	gitCommit = "unknown" // Set via -ldflags "-X main.gitCommit=..."
	buildDate = "unknown" // Set via -ldflags "-X main.buildDate=..."
)

func main() {
	cli.SetVersionInfo(version, gitCommit, buildDate)
	cli.Execute()
}
