// sesuite CLI - Command-line client for the SE Suite workflow web services
package main

import (
	"github.com/sesuite-go/sesuite/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	cli.Execute()
}
