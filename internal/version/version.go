package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/nkootstra/kvwire/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("kvwire %s (%s, %s, %s)", Version, Commit, Date, runtime.Version())
}
