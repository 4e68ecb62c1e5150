package version

import (
	"fmt"
	"runtime"
)

// Version, Commit and BuildDate are set at build time, for example:
// go build -ldflags "-X github.com/oukeidos/sentiview/internal/version.Version=0.2.0"
var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the multi-line version text printed by the CLI.
func Info() string {
	return fmt.Sprintf("sentiview %s\ncommit: %s\nbuild: %s\ngo: %s %s/%s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short is the one-line form used in window titles and user agents.
func Short() string {
	return "sentiview/" + Version
}
