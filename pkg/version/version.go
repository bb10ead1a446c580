// Package version reports which srcbundle build produced an artifact.
package version

import (
	"fmt"
	"runtime"
)

// AppName names the binary in version output and in the logger's initial fields.
const AppName = "srcbundle"

// Build metadata, stamped by the release build:
//
//	go build -ldflags "-X srcbundle/pkg/version.Version=$(git describe --tags) \
//	  -X srcbundle/pkg/version.Commit=$(git rev-parse --short HEAD) \
//	  -X srcbundle/pkg/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // GOOS/GOARCH
}

// Get collects the stamped metadata and the toolchain the binary was built with.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders i on one line, for example
// "srcbundle 1.2.3 (commit abcdefg, built 2024-04-27T15:04:05Z, go1.23.1 linux/amd64)".
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s)",
		AppName, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
