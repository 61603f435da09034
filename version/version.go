package version

import "fmt"

// these values are set via ldflags during build
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var FullVersion = fmt.Sprintf("%s build on %s from sha1 %s", Version, Date, Commit)
