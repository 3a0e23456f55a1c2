// Package version reports which pdo-go build is running. Release builds
// stamp the variables below with -ldflags; other builds fall back to the
// VCS settings the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Stamped by release builds:
//
//	-ldflags "-X github.com/satishbabariya/pdo-go/cli/internal/version.Version=1.2.0"
var (
	Version = "0.1.0"
	Commit  = ""
	Date    = ""
)

// Build describes the running binary.
type Build struct {
	Version   string
	Commit    string
	Date      string
	Dirty     bool
	GoVersion string
	Platform  string
}

// Current returns the build of the running binary.
func Current() Build {
	info, _ := debug.ReadBuildInfo()
	return resolve(info)
}

// resolve fills unstamped fields from embedded build info, which may be nil.
func resolve(info *debug.BuildInfo) Build {
	b := Build{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info == nil {
		return b
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "" {
				b.Date = s.Value
			}
		case "vcs.modified":
			b.Dirty = s.Value == "true"
		}
	}
	return b
}

// Semver parses the version. Builds stamped with a non-semver string fail.
func (b Build) Semver() (*goversion.Version, error) {
	return goversion.NewVersion(strings.TrimPrefix(b.Version, "v"))
}

// ShortCommit is the first twelve characters of the commit, or "none".
func (b Build) ShortCommit() string {
	switch {
	case b.Commit == "":
		return "none"
	case len(b.Commit) > 12:
		return b.Commit[:12]
	}
	return b.Commit
}

func (b Build) String() string {
	s := "pdo-go version " + b.Version + " (" + b.ShortCommit()
	if b.Dirty {
		s += ", modified"
	}
	return s + ")"
}

// Report is the multi-line form printed by the version command.
func (b Build) Report() string {
	date := b.Date
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s\n  built:    %s\n  go:       %s\n  platform: %s",
		b, date, b.GoVersion, b.Platform)
}
