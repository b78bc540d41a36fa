// Package version carries build metadata for the svcore CLI. The variables
// can be overridden at build time via -ldflags.
package version

import (
	"fmt"
	"strings"

	"github.com/coreos/go-semver/semver"
	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted. Colors
// follow color.NoColor, so the result is plain when output is not a terminal.
// Versions that are not semver are returned unchanged.
func Colored() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		return "dev"
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	out := fmt.Sprintf("%s.%s.%s",
		majorColor.Sprint(sv.Major), minorColor.Sprint(sv.Minor), patchColor.Sprint(sv.Patch))
	if sv.PreRelease != "" {
		out += "-" + string(sv.PreRelease)
	}
	if sv.Metadata != "" {
		out += "+" + sv.Metadata
	}
	return out
}
