// Package version holds Aarika's build information. Version, GitCommit and
// BuildDate are injected with -ldflags at release time.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ProductName is shown in banners and version output.
const ProductName = "Aarika"

// Info is the resolved build information.
type Info struct {
	Version   string          `json:"version"`
	GitCommit string          `json:"gitCommit"`
	BuildDate string          `json:"buildDate"`
	GoVersion string          `json:"goVersion"`
	Platform  string          `json:"platform"`
	SemVer    *semver.Version `json:"-"`
}

// GetInfo parses the injected version and collects runtime details.
func GetInfo() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}

	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SemVer:    sv,
	}, nil
}

// ShortCommit returns the first seven characters of the commit hash.
func (i *Info) ShortCommit() string {
	if len(i.GitCommit) > 7 {
		return i.GitCommit[:7]
	}
	return i.GitCommit
}

// GetFormattedVersion returns a one-line banner, e.g.
// "Aarika v0.1.0, commit abc1234, built 2025-01-02".
func GetFormattedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("%s v%s (invalid version)", ProductName, Version)
	}

	parts := []string{fmt.Sprintf("%s v%s", ProductName, info.Version)}
	if known(info.GitCommit) {
		parts = append(parts, "commit "+info.ShortCommit())
	}
	if known(info.BuildDate) {
		parts = append(parts, "built "+info.BuildDate)
	}
	if info.SemVer.Prerelease() != "" {
		parts = append(parts, "prerelease")
	}
	return strings.Join(parts, ", ")
}

// GetDetailedVersion returns multi-line build details for `aarika version --detailed`.
func GetDetailedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("%s v%s (error: %v)", ProductName, Version, err)
	}

	lines := []string{
		fmt.Sprintf("%s v%s", ProductName, info.Version),
		"Git Commit: " + info.GitCommit,
		"Build Date: " + info.BuildDate,
	}
	if meta := info.SemVer.Metadata(); meta != "" {
		lines = append(lines, "Build Metadata: "+meta)
	}
	lines = append(lines,
		"Go Version: "+info.GoVersion,
		"Platform: "+info.Platform,
	)
	return strings.Join(lines, "\n")
}

// IsDevelopment reports whether the binary was built without release ldflags.
func IsDevelopment() bool {
	return !known(GitCommit) || !known(BuildDate)
}

// CompareVersions returns -1, 0 or 1 as v1 is older, equal or newer than v2.
func CompareVersions(v1, v2 string) (int, error) {
	sv1, err := semver.NewVersion(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version v1 '%s': %w", v1, err)
	}
	sv2, err := semver.NewVersion(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version v2 '%s': %w", v2, err)
	}
	return sv1.Compare(sv2), nil
}

// SetBuildInfo overrides the build variables; tests use it.
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}

func known(s string) bool {
	return s != "" && s != "unknown"
}
