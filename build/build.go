// Package build reports what binary is running. Release builds inject a JSON
// document with -ldflags:
//
//	-X 'github.com/amp-labs/flatsort/build.infoJSON={"version":"v1.2.0",...}'
//
// Other builds fall back to the module information the Go toolchain embeds.
package build

import (
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"strings"
)

const unknown = "(devel)"

var infoJSON string //nolint:gochecknoglobals

// Info contains build metadata.
type Info struct {
	Version      string            `json:"version"`
	GitCommit    string            `json:"git_commit"` //nolint:tagliatelle
	BuildTime    string            `json:"build_time"` //nolint:tagliatelle
	GoVersion    string            `json:"go_version"` //nolint:tagliatelle
	Dependencies map[string]string `json:"dependencies"`
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	js = strings.TrimSpace(js)
	if len(js) == 0 || js == "{}" {
		return nil, false
	}

	var info Info

	err := json.Unmarshal([]byte(js), &info)
	if err != nil {
		slog.Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// Current returns the injected build info, or what runtime/debug knows about
// the binary when nothing was injected.
func Current() Info {
	if info, ok := Parse(infoJSON); ok {
		return *info
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Version: unknown}
	}

	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{
		Version:      bi.Main.Version,
		GoVersion:    bi.GoVersion,
		Dependencies: make(map[string]string, len(bi.Deps)),
	}

	if info.Version == "" {
		info.Version = unknown
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		}
	}

	for _, dep := range bi.Deps {
		info.Dependencies[dep.Path] = dep.Version
	}

	return info
}

// LogValue keeps dependency lists out of log lines.
func (i Info) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("version", i.Version),
		slog.String("git_commit", i.GitCommit),
		slog.String("build_time", i.BuildTime),
		slog.String("go_version", i.GoVersion),
	)
}
