package report

import "runtime/debug"

// ToolName identifies the producer in exported documents.
const ToolName = "modelmaster"

// Version is the producer version. It is set from the CLI build version;
// empty or "dev" falls back to the module build info.
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// ToolVersion returns Version when set, then the main module version from the
// build info, then "devel".
func ToolVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "devel"
}
