package seswire

import "runtime/debug"

// Version is the semantic version of the library, injected during release
// builds via ldflags. The fallback covers development builds.
var Version = "dev"

// GetVersion returns the library version, preferring the module version
// recorded by the build when one exists.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// UserAgent is the value the transport sends with every request.
func UserAgent() string {
	return "seswire/" + GetVersion()
}
