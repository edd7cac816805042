package noq

// Version and BuildDate identify the build; BuildDate is overridden via
// -ldflags by release builds.
var (
	Version   = "0.2.0"
	BuildDate = "unknown"
)
