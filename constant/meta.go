// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Reel is the canonical application identifier used for filesystem paths and CLI branding.
	Reel = "reel"

	// Version is the current application semantic version string.
	Version = "0.3.1"

	// WindowTitle is the fallback title used for the video window when the media has no usable name.
	WindowTitle = "Reel Media Player"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
