// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 14

// Media Playback - these keys configure the session handed to the media engine.
const (
	PlayerRepeat       = "player.repeat"
	PlayerAutoplay     = "player.autoplay"
	PlayerVolume       = "player.volume"
	PlayerExecutable   = "player.mpv"
	PlayerReadyTimeout = "player.ready_timeout"
)

// Terminal User Interface (TUI) - these keys define the control strip's input behaviour.
const (
	TUISeekStep    = "tui.seek_step"
	TUIVolumeStep  = "tui.volume_step"
	TUIDragRelease = "tui.drag_release"
	TUIMouse       = "tui.mouse"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
