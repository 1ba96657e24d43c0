// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/playback"
	"github.com/reel-player/reel/player"
	"github.com/spf13/viper"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// URI is the resolved media path or URL.
	URI string

	// Title is shown in the header and as the terminal title.
	Title string

	Engine   player.Engine
	Repeat   bool
	Autoplay bool

	// Volume is the initial volume in [0, 1].
	Volume float64
}

// Run plays the media with the control strip until the user quits or the engine window is closed.
// Initialization failures are returned after the interface is torn down.
func Run(options *Options) error {
	session := playback.NewSession(options.Repeat, options.Volume)
	controller := playback.NewController(options.Engine, session, options.Autoplay)
	bubble := newBubble(options, controller)

	programOptions := []tea.ProgramOption{tea.WithAltScreen()}
	if viper.GetBool(key.TUIMouse) {
		programOptions = append(programOptions, tea.WithMouseCellMotion())
	}

	_, err := tea.NewProgram(bubble, programOptions...).Run()

	if closeErr := options.Engine.Close(); closeErr != nil {
		log.Warnf("close engine: %v", closeErr)
	}

	if err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return bubble.lastError
}
