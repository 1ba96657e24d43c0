// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/icon"
	"github.com/reel-player/reel/internal/ui"
	"github.com/reel-player/reel/playback"
	"github.com/reel-player/reel/util"
	"github.com/samber/lo"
)

// slider names one of the two draggable bars.
type slider int

const (
	noSlider slider = iota
	seekSlider
	volumeSlider
)

const (
	// timeLabelWidth fits the widest label, H:MM:SS/H:MM:SS.
	timeLabelWidth = 15
	minBarWidth    = 10
	maxVolumeWidth = 30
)

// Rows of the control strip, counted from the first content line.
const (
	titleRow  = 0
	statusRow = 2
	buttonRow = 4
	volumeRow = 6
	seekRow   = 8
)

// statefulBubble encapsulates the application state, its component models and the playback core.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	// components
	spinnerC      spinner.Model
	seekC         progress.Model
	seekDisabledC progress.Model
	volumeC       progress.Model
	helpC         help.Model

	controller *playback.Controller
	options    *Options
	lastError  error

	// mouseDrag is the slider held with the mouse
	mouseDrag slider

	// keyboard nudges hold a slider until a release tick with the current generation arrives
	seekNudges, volumeNudges int

	width, height int
	notifier      *ui.Model
}

// bar is the on-screen placement of a slider, in terminal cells.
type bar struct {
	row, x, width int
}

func (r bar) contains(x, y int) bool {
	return y == r.row && x >= r.x && x < r.x+r.width
}

// value maps a column to a slider value in [0, 100].
func (r bar) value(x int) float64 {
	if r.width <= 1 {
		return 0
	}
	return lo.Clamp(float64(x-r.x)/float64(r.width-1)*100, 0, 100)
}

// layout is where the clickable parts of the control strip are drawn.
type layout struct {
	button bar
	volume bar
	seek   bar
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) volumePrefix() string {
	return icon.Get(icon.Volume) + " "
}

// layout computes the placement of the controls for the current terminal size.
func (b *statefulBubble) layout() layout {
	top, left := paddingStyle.GetPaddingTop(), paddingStyle.GetPaddingLeft()

	volumeX := left + lipgloss.Width(b.volumePrefix())

	return layout{
		button: bar{row: top + buttonRow, x: left, width: lipgloss.Width(b.button())},
		volume: bar{row: top + volumeRow, x: volumeX, width: b.volumeC.Width},
		seek:   bar{row: top + seekRow, x: left, width: b.seekC.Width},
	}
}

// resize propagates terminal dimension changes to the bars and help.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	seekWidth := lo.Max([]int{b.width - timeLabelWidth - 1, minBarWidth})
	b.seekC.Width = seekWidth
	b.seekDisabledC.Width = seekWidth

	volumeWidth := b.width - lipgloss.Width(b.volumePrefix()) - 5
	b.volumeC.Width = lo.Clamp(volumeWidth, minBarWidth, maxVolumeWidth)

	b.helpC.Width = b.width
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options, controller *playback.Controller) *statefulBubble {
	bubble := statefulBubble{
		keymap:     newStatefulKeymap(),
		controller: controller,
		options:    options,
		notifier:   &ui.Model{},
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(color.Accent)

	bubble.seekC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bubble.seekDisabledC = progress.New(
		progress.WithSolidFill(string(color.Disabled)),
		progress.WithoutPercentage(),
	)
	bubble.volumeC = progress.New(
		progress.WithSolidFill(string(color.Accent)),
		progress.WithoutPercentage(),
	)

	bubble.setState(loadingState)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	} else {
		bubble.resize(80, 24)
	}

	return &bubble
}
