package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/constant"
	"github.com/reel-player/reel/icon"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/style"
	"github.com/spf13/viper"
)

// CheckDependencies verifies that the configured mpv executable can be found.
func CheckDependencies() {
	executable := viper.GetString(key.PlayerExecutable)
	if _, err := exec.LookPath(executable); err != nil {
		printMissingDependencyError(executable)
		os.Exit(1)
	}
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.ErrorTitle(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("The media engine '%s' was not found in your PATH.", dep)

	suggestion := ""
	if hint := installHint(); hint != "" {
		suggestion = fmt.Sprintf("\nTo install it, try running:\n  %s", style.New().Foreground(color.Accent).Bold(true).Render(hint))
	}
	suggestion += fmt.Sprintf("\nOr point %s at an existing binary.", style.Fg(color.Purple)(key.PlayerExecutable))

	_, _ = fmt.Fprintln(os.Stderr, box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			body,
			suggestion,
		),
	))
}
