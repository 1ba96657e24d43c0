// Package cmd implements the command-line interface for reel.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/constant"
	"github.com/reel-player/reel/icon"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/open"
	"github.com/reel-player/reel/player"
	"github.com/reel-player/reel/style"
	"github.com/reel-player/reel/tui"
	"github.com/reel-player/reel/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().BoolP("repeat", "r", false, "Loop the media until the player is closed")
	lo.Must0(viper.BindPFlag(key.PlayerRepeat, rootCmd.Flags().Lookup("repeat")))

	rootCmd.Flags().IntP("volume", "V", 100, "Initial volume in percent")
	lo.Must0(viper.BindPFlag(key.PlayerVolume, rootCmd.Flags().Lookup("volume")))

	rootCmd.Flags().Bool("no-autoplay", false, "Wait for play to be pressed once the media is ready")
}

// rootCmd opens a media file and shows the control strip.
var rootCmd = &cobra.Command{
	Use:   constant.Reel + " [file]",
	Short: "A minimal media player driven from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A minimal media player driven from the terminal"),
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return open.Complete(toComplete), cobra.ShellCompDirectiveNoSpace
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		uri := selectMedia(cmd, args)
		title := mediaTitle(uri)

		options := tui.Options{
			URI:      uri,
			Title:    title,
			Engine:   newEngine(title, false),
			Repeat:   viper.GetBool(key.PlayerRepeat),
			Autoplay: viper.GetBool(key.PlayerAutoplay) && !lo.Must(cmd.Flags().GetBool("no-autoplay")),
			Volume:   float64(lo.Clamp(viper.GetInt(key.PlayerVolume), 0, 100)) / 100,
		}
		handleErr(tui.Run(&options))
	},
}

// selectMedia resolves the file argument or asks for one. No selection ends the process.
func selectMedia(cmd *cobra.Command, args []string) string {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	uri, err := open.Select(arg).Get()
	if errors.Is(err, open.ErrNoSelection) {
		log.Info("no media selected")
		cmd.PrintErrln(style.Fg(color.Yellow)("No media selected"))
		os.Exit(1)
	}
	handleErr(err)

	return uri
}

// mediaTitle is the file name without extension, or the fallback window title.
func mediaTitle(uri string) string {
	if open.IsURL(uri) {
		uri = strings.SplitN(uri, "?", 2)[0]
	}

	title := util.FileStem(strings.TrimRight(uri, "/"))
	switch title {
	case "", ".", "/":
		return constant.WindowTitle
	default:
		return title
	}
}

func newEngine(title string, headless bool) *player.MPV {
	return player.NewMPV(player.Options{
		Executable:   viper.GetString(key.PlayerExecutable),
		Title:        title,
		Headless:     headless,
		ReadyTimeout: time.Duration(viper.GetInt(key.PlayerReadyTimeout)) * time.Second,
	})
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
