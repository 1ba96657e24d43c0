package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/inline"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/open"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("at", "a", "", "Seek to this position before reporting")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

// inlineCmd probes a media file without a window and prints its time label.
var inlineCmd = &cobra.Command{
	Use:   "inline <file>",
	Short: "Load media without a window and print its time label",
	Long: `Load the media with video and audio output disabled, wait until the engine reports it ready and print the elapsed/total label.

Positions for --at:
  [seconds]     - e.g. 90 or 12.5
  [h:]mm:ss     - e.g. 1:30 or 1:02:03
  [duration]    - e.g. 1m30s
  [percent]%    - e.g. 50%, relative to the media duration`,
	Example: "  reel inline movie.mkv --at 50% --json",
	Args:    cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return open.Complete(toComplete), cobra.ShellCompDirectiveNoSpace
	},
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		uri, err := open.Resolve(args[0]).Get()
		handleErr(err)

		at := mo.None[inline.Position]()
		if flag := lo.Must(cmd.Flags().GetString("at")); flag != "" {
			position, err := inline.ParsePosition(flag)
			handleErr(err)
			at = mo.Some(position)
		}

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		title := mediaTitle(uri)
		options := &inline.Options{
			Engine:  newEngine(title, true),
			URI:     uri,
			Title:   title,
			At:      at,
			Json:    lo.Must(cmd.Flags().GetBool("json")),
			Out:     writer,
			Timeout: time.Duration(viper.GetInt(key.PlayerReadyTimeout)) * time.Second,
		}

		handleErr(inline.Run(options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

// inlineSchemaCmd prints the JSON schema of the inline --json document.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the inline mode output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			if strings.ToLower(name) == "output" {
				return filepath.Base(t.PkgPath()) + "." + name
			}
			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}
