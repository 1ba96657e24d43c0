package open

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/reel-player/reel/filesystem"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var (
	// ErrNoSelection means the user dismissed the prompt without choosing a file.
	ErrNoSelection = errors.New("no media file selected")

	// ErrNotFound means the chosen path is not a regular file.
	ErrNotFound = errors.New("media file not found")
)

// suggestLimit caps the completions offered by the prompt.
const suggestLimit = 12

// mediaExtensions are offered by path completion. Any regular file can still be opened.
var mediaExtensions = []string{
	".mp4", ".m4v", ".mkv", ".webm", ".mov", ".avi", ".flv", ".wmv", ".mpg", ".mpeg", ".ts",
	".mp3", ".m4a", ".aac", ".flac", ".ogg", ".opus", ".wav",
}

// ask shows the interactive prompt. Replaced in tests.
var ask = func(prompt survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	return survey.AskOne(prompt, response, opts...)
}

// Select resolves the media to play. A non-empty arg is validated as is; otherwise the user is asked.
// Cancelling the prompt yields ErrNoSelection.
func Select(arg string) mo.Result[string] {
	if arg != "" {
		return Resolve(arg)
	}

	var response string
	input := &survey.Input{
		Message: "Open media file:",
		Help:    "Path to a local file or an http(s) URL. Press tab to complete paths.",
		Suggest: Complete,
	}

	err := ask(input, &response)
	if errors.Is(err, terminal.InterruptErr) {
		return mo.Err[string](ErrNoSelection)
	}
	if err != nil {
		return mo.Err[string](fmt.Errorf("prompt: %w", err))
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return mo.Err[string](ErrNoSelection)
	}

	return Resolve(response)
}

// Resolve turns user input into a playable target: an http(s) URL or an absolute path to an existing file.
func Resolve(input string) mo.Result[string] {
	if IsURL(input) {
		return mo.Ok(input)
	}

	path, err := filepath.Abs(expandHome(input))
	if err != nil {
		return mo.Err[string](fmt.Errorf("resolve %s: %w", input, err))
	}

	if !filesystem.IsRegularFile(path) {
		return mo.Err[string](fmt.Errorf("%s: %w", input, ErrNotFound))
	}

	return mo.Ok(path)
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Complete suggests directories and media files for a partially typed path, best fuzzy matches first.
func Complete(partial string) []string {
	expanded := expandHome(partial)
	if strings.HasSuffix(partial, string(filepath.Separator)) && !strings.HasSuffix(expanded, string(filepath.Separator)) {
		expanded += string(filepath.Separator)
	}

	dir, base := filepath.Split(expanded)
	listDir := dir
	if listDir == "" {
		listDir = "."
	}

	entries, err := filesystem.API().ReadDir(listDir)
	if err != nil {
		return nil
	}

	candidates := make(map[string]string)
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}

		switch {
		case entry.IsDir():
			candidates[name] = dir + name + string(filepath.Separator)
		case lo.Contains(mediaExtensions, strings.ToLower(filepath.Ext(name))):
			candidates[name] = dir + name
		default:
			continue
		}
		names = append(names, name)
	}

	if base == "" {
		sort.Strings(names)
		return lo.Map(lo.Subset(names, 0, suggestLimit), func(name string, _ int) string {
			return candidates[name]
		})
	}

	ranks := fuzzy.RankFindFold(base, names)
	sort.Stable(ranks)

	suggestions := lo.Map(ranks, func(rank fuzzy.Rank, _ int) string {
		return candidates[rank.Target]
	})
	return lo.Subset(suggestions, 0, suggestLimit)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
