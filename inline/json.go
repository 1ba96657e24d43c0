package inline

import (
	"encoding/json"
	"time"

	"github.com/reel-player/reel/player"
)

// Output is the document printed by inline mode with --json.
type Output struct {
	// Media is the resolved file path or URL.
	Media string `json:"media"`
	// Title is the file name shown in the player window.
	Title string `json:"title"`
	// Status is the engine status after probing.
	Status string `json:"status" jsonschema:"enum=unknown,enum=ready,enum=playing,enum=paused,enum=stopped,enum=halted"`
	// Duration is the media length in seconds, absent for live streams.
	Duration *float64 `json:"duration,omitempty"`
	// Position is the probed position in seconds.
	Position float64 `json:"position"`
	// Label is the elapsed/total time label as shown by the player.
	Label string `json:"label"`
	// Volume is the engine volume in percent.
	Volume int `json:"volume" jsonschema:"minimum=0,maximum=100"`
}

func asJson(media, title string, status player.Status, position, duration time.Duration, label string, volume float64) ([]byte, error) {
	output := &Output{
		Media:    media,
		Title:    title,
		Status:   status.String(),
		Position: position.Seconds(),
		Label:    label,
		Volume:   int(volume*100 + 0.5),
	}

	if duration > 0 {
		seconds := duration.Seconds()
		output.Duration = &seconds
	}

	return json.Marshal(output)
}
