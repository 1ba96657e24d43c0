package playback

import (
	"fmt"
	"time"
)

// clock splits d into whole hours, minutes and seconds. Fractions are truncated.
func clock(d time.Duration) (hours, minutes, seconds int) {
	total := int(d / time.Second)
	hours = total / 3600
	minutes = total % 3600 / 60
	seconds = total % 60
	return
}

// FormatTime renders the time label.
//
// With a positive total it returns "elapsed/total": H:MM:SS/H:MM:SS when the total
// spans an hour, MM:SS/MM:SS otherwise. In the latter case elapsed hours are folded
// into the minute field, so 3661s of a 2m total reads 61:01/02:00.
// A zero or unknown total yields the elapsed time alone.
func FormatTime(elapsed, total time.Duration) string {
	elapsed = max(elapsed, 0)
	h, m, s := clock(elapsed)

	if total > 0 {
		th, tm, ts := clock(total)
		if th > 0 {
			return fmt.Sprintf("%d:%02d:%02d/%d:%02d:%02d", h, m, s, th, tm, ts)
		}
		return fmt.Sprintf("%02d:%02d/%02d:%02d", h*60+m, s, tm, ts)
	}

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
