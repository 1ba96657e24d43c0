package inline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Position is a seek target given on the command line: an absolute time or a percentage of the media.
type Position struct {
	offset  time.Duration
	percent float64
	isShare bool
}

// ParsePosition accepts seconds ("90"), clock notation ("1:30", "1:02:03"),
// Go durations ("1m30s") and percentages ("50%").
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Position{}, fmt.Errorf("empty position")
	}

	if p, ok := strings.CutSuffix(s, "%"); ok {
		value, err := parseNumber(p)
		if err != nil || value < 0 || value > 100 {
			return Position{}, fmt.Errorf("invalid percentage %q", s)
		}
		return Position{percent: value, isShare: true}, nil
	}

	if seconds, err := parseNumber(s); err == nil {
		if seconds < 0 {
			return Position{}, fmt.Errorf("negative position %q", s)
		}
		return Position{offset: time.Duration(seconds * float64(time.Second))}, nil
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return Position{}, fmt.Errorf("invalid position %q", s)
	}
	return Position{offset: d}, nil
}

// parseNumber parses a finite decimal number. NaN and infinities are rejected.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}

func parseClock(s string) (Position, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Position{}, fmt.Errorf("invalid position %q", s)
	}

	var total time.Duration
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return Position{}, fmt.Errorf("invalid position %q", s)
		}
		total = total*60 + time.Duration(n)
	}

	return Position{offset: total * time.Second}, nil
}

// Resolve returns the absolute target for media of the given total length, clamped into it when known.
func (p Position) Resolve(total time.Duration) time.Duration {
	if p.isShare {
		if total <= 0 {
			return 0
		}
		return time.Duration(float64(total) * p.percent / 100)
	}

	if total > 0 {
		return lo.Clamp(p.offset, 0, total)
	}
	return p.offset
}
