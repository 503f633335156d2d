package crops

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidRatioLabel = errors.New("invalid aspect ratio label")
	ErrLayoutUnavailable = errors.New("layout unavailable")
)

// AspectRatio is a parsed "W:H" label.
// Label is kept as given (trimmed) so it can be shown back to the user.
type AspectRatio struct {
	Label string  `json:"string"`
	Value float64 `json:"real"`
}

// ParseAspectRatio parses a "W:H" label such as "16:9" or "2.39:1".
// Both tokens must be finite positive numbers.
func ParseAspectRatio(label string) (AspectRatio, error) {
	label = strings.TrimSpace(label)
	parts := strings.Split(label, ":")
	if len(parts) != 2 {
		return AspectRatio{}, fmt.Errorf("%w: %q", ErrInvalidRatioLabel, label)
	}

	w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errW != nil || errH != nil {
		return AspectRatio{}, fmt.Errorf("%w: %q", ErrInvalidRatioLabel, label)
	}
	if !positiveFinite(w) || !positiveFinite(h) {
		return AspectRatio{}, fmt.Errorf("%w: %q", ErrInvalidRatioLabel, label)
	}

	return AspectRatio{Label: label, Value: w / h}, nil
}

// Matches reports whether label names this ratio. Matching is by label
// identity, not by re-parsing and comparing floats.
func (a AspectRatio) Matches(label string) bool {
	return a.Label != "" && a.Label == strings.TrimSpace(label)
}

func (a AspectRatio) String() string {
	return a.Label
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
