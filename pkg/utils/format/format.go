package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

// Bytes returns a human-readable byte size (e.g. "1.5 MB").
func Bytes(b int64) string {
	if b < 0 {
		return ""
	}
	return humanize.Bytes(uint64(b))
}

// Ratio formats a width/height ratio truncated to three decimals
// (16:9 -> "1.777", 1:1 -> "1").
func Ratio(v float64) string {
	return humanize.FtoaWithDigits(v, 3)
}

// Resolution formats native dimensions as "1920×1080". Empty when unknown.
func Resolution(d crops.Dimensions) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d×%d", int(d.Width), int(d.Height))
}

// Rect formats a crop rect as "w×h at x,y" with up to two decimals.
func Rect(r crops.Rect) string {
	return fmt.Sprintf("%s×%s at %s,%s",
		humanize.FtoaWithDigits(r.Width, 2),
		humanize.FtoaWithDigits(r.Height, 2),
		humanize.FtoaWithDigits(r.X, 2),
		humanize.FtoaWithDigits(r.Y, 2),
	)
}
