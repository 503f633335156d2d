package crops

import (
	"fmt"
	"math"
)

// LooksLikeFullFrame returns true if the native-space rect covers the whole
// frame (within one percent on each side).
// Used to skip no-op crop filters.
func LooksLikeFullFrame(r Rect, native Dimensions) bool {
	if native.IsZero() {
		return true
	}
	return r.X <= native.Width*0.01 && r.Y <= native.Height*0.01 &&
		r.Width >= native.Width*0.99 && r.Height >= native.Height*0.99
}

// FilterFor returns an ffmpeg crop filter ("crop=w:h:x:y") for a native-space
// rect. Sizes are floored to even numbers since most encoders reject odd
// chroma-subsampled dimensions.
// Returns an empty string if the crop covers the full frame.
func FilterFor(r Rect, native Dimensions) string {
	if r.Empty() || LooksLikeFullFrame(r, native) {
		return ""
	}
	w := evenFloor(r.Width)
	h := evenFloor(r.Height)
	x := int(math.Round(r.X))
	y := int(math.Round(r.Y))
	if nw := int(native.Width); x+w > nw {
		x = max(0, nw-w)
	}
	if nh := int(native.Height); y+h > nh {
		y = max(0, nh-h)
	}
	return fmt.Sprintf("crop=%d:%d:%d:%d", w, h, x, y)
}

func evenFloor(v float64) int {
	n := int(math.Floor(v))
	return n - n%2
}
