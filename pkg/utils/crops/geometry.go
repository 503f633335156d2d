package crops

import "math"

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero is true when either side is not laid out yet.
func (d Dimensions) IsZero() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Ratio returns width/height, or 0 for a zero box.
func (d Dimensions) Ratio() float64 {
	if d.IsZero() {
		return 0
	}
	return d.Width / d.Height
}

// Rect is a rectangle relative to the container's top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Fits reports whether r lies fully inside container.
func (r Rect) Fits(container Dimensions) bool {
	const eps = 1e-9
	return r.X >= -eps && r.Y >= -eps &&
		r.X+r.Width <= container.Width+eps &&
		r.Y+r.Height <= container.Height+eps
}

// Round rounds every field to two decimals for reporting.
func (r Rect) Round() Rect {
	return Rect{
		X:      round2(r.X),
		Y:      round2(r.Y),
		Width:  round2(r.Width),
		Height: round2(r.Height),
	}
}

// Point is a pointer position in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FitRect returns the largest rect with the given width/height ratio that
// fits inside container, centered. A zero container yields a zero Rect.
func FitRect(container Dimensions, ratio float64) Rect {
	if container.IsZero() || !positiveFinite(ratio) {
		return Rect{}
	}

	var w, h float64
	if container.Ratio() > ratio {
		// Container is wider: use the full height, pillarbox the sides.
		h = container.Height
		w = h * ratio
	} else {
		// Container is taller: use the full width, letterbox top/bottom.
		w = container.Width
		h = w / ratio
	}

	return Rect{
		X:      (container.Width - w) / 2,
		Y:      (container.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

// ClampTranslate moves cur by (dx, dy) and clamps it inside container.
// An axis on which cur is larger than the container pins to 0.
func ClampTranslate(cur Rect, dx, dy float64, container Dimensions) Rect {
	return Rect{
		X:      clampAxis(cur.X+dx, container.Width-cur.Width),
		Y:      clampAxis(cur.Y+dy, container.Height-cur.Height),
		Width:  cur.Width,
		Height: cur.Height,
	}
}

// Clamp pulls r back inside container without moving it otherwise.
func Clamp(r Rect, container Dimensions) Rect {
	return ClampTranslate(r, 0, 0, container)
}

func clampAxis(v, upper float64) float64 {
	if upper <= 0 || math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, upper))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
