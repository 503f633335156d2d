package crops

// ToNativeSpace scales a container-space rect into the media's native pixel
// space. X and Y scale independently since the player may stretch the video.
func ToNativeSpace(r Rect, container, native Dimensions) (Rect, error) {
	if container.IsZero() || native.IsZero() {
		return Rect{}, ErrLayoutUnavailable
	}
	sx := native.Width / container.Width
	sy := native.Height / container.Height
	return Rect{
		X:      r.X * sx,
		Y:      r.Y * sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}, nil
}

// ToContainerSpace is the inverse of ToNativeSpace.
func ToContainerSpace(r Rect, container, native Dimensions) (Rect, error) {
	if container.IsZero() || native.IsZero() {
		return Rect{}, ErrLayoutUnavailable
	}
	sx := container.Width / native.Width
	sy := container.Height / native.Height
	return Rect{
		X:      r.X * sx,
		Y:      r.Y * sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}, nil
}
