package crops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNativeSpace(t *testing.T) {
	container := Dimensions{Width: 800, Height: 450}
	native := Dimensions{Width: 1920, Height: 1080}

	got, err := ToNativeSpace(Rect{X: 100, Y: 50, Width: 400, Height: 225}, container, native)
	require.NoError(t, err)
	assert.InDelta(t, 240, got.X, 1e-9)
	assert.InDelta(t, 120, got.Y, 1e-9)
	assert.InDelta(t, 960, got.Width, 1e-9)
	assert.InDelta(t, 540, got.Height, 1e-9)
}

func TestToNativeSpace_IndependentAxes(t *testing.T) {
	// Player stretches a 4:3 source to 16:9.
	container := Dimensions{Width: 1600, Height: 900}
	native := Dimensions{Width: 640, Height: 480}

	got, err := ToNativeSpace(Rect{X: 800, Y: 450, Width: 800, Height: 450}, container, native)
	require.NoError(t, err)
	assert.InDelta(t, 320, got.X, 1e-9)
	assert.InDelta(t, 240, got.Y, 1e-9)
	assert.InDelta(t, 320, got.Width, 1e-9)
	assert.InDelta(t, 240, got.Height, 1e-9)
}

func TestToNativeSpace_Unavailable(t *testing.T) {
	r := Rect{X: 1, Y: 1, Width: 10, Height: 10}

	_, err := ToNativeSpace(r, Dimensions{}, Dimensions{Width: 1920, Height: 1080})
	require.ErrorIs(t, err, ErrLayoutUnavailable)

	_, err = ToNativeSpace(r, Dimensions{Width: 800, Height: 0}, Dimensions{Width: 1920, Height: 1080})
	require.ErrorIs(t, err, ErrLayoutUnavailable)

	_, err = ToNativeSpace(r, Dimensions{Width: 800, Height: 450}, Dimensions{})
	require.ErrorIs(t, err, ErrLayoutUnavailable)
}

func TestNativeRoundTrip(t *testing.T) {
	cases := []struct {
		container Dimensions
		native    Dimensions
		rect      Rect
	}{
		{Dimensions{Width: 800, Height: 450}, Dimensions{Width: 1920, Height: 1080}, Rect{X: 273.5, Y: 0, Width: 253.13, Height: 450}},
		{Dimensions{Width: 733, Height: 412}, Dimensions{Width: 3840, Height: 2160}, Rect{X: 17.25, Y: 31.5, Width: 400.75, Height: 225.42}},
		{Dimensions{Width: 640, Height: 640}, Dimensions{Width: 720, Height: 1280}, Rect{X: 0, Y: 100, Width: 640, Height: 360}},
	}

	for _, tc := range cases {
		native, err := ToNativeSpace(tc.rect, tc.container, tc.native)
		require.NoError(t, err)

		// Reported values are rounded to 2 decimals before leaving the service.
		back, err := ToContainerSpace(native.Round(), tc.container, tc.native)
		require.NoError(t, err)

		assert.InDelta(t, tc.rect.X, back.X, 0.01)
		assert.InDelta(t, tc.rect.Y, back.Y, 0.01)
		assert.InDelta(t, tc.rect.Width, back.Width, 0.01)
		assert.InDelta(t, tc.rect.Height, back.Height, 0.01)
	}
}
