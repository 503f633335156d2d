package crops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterFor(t *testing.T) {
	native := Dimensions{Width: 1920, Height: 1080}

	tests := []struct {
		name string
		rect Rect
		want string
	}{
		{
			name: "full frame is a no-op",
			rect: Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			want: "",
		},
		{
			name: "nearly full frame is a no-op",
			rect: Rect{X: 2, Y: 1, Width: 1916, Height: 1078},
			want: "",
		},
		{
			name: "vertical crop centered",
			rect: Rect{X: 656.25, Y: 0, Width: 607.5, Height: 1080},
			want: "crop=606:1080:656:0",
		},
		{
			name: "odd sizes floor to even",
			rect: Rect{X: 10.4, Y: 20.6, Width: 641.9, Height: 361.3},
			want: "crop=640:360:10:21",
		},
		{
			name: "empty rect",
			rect: Rect{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterFor(tt.rect, native))
		})
	}
}

func TestFilterFor_StaysInsideFrame(t *testing.T) {
	native := Dimensions{Width: 1280, Height: 720}
	got := FilterFor(Rect{X: 1100, Y: 0, Width: 300, Height: 720}, native)
	assert.Equal(t, "crop=300:720:980:0", got)
}
