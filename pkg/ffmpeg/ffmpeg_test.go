package ffmpeg

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

var fullHD = crops.Dimensions{Width: 1920, Height: 1080}

func TestCommandBuild(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		output   string
		opts     []Option
		wantArgs []string
	}{
		{
			name:   "crop with encode",
			input:  "input.mkv",
			output: "output.mp4",
			opts: []Option{
				CropRect(crops.Rect{X: 656.25, Y: 0, Width: 607.5, Height: 1080}, fullHD),
				VideoCodec("libx264"),
				CRF(20),
			},
			wantArgs: []string{
				"-hide_banner", "-y",
				"-i", "input.mkv",
				"-c:v", "libx264",
				"-crf", "20",
				"-vf", "crop=606:1080:656:0",
				"-movflags", "+faststart",
				"output.mp4",
			},
		},
		{
			name:   "full frame crop adds no filter",
			input:  "input.mp4",
			output: "output.webm",
			opts: []Option{
				CropRect(crops.Rect{Width: 1920, Height: 1080}, fullHD),
				CopyAudio,
			},
			wantArgs: []string{
				"-hide_banner", "-y",
				"-i", "input.mp4",
				"-c:a", "copy",
				"output.webm",
			},
		},
		{
			name:   "filters chain in order",
			input:  "in.mov",
			output: "out.mov",
			opts: []Option{
				Filter("crop=100:100:0:0"),
				Filter("scale=50:50"),
				Filter(""),
			},
			wantArgs: []string{
				"-hide_banner", "-y",
				"-i", "in.mov",
				"-vf", "crop=100:100:0:0,scale=50:50",
				"-movflags", "+faststart",
				"out.mov",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand(tt.input, tt.output, tt.opts...)
			assert.Equal(t, tt.wantArgs, cmd.Build())
		})
	}
}

func TestCropExport_String(t *testing.T) {
	cmd := CropExport("my clip.mp4", "out.mp4", crops.Rect{X: 656.25, Y: 0, Width: 607.5, Height: 1080}, fullHD)
	assert.Equal(t,
		"ffmpeg -hide_banner -y -i 'my clip.mp4' -c:v libx264 -preset fast -crf 20 -c:a copy -vf crop=606:1080:656:0 -movflags +faststart out.mp4",
		cmd.String(),
	)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "plain", shellQuote("plain"))
	assert.Equal(t, "''", shellQuote(""))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}

const probeFixture = `{
  "streams": [
    {"index": 0, "codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2},
    {"index": 1, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"}
  ],
  "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "12.480000", "size": "1048576"}
}`

func TestParseProbeOutput(t *testing.T) {
	result, err := parseProbeOutput([]byte(probeFixture))
	require.NoError(t, err)

	assert.Equal(t, 1920, result.Width)
	assert.Equal(t, 1080, result.Height)
	assert.Equal(t, "h264", result.VideoCodec)
	assert.InDelta(t, 29.97, result.FPS, 0.01)
	assert.InDelta(t, 12.48, result.Duration, 1e-9)
	assert.Equal(t, int64(1048576), result.Size)
	assert.Equal(t, fullHD, result.Dimensions())
}

func TestParseProbeOutput_Rotation(t *testing.T) {
	tests := []struct {
		name string
		json string
		want crops.Dimensions
	}{
		{
			name: "rotate tag",
			json: `{"streams":[{"codec_type":"video","width":1920,"height":1080,"tags":{"rotate":"90"}}],"format":{}}`,
			want: crops.Dimensions{Width: 1080, Height: 1920},
		},
		{
			name: "display matrix",
			json: `{"streams":[{"codec_type":"video","width":1920,"height":1080,"side_data_list":[{"side_data_type":"Display Matrix","rotation":-90}]}],"format":{}}`,
			want: crops.Dimensions{Width: 1080, Height: 1920},
		},
		{
			name: "upside down keeps size",
			json: `{"streams":[{"codec_type":"video","width":1280,"height":720,"side_data_list":[{"rotation":180}]}],"format":{}}`,
			want: crops.Dimensions{Width: 1280, Height: 720},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseProbeOutput([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Dimensions())
		})
	}
}

func TestParseProbeOutput_Errors(t *testing.T) {
	_, err := parseProbeOutput([]byte(`not json`))
	require.Error(t, err)

	_, err = parseProbeOutput([]byte(`{"streams":[{"codec_type":"audio"}],"format":{}}`))
	require.ErrorIs(t, err, ErrNoVideoStream)
}

func TestNormalizeRotation(t *testing.T) {
	assert.Equal(t, 270, normalizeRotation(-90))
	assert.Equal(t, 90, normalizeRotation(90))
	assert.Equal(t, 0, normalizeRotation(360))
	assert.Equal(t, 180, normalizeRotation(-180))
}

func TestIntegration_ProbeMissingFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := ProbeDimensions(ctx, "/nonexistent/input.mp4")
	require.Error(t, err)
}
