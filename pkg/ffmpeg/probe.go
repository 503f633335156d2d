package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"

	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

var ErrNoVideoStream = errors.New("ffprobe: no video stream")

// ProbeResult contains the media metadata the crop selector cares about.
type ProbeResult struct {
	Width      int     // Coded width of the first video stream
	Height     int     // Coded height of the first video stream
	Rotation   int     // Display rotation in degrees (0, 90, 180, 270)
	FPS        float64 // Frames per second
	VideoCodec string  // Video codec name (h264, vp9, etc.)
	Duration   float64 // Duration in seconds
	Size       int64   // File size in bytes
	FormatName string  // Container format (mp4, webm, mkv, etc.)
}

// Dimensions returns the size the video is displayed at, which is what a
// browser reports as videoWidth/videoHeight. Quarter-turn rotations swap
// the coded width and height.
func (p *ProbeResult) Dimensions() crops.Dimensions {
	w, h := float64(p.Width), float64(p.Height)
	if p.Rotation == 90 || p.Rotation == 270 {
		w, h = h, w
	}
	return crops.Dimensions{Width: w, Height: h}
}

// ffprobeOutput matches ffprobe JSON output structure.
type ffprobeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType    string            `json:"codec_type"`
		CodecName    string            `json:"codec_name"`
		Width        int               `json:"width"`
		Height       int               `json:"height"`
		RFrameRate   string            `json:"r_frame_rate"`
		Tags         map[string]string `json:"tags"`
		SideDataList []struct {
			Rotation *float64 `json:"rotation"`
		} `json:"side_data_list"`
	} `json:"streams"`
}

// Probe runs ffprobe on a file and returns metadata.
func Probe(ctx context.Context, path string) (*ProbeResult, error) {
	args := []string{
		"-hide_banner",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe: %w: %s", err, stderr.String())
	}

	return parseProbeOutput(stdout.Bytes())
}

// ProbeDimensions returns the displayed video size of a media file.
func ProbeDimensions(ctx context.Context, path string) (crops.Dimensions, error) {
	result, err := Probe(ctx, path)
	if err != nil {
		return crops.Dimensions{}, err
	}
	return result.Dimensions(), nil
}

func parseProbeOutput(raw []byte) (*ProbeResult, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("ffprobe: failed to parse output: %w", err)
	}

	result := &ProbeResult{FormatName: output.Format.FormatName}
	if output.Format.Duration != "" {
		result.Duration, _ = strconv.ParseFloat(output.Format.Duration, 64)
	}
	if output.Format.Size != "" {
		result.Size, _ = strconv.ParseInt(output.Format.Size, 10, 64)
	}

	found := false
	for _, stream := range output.Streams {
		if stream.CodecType != "video" || stream.Width == 0 || stream.Height == 0 {
			continue
		}
		// Only take first video stream metadata
		found = true
		result.Width = stream.Width
		result.Height = stream.Height
		result.VideoCodec = stream.CodecName
		result.FPS = parseFrameRate(stream.RFrameRate)

		if deg, err := strconv.Atoi(stream.Tags["rotate"]); err == nil {
			result.Rotation = normalizeRotation(float64(deg))
		}
		for _, sd := range stream.SideDataList {
			if sd.Rotation != nil {
				result.Rotation = normalizeRotation(*sd.Rotation)
			}
		}
		break
	}
	if !found {
		return nil, ErrNoVideoStream
	}

	return result, nil
}

// normalizeRotation folds a display-matrix angle (which ffprobe reports as
// e.g. -90) into [0, 360).
func normalizeRotation(deg float64) int {
	r := int(math.Round(deg)) % 360
	if r < 0 {
		r += 360
	}
	return r
}

// parseFrameRate parses ffprobe frame rate format (e.g., "30/1" or "30000/1001").
func parseFrameRate(rate string) float64 {
	var num, den int
	_, err := fmt.Sscanf(rate, "%d/%d", &num, &den)
	if err != nil || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
