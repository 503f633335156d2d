// Package ffmpeg builds ffmpeg command lines for crop exports and probes
// media files for their native dimensions.
package ffmpeg

import (
	"path/filepath"
	"strconv"
	"strings"

	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

// Command represents an ffmpeg command being built.
type Command struct {
	input     string
	output    string
	postInput []string // args after -i
	filters   []string // collected -vf filters
}

// Option modifies a Command. Options are composable and order-independent
// (ffmpeg will receive args in correct order regardless of option order).
type Option interface {
	Apply(cmd *Command)
}

// OptionFunc is a function that implements Option.
type OptionFunc func(cmd *Command)

// Apply implements Option.
func (f OptionFunc) Apply(cmd *Command) { f(cmd) }

// NewCommand creates a command with input/output and applies options.
func NewCommand(input, output string, opts ...Option) *Command {
	cmd := &Command{
		input:  input,
		output: output,
	}
	for _, opt := range opts {
		opt.Apply(cmd)
	}
	return cmd
}

// Build returns the complete ffmpeg argument list.
func (c *Command) Build() []string {
	args := []string{"-hide_banner", "-y", "-i", c.input}
	args = append(args, c.postInput...)

	if len(c.filters) > 0 {
		args = append(args, "-vf", strings.Join(c.filters, ","))
	}

	ext := strings.ToLower(filepath.Ext(c.output))
	if ext == ".mp4" || ext == ".m4a" || ext == ".mov" {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, c.output)
}

// String renders the command as a copy-pasteable shell line.
func (c *Command) String() string {
	parts := []string{"ffmpeg"}
	for _, a := range c.Build() {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// VideoCodec sets the video codec (-c:v).
func VideoCodec(codec string) Option {
	return OptionFunc(func(cmd *Command) {
		cmd.postInput = append(cmd.postInput, "-c:v", codec)
	})
}

// CRF sets the constant rate factor.
func CRF(value int) Option {
	return OptionFunc(func(cmd *Command) {
		cmd.postInput = append(cmd.postInput, "-crf", strconv.Itoa(value))
	})
}

// Preset sets the encoding preset (ultrafast, fast, medium, etc.).
func Preset(name string) Option {
	return OptionFunc(func(cmd *Command) {
		cmd.postInput = append(cmd.postInput, "-preset", name)
	})
}

// CopyAudio copies the audio stream without re-encoding (-c:a copy).
var CopyAudio Option = OptionFunc(func(cmd *Command) {
	cmd.postInput = append(cmd.postInput, "-c:a", "copy")
})

// Filter adds a video filter to the filter chain.
func Filter(f string) Option {
	return OptionFunc(func(cmd *Command) {
		if f != "" {
			cmd.filters = append(cmd.filters, f)
		}
	})
}

// CropRect crops to a rect in native pixel space. Full-frame rects add no
// filter.
func CropRect(r crops.Rect, native crops.Dimensions) Option {
	return Filter(crops.FilterFor(r, native))
}

// CropExport is the command a crop selection translates to: re-encode the
// video through the crop filter, copy audio.
func CropExport(input, output string, r crops.Rect, native crops.Dimensions) *Command {
	return NewCommand(input, output,
		CropRect(r, native),
		VideoCodec("libx264"),
		Preset("fast"),
		CRF(20),
		CopyAudio,
	)
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
