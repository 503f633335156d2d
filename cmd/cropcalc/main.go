// Command cropcalc computes a crop selection for a media file without a
// browser: it probes the file, selects an aspect ratio, optionally nudges
// the overlay, and prints the result with the matching ffmpeg command.
//
//	cropcalc [-player WxH] [-o output] <video> [ratio] [dx dy]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"thirdcoast.systems/cropframe/internal/config"
	"thirdcoast.systems/cropframe/pkg/cropsession"
	"thirdcoast.systems/cropframe/pkg/ffmpeg"
	"thirdcoast.systems/cropframe/pkg/utils/crops"
	"thirdcoast.systems/cropframe/pkg/utils/filename"
)

var errUsage = errors.New("usage: cropcalc [-player WxH] [-o output] <video> [ratio] [dx dy]")

// output is what cropcalc prints.
type output struct {
	Input   string             `json:"input"`
	Native  crops.Dimensions   `json:"native"`
	Player  crops.Dimensions   `json:"player"`
	Result  cropsession.Result `json:"result"`
	Filter  string             `json:"filter"`
	Command string             `json:"command"`
}

type prober func(ctx context.Context, path string) (crops.Dimensions, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: conf.SlogLevel()})))

	if err := run(ctx, os.Args[1:], os.Stdout, conf.CropOptions(), ffmpeg.ProbeDimensions); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		slog.Error("cropcalc failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, opts cropsession.Options, probe prober) error {
	fs := flag.NewFlagSet("cropcalc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	playerFlag := fs.String("player", "", "player size WxH the offsets are measured in (default: native size)")
	outFlag := fs.String("o", "", "output file for the ffmpeg command (default: <video>-crop-<ratio><ext>)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) != 1 && len(rest) != 2 && len(rest) != 4 {
		return errUsage
	}
	input := rest[0]

	var dx, dy float64
	if len(rest) == 4 {
		var err error
		if dx, err = strconv.ParseFloat(rest[2], 64); err != nil {
			return fmt.Errorf("%w: invalid dx %q", errUsage, rest[2])
		}
		if dy, err = strconv.ParseFloat(rest[3], 64); err != nil {
			return fmt.Errorf("%w: invalid dy %q", errUsage, rest[3])
		}
	}

	native, err := probe(ctx, input)
	if err != nil {
		return fmt.Errorf("probe %s: %w", input, err)
	}

	player := native
	if *playerFlag != "" {
		if player, err = parseSize(*playerFlag); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}

	var last cropsession.Result
	opts.OnCropChange = func(res cropsession.Result) { last = res }
	session, err := cropsession.New(opts)
	if err != nil {
		return err
	}

	label := session.DefaultLabel()
	if len(rest) >= 2 {
		label = rest[1]
	}
	if label == "" {
		label = session.Labels()[0]
	}

	session.Refresh(cropsession.StaticProvider{Container: player, Client: player, Native: native})
	if err := session.SelectRatio(label); err != nil {
		return err
	}
	if dx != 0 || dy != 0 {
		session.BeginDrag(crops.Point{})
		session.DragTo(crops.Point{X: dx, Y: dy})
		session.EndDrag()
	}
	slog.Info("crop computed", "input", input, "ratio", label, "native", native, "player", player)

	out := output{Input: input, Native: native, Player: player, Result: last}
	if video := last.Position.Video; video != nil {
		outPath := *outFlag
		if outPath == "" {
			outPath = filename.CropOutput(input, label)
		}
		out.Filter = crops.FilterFor(*video, native)
		out.Command = ffmpeg.CropExport(input, outPath, *video, native).String()
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func parseSize(s string) (crops.Dimensions, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return crops.Dimensions{}, fmt.Errorf("invalid size %q", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return crops.Dimensions{}, fmt.Errorf("invalid size %q", s)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return crops.Dimensions{}, fmt.Errorf("invalid size %q", s)
	}
	d := crops.Dimensions{Width: width, Height: height}
	if d.IsZero() {
		return crops.Dimensions{}, fmt.Errorf("invalid size %q", s)
	}
	return d, nil
}
