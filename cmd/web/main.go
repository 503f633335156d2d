package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"thirdcoast.systems/cropframe/cmd/web/auth"
	"thirdcoast.systems/cropframe/cmd/web/handlers/crop_api"
	"thirdcoast.systems/cropframe/cmd/web/internal/crophub"
	"thirdcoast.systems/cropframe/cmd/web/internal/web"
	"thirdcoast.systems/cropframe/internal/config"
	"thirdcoast.systems/cropframe/pkg/cropsession"
	"thirdcoast.systems/cropframe/pkg/ffmpeg"
	"thirdcoast.systems/cropframe/pkg/utils/markdown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting crop selector")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: conf.SlogLevel()})))

	page := crop_api.Page{
		Title:    "Crop",
		MediaURL: conf.MediaURL,
		Names:    conf.PresetNames(),
	}
	if conf.HelpMarkdown != "" {
		page.Help = markdown.NewMarkdown(conf.HelpMarkdown)
	}

	hubCfg := crophub.Config{
		Options:   conf.CropOptions(),
		IdleAfter: conf.SessionIdle,
		OnCropChange: func(code string, res cropsession.Result) {
			if res.Position.Video == nil {
				slog.Debug("crop changed", "code", code, "active", res.Active())
				return
			}
			slog.Debug("crop changed", "code", code, "ratio", res.AspectRatio.Label, "video", *res.Position.Video)
		},
	}

	if conf.MediaPath != "" {
		probe, err := ffmpeg.Probe(ctx, conf.MediaPath)
		if err != nil {
			// The browser still reports the native size once metadata loads.
			slog.Warn("failed to probe media", "path", conf.MediaPath, "error", err)
		} else {
			page.Media = probe
			hubCfg.Native = probe.Dimensions()
			slog.Info("probed media",
				"path", conf.MediaPath,
				"width", hubCfg.Native.Width,
				"height", hubCfg.Native.Height,
				"codec", probe.VideoCodec,
				"duration", probe.Duration,
			)
		}
		page.Title = filepath.Base(conf.MediaPath)
	} else if strings.HasPrefix(page.MediaURL, "/") {
		// Nothing is served locally.
		page.MediaURL = ""
	}

	hub, err := crophub.NewHub(hubCfg)
	if err != nil {
		slog.Error("failed to create crop hub", "error", err)
		os.Exit(1)
	}

	// Initialize session manager
	sessionMgr := auth.NewSessionManager(conf.SessionSecret)

	e, err := web.NewWebserver(hub, sessionMgr, web.Options{Page: page, MediaPath: conf.MediaPath})
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	if conf.SessionIdle > 0 {
		go e.RunJanitor(ctx, time.Minute)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
