package web

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"thirdcoast.systems/cropframe/cmd/web/auth"
	"thirdcoast.systems/cropframe/cmd/web/handlers/crop_api"
	"thirdcoast.systems/cropframe/cmd/web/internal/crophub"
	staticpkg "thirdcoast.systems/cropframe/cmd/web/internal/web/utils/static"
)

// Options configures the web server.
type Options struct {
	Page crop_api.Page
	// MediaPath is served at Page.MediaURL when set.
	MediaPath string
}

type Webserver struct {
	*echo.Echo
	sessionManager *auth.SessionManager
	staticCache    *staticpkg.StaticCache
	cropHub        *crophub.Hub
	opts           Options
}

func NewWebserver(hub *crophub.Hub, sessionManager *auth.SessionManager, opts Options) (*Webserver, error) {
	e := echo.New()

	// Initialize static cache
	staticCache, err := staticpkg.NewStaticCache()
	if err != nil {
		return nil, err
	}

	webserver := &Webserver{
		Echo:           e,
		sessionManager: sessionManager,
		staticCache:    staticCache,
		cropHub:        hub,
		opts:           opts,
	}

	if err = webserver.registerRoutes(); err != nil {
		return nil, err
	}

	if err = webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	return webserver, nil
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("64K"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Range requests for the player must reach the file server untouched.
			return s.opts.Page.MediaURL != "" && c.Path() == s.opts.Page.MediaURL
		},
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/crop/:code/stream",
				"/crop/:code/pointer/move":
				return true
			default:
				return false
			}
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))

	return nil
}

func (s *Webserver) registerRoutes() error {
	cropGroup := s.Group("/crop/:code")
	cropGroup.GET("/stream", crop_api.HandleCropStream(s.cropHub, s.opts.Page.Names, s.opts.Page.Media))
	cropGroup.POST("/ratio", crop_api.HandleSelectRatio(s.cropHub))
	cropGroup.POST("/cancel", crop_api.HandleCancel(s.cropHub))
	cropGroup.POST("/default", crop_api.HandleApplyDefault(s.cropHub))
	cropGroup.POST("/layout", crop_api.HandleLayout(s.cropHub))
	cropGroup.POST("/pointer/down", crop_api.HandlePointerDown(s.cropHub))
	cropGroup.POST("/pointer/move", crop_api.HandlePointerMove(s.cropHub))
	cropGroup.POST("/pointer/up", crop_api.HandlePointerUp(s.cropHub))
	cropGroup.DELETE("", crop_api.HandleDeleteSession(s.sessionManager, s.cropHub))

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	// Static file serving
	s.GET("/static/*", s.staticCache.ServeStaticFile("/static/"))

	// Media shown in the player. c.File handles Range requests.
	if s.opts.MediaPath != "" && s.opts.Page.MediaURL != "" {
		mediaPath := s.opts.MediaPath
		s.GET(s.opts.Page.MediaURL, func(c echo.Context) error {
			return c.File(mediaPath)
		})
	}

	s.GET("/", crop_api.HandleCropPage(s.sessionManager, s.cropHub, s.opts.Page))

	return nil
}

// RunJanitor removes idle crop sessions every interval until ctx is done.
func (s *Webserver) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.cropHub.PruneIdle(now); n > 0 {
				slog.Info("pruned idle crop sessions", "removed", n, "remaining", s.cropHub.Len())
			}
		}
	}
}
