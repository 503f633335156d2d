package crop_api

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/cropframe/cmd/web/auth"
	"thirdcoast.systems/cropframe/cmd/web/handlers/common"
	"thirdcoast.systems/cropframe/cmd/web/internal/crophub"
	"thirdcoast.systems/cropframe/cmd/web/templates"
	"thirdcoast.systems/cropframe/pkg/ffmpeg"
	"thirdcoast.systems/cropframe/pkg/utils/markdown"
)

// Page holds the static parts of the crop page.
type Page struct {
	Title    string
	MediaURL string
	// Names maps ratio labels to preset display names.
	Names map[string]string
	Help  *markdown.Markdown
	// Media is the probed media, nil when nothing was probed.
	Media *ffmpeg.ProbeResult
}

// HandleCropPage renders the crop selector. The browser's crop session is
// remembered in the session cookie; a missing or expired one is replaced
// with a fresh Inactive session.
func HandleCropPage(sm *auth.SessionManager, hub *crophub.Hub, page Page) echo.HandlerFunc {
	return func(c echo.Context) error {
		code, err := sm.GetCropCode(c.Request())
		if err != nil || !hub.Exists(code) {
			code, err = hub.Create(time.Now())
			if err != nil {
				return common.HubError(err)
			}
			if err := sm.SaveCropCode(c.Response().Writer, c.Request(), code); err != nil {
				slog.Error("failed to save crop session cookie", "error", err)
				return common.ErrInternal("failed to save session")
			}
			slog.Info("crop session created", "code", code, "sessions", hub.Len())
		}

		v, err := hub.View(code)
		if err != nil {
			return common.HubError(err)
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		return templates.CropPage(templates.PageData{
			Code:     code,
			Title:    page.Title,
			MediaURL: page.MediaURL,
			Names:    page.Names,
			Help:     page.Help,
			Media:    page.Media,
			View:     v,
		}).Render(c.Request().Context(), c.Response())
	}
}

// HandleDeleteSession tears a crop session down and closes its streams.
func HandleDeleteSession(sm *auth.SessionManager, hub *crophub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		code, err := common.RequireCodeParam(c, "code")
		if err != nil {
			return err
		}

		if !hub.Remove(code) {
			return common.ErrNotFound("crop session not found")
		}
		slog.Info("crop session removed", "code", code)

		if owned, err := sm.GetCropCode(c.Request()); err == nil && owned == code {
			if err := sm.ClearSession(c.Response().Writer, c.Request()); err != nil {
				slog.Warn("failed to clear crop session cookie", "error", err)
			}
		}
		return common.NoContent(c)
	}
}
