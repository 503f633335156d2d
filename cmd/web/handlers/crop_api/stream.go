package crop_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/cropframe/cmd/web/handlers/common"
	"thirdcoast.systems/cropframe/cmd/web/internal/crophub"
	"thirdcoast.systems/cropframe/cmd/web/templates"
	"thirdcoast.systems/cropframe/pkg/ffmpeg"
)

// HandleCropStream returns an SSE handler that patches the overlay, the
// ratio buttons, the readout and the crop signal after every change to the
// session. The stream ends when the session is removed.
func HandleCropStream(hub *crophub.Hub, names map[string]string, media *ffmpeg.ProbeResult) echo.HandlerFunc {
	return func(c echo.Context) error {
		code, err := common.RequireCodeParam(c, "code")
		if err != nil {
			return err
		}

		viewCh, unsubscribe, err := hub.Subscribe(code)
		if err != nil {
			return common.HubError(err)
		}
		defer unsubscribe()

		current, err := hub.View(code)
		if err != nil {
			return common.HubError(err)
		}

		resp := c.Response()
		flusher, ok := resp.Writer.(http.Flusher)
		if !ok {
			return common.ErrInternal("streaming unsupported")
		}

		common.SetSSEHeaders(c)

		sse := datastar.NewSSE(resp, c.Request())

		patchView(sse, current, names, media)
		flusher.Flush()

		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-c.Request().Context().Done():
				return nil
			case v, ok := <-viewCh:
				if !ok {
					return nil
				}
				patchView(sse, v, names, media)
				flusher.Flush()
			case <-ticker.C:
				_, _ = fmt.Fprintf(resp, ": keepalive\n\n")
				flusher.Flush()
			}
		}
	}
}

// cropSignals is the client-visible state. crop mirrors the last crop
// result; _dragging gates the window-level pointer handlers.
type cropSignals struct {
	Crop     any  `json:"crop"`
	Dragging bool `json:"_dragging"`
}

func patchView(sse *datastar.ServerSentEventGenerator, v crophub.View, names map[string]string, media *ffmpeg.ProbeResult) {
	_ = sse.PatchElementTempl(templates.CropOverlay(v.Code, v), datastar.WithSelectorID(templates.OverlayID), datastar.WithModeReplace())
	_ = sse.PatchElementTempl(templates.CropControls(v.Code, v, names), datastar.WithSelectorID(templates.ControlsID), datastar.WithModeReplace())
	_ = sse.PatchElementTempl(templates.CropReadout(v, media), datastar.WithSelectorID(templates.ReadoutID), datastar.WithModeReplace())

	signals := cropSignals{Dragging: v.Dragging}
	if v.Result.Active() {
		signals.Crop = v.Result
	}
	signalsJSON, _ := json.Marshal(signals)
	_ = sse.PatchSignals(signalsJSON)
}
