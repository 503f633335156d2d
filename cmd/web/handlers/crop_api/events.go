package crop_api

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/cropframe/cmd/web/handlers/common"
	"thirdcoast.systems/cropframe/cmd/web/internal/crophub"
	"thirdcoast.systems/cropframe/pkg/cropsession"
	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

// Event endpoints apply one host event to the session and answer 204. The
// resulting overlay and signals reach the page through the crop stream.

type ratioSignals struct {
	Ratio string `json:"_ratio"`
}

type pointerSignals struct {
	X float64 `json:"_pointerX"`
	Y float64 `json:"_pointerY"`
}

func (p pointerSignals) point() crops.Point {
	return crops.Point{X: p.X, Y: p.Y}
}

type layoutSignals struct {
	Layout *layoutSignal `json:"_layout"`
}

// layoutSignal is what crop.js measures on the player.
type layoutSignal struct {
	Container crops.Dimensions `json:"container"`
	Client    crops.Dimensions `json:"client"`
	Native    crops.Dimensions `json:"native"`
}

// signalProvider reports the browser's measurements. A server-side native
// size (probed media) wins over the reported one.
type signalProvider struct {
	layout layoutSignal
	native crops.Dimensions
}

func (p signalProvider) ContainerSize() crops.Dimensions { return p.layout.Container }
func (p signalProvider) ClientSize() crops.Dimensions    { return p.layout.Client }
func (p signalProvider) NativeSize() crops.Dimensions {
	if !p.native.IsZero() {
		return p.native
	}
	return p.layout.Native
}

// apply runs fn against the session named by the :code param.
func apply(c echo.Context, hub *crophub.Hub, fn func(s *cropsession.Session) error) error {
	code, err := common.RequireCodeParam(c, "code")
	if err != nil {
		return err
	}
	if _, err := hub.Do(code, time.Now(), fn); err != nil {
		return common.HubError(err)
	}
	return common.NoContent(c)
}

// HandleSelectRatio activates the ratio in the _ratio signal.
func HandleSelectRatio(hub *crophub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		signals := &ratioSignals{}
		if err := datastar.ReadSignals(c.Request(), signals); err != nil {
			slog.Warn("failed to read ratio signals", "error", err)
			return common.ErrBadRequest("invalid signals")
		}
		return apply(c, hub, func(s *cropsession.Session) error {
			return s.SelectRatio(signals.Ratio)
		})
	}
}

// HandleCancel deactivates cropping.
func HandleCancel(hub *crophub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		return apply(c, hub, func(s *cropsession.Session) error {
			s.Cancel()
			return nil
		})
	}
}

// HandleApplyDefault selects the configured default ratio once the player
// has settled.
func HandleApplyDefault(hub *crophub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		return apply(c, hub, func(s *cropsession.Session) error {
			return s.ApplyDefault()
		})
	}
}

// HandleLayout records new player measurements from the _layout signal.
func HandleLayout(hub *crophub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		signals := &layoutSignals{}
		if err := datastar.ReadSignals(c.Request(), signals); err != nil {
			slog.Warn("failed to read layout signals", "error", err)
			return common.ErrBadRequest("invalid signals")
		}
		if signals.Layout == nil {
			return common.ErrBadRequest("missing _layout")
		}
		p := signalProvider{layout: *signals.Layout, native: hub.Native()}
		return apply(c, hub, func(s *cropsession.Session) error {
			s.Refresh(p)
			return nil
		})
	}
}

func readPointer(c echo.Context) (pointerSignals, error) {
	signals := pointerSignals{}
	if err := datastar.ReadSignals(c.Request(), &signals); err != nil {
		slog.Warn("failed to read pointer signals", "error", err)
		return signals, common.ErrBadRequest("invalid signals")
	}
	return signals, nil
}

// HandlePointerDown starts a drag on the overlay.
func HandlePointerDown(hub *crophub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := readPointer(c)
		if err != nil {
			return err
		}
		return apply(c, hub, func(s *cropsession.Session) error {
			s.BeginDrag(p.point())
			return nil
		})
	}
}

// HandlePointerMove moves the overlay while dragging.
func HandlePointerMove(hub *crophub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := readPointer(c)
		if err != nil {
			return err
		}
		return apply(c, hub, func(s *cropsession.Session) error {
			s.DragTo(p.point())
			return nil
		})
	}
}

// HandlePointerUp ends a drag.
func HandlePointerUp(hub *crophub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		return apply(c, hub, func(s *cropsession.Session) error {
			s.EndDrag()
			return nil
		})
	}
}
