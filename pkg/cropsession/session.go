// Package cropsession implements the crop selector state machine: which
// aspect ratio is active, where the overlay sits inside the player, and how
// that maps onto the media's native pixels.
//
// A Session is not safe for concurrent use. Hosts that receive events on
// several goroutines must serialize calls (see the web crop hub).
package cropsession

import (
	"fmt"
	"slices"

	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

// State is the controller state.
type State int

const (
	StateInactive State = iota
	StateActive
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	default:
		return "inactive"
	}
}

// Session is one crop selection attached to one player.
type Session struct {
	opts Options

	ratio *crops.AspectRatio
	rect  crops.Rect

	container crops.Dimensions
	native    crops.Dimensions

	dragging bool
	anchor   crops.Point
}

// New validates opts and returns an Inactive session.
func New(opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Session{opts: opts.withDefaults()}, nil
}

func (s *Session) State() State {
	if s.ratio == nil {
		return StateInactive
	}
	return StateActive
}

func (s *Session) Dragging() bool {
	return s.dragging
}

// AspectRatio returns the active ratio, or nil when Inactive.
func (s *Session) AspectRatio() *crops.AspectRatio {
	if s.ratio == nil {
		return nil
	}
	ar := *s.ratio
	return &ar
}

// ActiveLabel is the label of the active ratio, "" when Inactive.
func (s *Session) ActiveLabel() string {
	if s.ratio == nil {
		return ""
	}
	return s.ratio.Label
}

// Labels returns the configured ratio labels in button order.
func (s *Session) Labels() []string {
	return slices.Clone(s.opts.AspectRatios)
}

// DefaultLabel returns the configured default ratio label.
func (s *Session) DefaultLabel() string {
	return s.opts.DefaultAspectRatio
}

// Container returns the last known container dimensions.
func (s *Session) Container() crops.Dimensions {
	return s.container
}

// Native returns the last known native media dimensions.
func (s *Session) Native() crops.Dimensions {
	return s.native
}

// Overlay returns the overlay rect in container space and whether it should
// be displayed. The overlay is hidden while Inactive or while the container
// has no layout.
func (s *Session) Overlay() (crops.Rect, bool) {
	if !s.visible() {
		return crops.Rect{}, false
	}
	return s.rect, true
}

func (s *Session) visible() bool {
	return s.ratio != nil && !s.container.IsZero() && !s.rect.Empty()
}

// SelectRatio activates the ratio named by label and refits the overlay.
// An unparsable label returns crops.ErrInvalidRatioLabel and leaves the
// session untouched.
func (s *Session) SelectRatio(label string) error {
	ar, err := crops.ParseAspectRatio(label)
	if err != nil {
		return fmt.Errorf("select ratio: %w", err)
	}

	s.ratio = &ar
	s.dragging = false
	s.rect = crops.FitRect(s.container, ar.Value)
	s.emit()
	return nil
}

// ApplyDefault selects the configured default ratio. Hosts call it once the
// player layout has settled. It does nothing when no default is configured
// or a ratio is already active.
func (s *Session) ApplyDefault() error {
	if s.opts.DefaultAspectRatio == "" || s.ratio != nil {
		return nil
	}
	return s.SelectRatio(s.opts.DefaultAspectRatio)
}

// Cancel deactivates cropping and reports an empty Result.
func (s *Session) Cancel() {
	s.ratio = nil
	s.rect = crops.Rect{}
	s.dragging = false
	s.emit()
}

// OnLayoutChanged records new container and native dimensions.
//
// While Active the overlay is refit and a Result is emitted, unless the
// container has no layout, in which case the overlay is hidden silently
// until a later non-zero layout. A resize during a drag keeps the dragged
// position and re-clamps it into the new container.
func (s *Session) OnLayoutChanged(container, native crops.Dimensions) {
	s.container = container
	s.native = native

	if s.ratio == nil {
		return
	}
	if container.IsZero() {
		s.rect = crops.Rect{}
		return
	}

	fit := crops.FitRect(container, s.ratio.Value)
	if s.dragging && !s.rect.Empty() {
		fit.X, fit.Y = s.rect.X, s.rect.Y
		fit = crops.Clamp(fit, container)
	}
	s.rect = fit
	s.emit()
}

// Refresh re-reads the host dimensions. A container that reports zero on
// either side falls back to the raw client box.
func (s *Session) Refresh(p DimensionProvider) {
	container := p.ContainerSize()
	if container.IsZero() {
		container = p.ClientSize()
	}
	s.OnLayoutChanged(container, p.NativeSize())
}

// BeginDrag starts a drag at pointer. It only applies while the overlay is
// visible and reports whether the drag started.
func (s *Session) BeginDrag(pointer crops.Point) bool {
	if !s.visible() {
		return false
	}
	s.dragging = true
	s.anchor = pointer
	return true
}

// DragTo moves the overlay by the pointer delta since the last event and
// reports whether a Result was emitted. Repeating the same pointer is a
// zero move.
func (s *Session) DragTo(pointer crops.Point) bool {
	if !s.dragging || !s.visible() {
		return false
	}

	dx := pointer.X - s.anchor.X
	dy := pointer.Y - s.anchor.Y
	s.rect = crops.ClampTranslate(s.rect, dx, dy, s.container)
	s.anchor = pointer
	s.emit()
	return true
}

// EndDrag stops dragging. Safe to call at any time.
func (s *Session) EndDrag() {
	s.dragging = false
}

// Result builds the value reported to OnCropChange for the current state.
func (s *Session) Result() Result {
	if s.ratio == nil {
		return Result{}
	}

	ar := *s.ratio
	res := Result{AspectRatio: &ar}
	if !s.visible() {
		return res
	}

	player := s.rect.Round()
	res.Position.Player = &player
	if native, err := crops.ToNativeSpace(s.rect, s.container, s.native); err == nil {
		native = native.Round()
		res.Position.Video = &native
	}
	return res
}

// emit delivers the current Result. A panic in the callback propagates to
// the caller of the operation that triggered it.
func (s *Session) emit() {
	if s.opts.OnCropChange == nil {
		return
	}
	s.opts.OnCropChange(s.Result())
}
