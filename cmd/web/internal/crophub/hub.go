package crophub

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"thirdcoast.systems/cropframe/pkg/cropsession"
	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

const (
	// Hard caps to keep the web process responsive even if someone opens
	// a silly number of tabs.
	maxSessions          = 500
	maxStreamsPerSession = 5

	viewBuffer = 8
)

var (
	ErrSessionNotFound = errors.New("crop session not found")
	ErrTooManySessions = errors.New("too many crop sessions")
	ErrTooManyStreams  = errors.New("too many open crop streams")
)

// View is the render state of one session after a change.
type View struct {
	Code        string
	Labels      []string
	ActiveLabel string
	Overlay     crops.Rect
	Visible     bool
	Dragging    bool
	Result      cropsession.Result
	// Filter is the ffmpeg crop filter for the native-space rect, if known.
	Filter string
}

// Config configures a Hub.
type Config struct {
	// Options is the template for every new session.
	Options cropsession.Options
	// Native overrides the media size reported by the browser when the
	// server already knows it (probed media).
	Native crops.Dimensions
	// IdleAfter is how long a session without streams may stay untouched
	// before PruneIdle removes it. Zero disables pruning.
	IdleAfter time.Duration
	// OnCropChange is the embedding application's callback. It runs while
	// the session is locked and must not block.
	OnCropChange func(code string, res cropsession.Result)
}

// Hub owns the crop sessions of all connected players and serializes the
// events delivered to each one.
type Hub struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	code string

	// mu serializes every call into session; subs and lastSeen are also
	// guarded by it so views are broadcast in the order they were produced.
	mu       sync.Mutex
	session  *cropsession.Session
	closed   bool
	lastSeen time.Time
	subs     map[chan View]struct{}
}

// NewHub creates a new crop hub. Options are validated up front so session
// creation cannot fail on configuration.
func NewHub(cfg Config) (*Hub, error) {
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	return &Hub{
		cfg:      cfg,
		sessions: make(map[string]*entry),
	}, nil
}

// Native returns the server-side media size override, if any.
func (h *Hub) Native() crops.Dimensions {
	return h.cfg.Native
}

// Create starts a new Inactive session and returns its code.
func (h *Hub) Create(now time.Time) (string, error) {
	code := uuid.NewString()
	e := &entry{
		code:     code,
		lastSeen: now,
		subs:     make(map[chan View]struct{}),
	}

	opts := h.cfg.Options
	if h.cfg.OnCropChange != nil {
		opts.OnCropChange = func(res cropsession.Result) {
			h.cfg.OnCropChange(code, res)
		}
	}
	s, err := cropsession.New(opts)
	if err != nil {
		return "", err
	}
	e.session = s

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.sessions) >= maxSessions {
		return "", ErrTooManySessions
	}
	h.sessions[code] = e
	return code, nil
}

// Exists reports whether code names a live session.
func (h *Hub) Exists(code string) bool {
	_, ok := h.get(code)
	return ok
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) get(code string) (*entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.sessions[code]
	return e, ok
}

// Do runs fn against the session while holding its lock, then broadcasts
// the resulting view to every stream. When fn fails nothing is broadcast.
func (h *Hub) Do(code string, now time.Time, fn func(s *cropsession.Session) error) (View, error) {
	e, ok := h.get(code)
	if !ok {
		return View{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return View{}, ErrSessionNotFound
	}

	e.lastSeen = now
	if err := fn(e.session); err != nil {
		return View{}, err
	}

	v := e.view()
	e.broadcast(v)
	return v, nil
}

// View returns the current view without changing anything.
func (h *Hub) View(code string) (View, error) {
	e, ok := h.get(code)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return View{}, ErrSessionNotFound
	}
	return e.view(), nil
}

// Subscribe registers a stream for a session. The channel receives the
// latest view after every change and is closed when the session is removed.
func (h *Hub) Subscribe(code string) (<-chan View, func(), error) {
	e, ok := h.get(code)
	if !ok {
		return nil, nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, nil, ErrSessionNotFound
	}
	if len(e.subs) >= maxStreamsPerSession {
		return nil, nil, ErrTooManyStreams
	}

	ch := make(chan View, viewBuffer)
	e.subs[ch] = struct{}{}

	unsubscribe := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subs[ch]; ok {
			delete(e.subs, ch)
			close(ch)
		}
	}
	return ch, unsubscribe, nil
}

// Remove tears a session down and closes its streams.
func (h *Hub) Remove(code string) bool {
	h.mu.Lock()
	e, ok := h.sessions[code]
	delete(h.sessions, code)
	h.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.close()
	return true
}

// PruneIdle removes sessions with no open stream that have not seen an
// event for IdleAfter. It returns the number removed.
func (h *Hub) PruneIdle(now time.Time) int {
	if h.cfg.IdleAfter <= 0 {
		return 0
	}

	// Both locks are held from the idle check to the close so a stream
	// cannot attach to a session that is about to go away.
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for code, e := range h.sessions {
		e.mu.Lock()
		if len(e.subs) == 0 && now.Sub(e.lastSeen) >= h.cfg.IdleAfter {
			delete(h.sessions, code)
			e.close()
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// close marks the entry dead and closes its streams. e.mu must be held.
func (e *entry) close() {
	e.closed = true
	for ch := range e.subs {
		delete(e.subs, ch)
		close(ch)
	}
}

func (e *entry) view() View {
	s := e.session
	rect, visible := s.Overlay()
	v := View{
		Code:        e.code,
		Labels:      s.Labels(),
		ActiveLabel: s.ActiveLabel(),
		Overlay:     rect,
		Visible:     visible,
		Dragging:    s.Dragging(),
		Result:      s.Result(),
	}
	if video := v.Result.Position.Video; video != nil {
		v.Filter = crops.FilterFor(*video, s.Native())
	}
	return v
}

// broadcast delivers v to every stream. A stream that has fallen behind
// loses its oldest queued view; the newest one always lands.
func (e *entry) broadcast(v View) {
	for ch := range e.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}
