package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "cropframe_session"
	CropCodeKey = "crop_code"
)

var (
	ErrNoCropSession = errors.New("no crop session")
)

// SessionManager remembers which crop session a browser owns so a reload
// reattaches to it instead of starting over.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string) *SessionManager {
	if secret == "" {
		secret = generateSecret()
	}
	return &SessionManager{
		store: sessions.NewCookieStore([]byte(secret)),
	}
}

func generateSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

func (sm *SessionManager) SaveCropCode(w http.ResponseWriter, r *http.Request, code string) error {
	session, _ := sm.store.Get(r, SessionName)
	session.Values[CropCodeKey] = code

	// Determine if we're on HTTPS
	isHTTPS := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isHTTPS,
	}

	return session.Save(r, w)
}

func (sm *SessionManager) GetCropCode(r *http.Request) (string, error) {
	session, err := sm.store.Get(r, SessionName)
	if err != nil {
		_, cookieErr := r.Cookie(SessionName)
		slog.Warn("failed to decode session", "error", err, "host", r.Host, "has_cookie", cookieErr == nil)
		return "", err
	}

	val, ok := session.Values[CropCodeKey]
	if !ok {
		return "", ErrNoCropSession
	}

	code, ok := val.(string)
	if !ok || code == "" {
		return "", ErrNoCropSession
	}

	return code, nil
}

func (sm *SessionManager) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, _ := sm.store.Get(r, SessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
