package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName carries the signed session token.
	CookieName = "tokomini_session"
	// FlashCookieName carries one-shot flash messages between redirects.
	FlashCookieName = "tokomini_flash"
)

type contextKey string

const sessionIDKey = contextKey("session_id")

// Manager mints and verifies session cookies. Sessions carry nothing but a
// generated ID; all state lives in the cart and order repositories.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager signing tokens with the given secret.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Middleware ensures every request carries a valid session ID, minting a
// new session when the cookie is absent, expired or tampered with.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, ok := m.sessionFromCookie(r)
		if !ok {
			sid = uuid.NewString()
			m.setCookie(w, sid)
		}
		ctx := context.WithValue(r.Context(), sessionIDKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ID returns the session ID for the request, or "" outside the middleware.
func ID(r *http.Request) string {
	if sid, ok := r.Context().Value(sessionIDKey).(string); ok {
		return sid
	}
	return ""
}

// Reset issues a fresh session, abandoning the old cart and order history.
func (m *Manager) Reset(w http.ResponseWriter) string {
	sid := uuid.NewString()
	m.setCookie(w, sid)
	return sid
}

func (m *Manager) sessionFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", false
	}
	return sid, true
}

func (m *Manager) setCookie(w http.ResponseWriter, sid string) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash is a one-shot notification rendered on the next page view.
type Flash struct {
	Level   string `json:"level"` // success, error, info, warning
	Message string `json:"message"`
}

// AddFlash appends a flash message to the flash cookie.
func AddFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	flashes := readFlashes(r)
	flashes = append(flashes, Flash{Level: level, Message: message})

	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns pending flash messages and clears the cookie.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) == 0 {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}
