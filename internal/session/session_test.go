package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func sessionID(t *testing.T, m *Manager, cookies []*http.Cookie) string {
	t.Helper()

	var got string
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func mintedCookie(t *testing.T, m *Manager) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("middleware did not set a session cookie")
	return nil
}

func TestMiddlewareMintsSession(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	if sid := sessionID(t, m, nil); sid == "" {
		t.Error("expected a session ID for a cookieless request")
	}
	mintedCookie(t, m)
}

func TestMiddlewareKeepsExistingSession(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	cookie := mintedCookie(t, m)

	first := sessionID(t, m, []*http.Cookie{cookie})
	second := sessionID(t, m, []*http.Cookie{cookie})
	if first == "" || first != second {
		t.Errorf("expected a stable session ID, got %q then %q", first, second)
	}
}

func TestMiddlewareRejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	cookie := mintedCookie(t, m)
	original := sessionID(t, m, []*http.Cookie{cookie})

	tampered := &http.Cookie{Name: CookieName, Value: cookie.Value + "x"}
	if sid := sessionID(t, m, []*http.Cookie{tampered}); sid == "" || sid == original {
		t.Errorf("tampered cookie must mint a fresh session, got %q", sid)
	}
}

func TestMiddlewareRejectsForeignSecret(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	foreign := mintedCookie(t, NewManager("other-secret", time.Hour))
	original := sessionID(t, NewManager("other-secret", time.Hour), []*http.Cookie{foreign})

	if sid := sessionID(t, m, []*http.Cookie{foreign}); sid == "" || sid == original {
		t.Errorf("token signed with another secret must mint a fresh session, got %q", sid)
	}
}

func TestReset(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	rec := httptest.NewRecorder()
	sid := m.Reset(rec)
	if sid == "" {
		t.Fatal("expected a fresh session ID")
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("reset did not set a session cookie")
	}
	if got := sessionID(t, m, []*http.Cookie{cookie}); got != sid {
		t.Errorf("cookie resolves to %q, want %q", got, sid)
	}
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	AddFlash(rec, req, "success", "Item added to cart")

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == FlashCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("AddFlash did not set the flash cookie")
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	rec = httptest.NewRecorder()

	flashes := PopFlashes(rec, next)
	if len(flashes) != 1 || flashes[0].Level != "success" || flashes[0].Message != "Item added to cart" {
		t.Fatalf("unexpected flashes: %+v", flashes)
	}

	// pop must expire the cookie
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == FlashCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("PopFlashes did not clear the flash cookie")
	}
}

func TestFlashAccumulates(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	AddFlash(rec, req, "success", "first")

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == FlashCookieName {
			cookie = c
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	AddFlash(rec, req, "warning", "second")

	for _, c := range rec.Result().Cookies() {
		if c.Name == FlashCookieName {
			cookie = c
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	flashes := PopFlashes(httptest.NewRecorder(), req)
	if len(flashes) != 2 || flashes[0].Message != "first" || flashes[1].Message != "second" {
		t.Fatalf("unexpected flashes: %+v", flashes)
	}
}

func TestPopFlashesEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if flashes := PopFlashes(httptest.NewRecorder(), req); flashes != nil {
		t.Errorf("expected no flashes, got %+v", flashes)
	}
}
