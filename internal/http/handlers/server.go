package handlers

import (
	"time"

	"tokomini/internal/fakestore"
	"tokomini/internal/repo"
	"tokomini/internal/session"
	"tokomini/internal/web"
)

var (
	catalog   *fakestore.Client
	cartRepo  repo.CartRepository
	orderRepo repo.OrderRepository
	renderer  *web.Renderer
	sessions  *session.Manager

	exchangeRate  = 15500.0
	paymentExpiry = time.Hour
)

func SetCatalog(c *fakestore.Client) {
	catalog = c
}

func SetCartRepo(r repo.CartRepository) {
	cartRepo = r
}

func SetOrderRepo(r repo.OrderRepository) {
	orderRepo = r
}

func SetRenderer(r *web.Renderer) {
	renderer = r
}

func SetSessionManager(m *session.Manager) {
	sessions = m
}

// SetStoreOptions configures the USD to IDR rate and how long a pending
// order stays payable.
func SetStoreOptions(rate float64, expiry time.Duration) {
	if rate > 0 {
		exchangeRate = rate
	}
	if expiry > 0 {
		paymentExpiry = expiry
	}
}
