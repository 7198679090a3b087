package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"tokomini/internal/payment"
	"tokomini/internal/session"
	"tokomini/internal/web"
)

// CartCountHandler returns the number of items in the session cart.
func CartCountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := cartRepo.TotalItems(session.ID(r))
	if err != nil {
		log.Warn().Err(err).Msg("could not read cart count")
		writeJSON(w, http.StatusOK, CartCountResult{Success: false})
		return
	}
	writeJSON(w, http.StatusOK, CartCountResult{Success: true, Count: count})
}

// CODLimitHandler reports whether the current cart total is within the
// cash-on-delivery cap.
func CODLimitHandler(w http.ResponseWriter, r *http.Request) {
	lines, totalUSD, err := cartLines(r)
	if err != nil {
		log.Warn().Err(err).Msg("could not read cart for COD check")
		writeJSON(w, http.StatusOK, CODLimitResult{Available: false, Message: "Error checking COD limit"})
		return
	}
	if len(lines) == 0 {
		writeJSON(w, http.StatusOK, CODLimitResult{Available: false, Message: "Cart is empty"})
		return
	}

	totalIDR := payment.ConvertToIDR(totalUSD, exchangeRate)
	available := totalIDR <= payment.CODMaxAmountIDR

	message := "COD available"
	if !available {
		message = "COD maximum is " + web.FormatIDR(payment.CODMaxAmountIDR)
	}
	writeJSON(w, http.StatusOK, CODLimitResult{
		Available: available,
		Total:     totalIDR,
		Limit:     payment.CODMaxAmountIDR,
		Message:   message,
	})
}

// HealthHandler is the liveness endpoint.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResult{Status: "ok"})
}

// ResetSessionHandler mints a fresh session, abandoning the old cart and
// order history. Handy during development.
func ResetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessions.Reset(w)
	session.AddFlash(w, r, "info", "Session cleared")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
