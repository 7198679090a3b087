package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/rs/zerolog/log"

	"tokomini/internal/fakestore"
	"tokomini/internal/models"
	"tokomini/internal/payment"
	"tokomini/internal/session"
	"tokomini/internal/web"
)

// fallbackCategories keeps the navigation usable when the categories call
// fails, mirroring the upstream's known labels.
var fallbackCategories = []string{"electronics", "jewelery", "men's clothing", "women's clothing"}

// basePage assembles the navigation state every template needs. A failed
// categories call degrades to the fallback list rather than an error page.
func basePage(w http.ResponseWriter, r *http.Request, title string) web.Page {
	categories, err := catalog.Categories(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("falling back to static category list")
		categories = fallbackCategories
	}

	count, err := cartRepo.TotalItems(session.ID(r))
	if err != nil {
		log.Warn().Err(err).Msg("could not read cart count")
		count = 0
	}

	return web.Page{
		Title:      title,
		Categories: categories,
		CartCount:  count,
		Flashes:    session.PopFlashes(w, r),
	}
}

// cartLines resolves the session cart against the upstream catalog. Lines
// that no longer resolve upstream are skipped rather than failing the page.
func cartLines(r *http.Request) ([]models.CartLine, float64, error) {
	cart, err := cartRepo.Get(session.ID(r))
	if err != nil {
		return nil, 0, err
	}

	var (
		lines    []models.CartLine
		totalUSD float64
	)
	for productID, quantity := range cart {
		product, err := catalog.Product(r.Context(), productID)
		if err != nil {
			log.Warn().Err(err).Int("product_id", productID).Msg("skipping unresolvable cart line")
			continue
		}

		subtotal := product.Price * float64(quantity)
		totalUSD += subtotal
		lines = append(lines, models.CartLine{
			ProductID:   product.ID,
			Title:       product.Title,
			PriceUSD:    product.Price,
			PriceIDR:    payment.ConvertToIDR(product.Price, exchangeRate),
			Image:       product.Image,
			Quantity:    quantity,
			SubtotalUSD: subtotal,
			SubtotalIDR: payment.ConvertToIDR(subtotal, exchangeRate),
		})
	}
	// map iteration order is random; keep the page stable
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, totalUSD, nil
}

// upstreamError renders the page-level response for a failed upstream call.
func upstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, fakestore.ErrUnavailable) || errors.Is(err, fakestore.ErrBadPayload) {
		renderer.RenderError(w, http.StatusBadGateway)
		return
	}
	renderer.RenderError(w, http.StatusInternalServerError)
}

// redirectBack sends the browser to the page it came from, or the catalog.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}
	return nil
}

// NotFoundHandler renders the storefront 404 page.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	renderer.RenderError(w, http.StatusNotFound)
}

// InternalErrorHandler renders the storefront 500 page. The panic recovery
// middleware routes here.
func InternalErrorHandler(w http.ResponseWriter, r *http.Request) {
	renderer.RenderError(w, http.StatusInternalServerError)
}
