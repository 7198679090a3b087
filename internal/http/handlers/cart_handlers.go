package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tokomini/internal/fakestore"
	"tokomini/internal/payment"
	"tokomini/internal/session"
)

// AddToCartHandler adds a product to the session cart and sends the
// browser back where it came from.
func AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		renderer.RenderError(w, http.StatusNotFound)
		return
	}

	quantity := 1
	if raw := r.PostFormValue("quantity"); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil || quantity < 1 {
			session.AddFlash(w, r, "error", "Invalid quantity")
			redirectBack(w, r)
			return
		}
	}

	// reject IDs the upstream does not know before they pollute the cart
	if _, err := catalog.Product(r.Context(), productID); err != nil {
		if errors.Is(err, fakestore.ErrNotFound) {
			session.AddFlash(w, r, "error", "Product not found")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		upstreamError(w, err)
		return
	}

	if err := cartRepo.Add(session.ID(r), productID, quantity); err != nil {
		log.Error().Err(err).Int("product_id", productID).Msg("could not add to cart")
		session.AddFlash(w, r, "error", "Error adding product to cart")
		redirectBack(w, r)
		return
	}

	session.AddFlash(w, r, "success", "Product added to cart")
	redirectBack(w, r)
}

// CartHandler renders the cart page with per-line and grand totals.
func CartHandler(w http.ResponseWriter, r *http.Request) {
	lines, totalUSD, err := cartLines(r)
	if err != nil {
		log.Error().Err(err).Msg("could not load cart")
		renderer.RenderError(w, http.StatusInternalServerError)
		return
	}

	page := basePage(w, r, "Cart")
	page.Data = CartData{
		Items:    lines,
		TotalUSD: totalUSD,
		TotalIDR: payment.ConvertToIDR(totalUSD, exchangeRate),
	}
	renderer.Render(w, http.StatusOK, "cart.gohtml", page)
}

// UpdateCartHandler applies quantity edits and removals from the cart form.
// The form carries one quantity_<id> field per line, plus an optional
// remove=<id> from the per-line delete buttons.
func UpdateCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		session.AddFlash(w, r, "error", "Error updating cart")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	sid := session.ID(r)

	if removeID, err := strconv.Atoi(r.PostFormValue("remove")); err == nil {
		if err := cartRepo.Remove(sid, removeID); err != nil {
			log.Error().Err(err).Int("product_id", removeID).Msg("could not remove cart line")
		} else {
			session.AddFlash(w, r, "info", "Item removed from cart")
		}
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	cart, err := cartRepo.Get(sid)
	if err != nil {
		log.Error().Err(err).Msg("could not load cart")
		session.AddFlash(w, r, "error", "Error updating cart")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	for field, values := range r.PostForm {
		if !strings.HasPrefix(field, "quantity_") || len(values) == 0 {
			continue
		}
		productID, err := strconv.Atoi(strings.TrimPrefix(field, "quantity_"))
		if err != nil {
			continue
		}
		// the form can only edit lines the cart already has
		if _, ok := cart[productID]; !ok {
			continue
		}
		quantity, err := strconv.Atoi(values[0])
		if err != nil {
			continue
		}
		if err := cartRepo.SetQuantity(sid, productID, quantity); err != nil {
			log.Error().Err(err).Int("product_id", productID).Msg("could not update cart line")
		}
	}

	session.AddFlash(w, r, "success", "Cart updated")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// ClearCartHandler empties the session cart.
func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := cartRepo.Clear(session.ID(r)); err != nil {
		log.Error().Err(err).Msg("could not clear cart")
		session.AddFlash(w, r, "error", "Error clearing cart")
	} else {
		session.AddFlash(w, r, "info", "Cart cleared")
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
