package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tokomini/internal/fakestore"
	"tokomini/internal/payment"
	"tokomini/internal/session"
)

// IndexHandler renders the catalog with optional search, category and
// price-sort query parameters.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	products, err := catalog.Products(r.Context())
	if err != nil {
		upstreamError(w, err)
		return
	}

	searchQuery := r.URL.Query().Get("search")
	if searchQuery != "" {
		var filtered []fakestore.Product
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Title), strings.ToLower(searchQuery)) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	category := r.URL.Query().Get("category")
	if category != "" {
		var filtered []fakestore.Product
		for _, p := range products {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	sortBy := r.URL.Query().Get("sort")
	switch sortBy {
	case "price_asc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price_desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	}

	page := basePage(w, r, "")
	page.SelectedCategory = category
	page.SearchQuery = searchQuery
	page.Data = CatalogData{Products: products, Sort: sortBy}
	renderer.Render(w, http.StatusOK, "index.gohtml", page)
}

// CategoryHandler renders the catalog subset for one category, in the
// order the upstream returns it.
func CategoryHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	products, err := catalog.ProductsByCategory(r.Context(), name)
	if err != nil {
		upstreamError(w, err)
		return
	}

	page := basePage(w, r, name)
	page.SelectedCategory = name
	page.Data = CatalogData{Products: products}
	renderer.Render(w, http.StatusOK, "index.gohtml", page)
}

// ProductDetailHandler renders the detail page for one product.
func ProductDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		renderer.RenderError(w, http.StatusNotFound)
		return
	}

	product, err := catalog.Product(r.Context(), id)
	if errors.Is(err, fakestore.ErrNotFound) {
		session.AddFlash(w, r, "error", "Product not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		upstreamError(w, err)
		return
	}

	page := basePage(w, r, product.Title)
	page.SelectedCategory = product.Category
	page.Data = DetailData{
		Product:  product,
		PriceIDR: payment.ConvertToIDR(product.Price, exchangeRate),
	}
	renderer.Render(w, http.StatusOK, "detail.gohtml", page)
}
