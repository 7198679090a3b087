package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"tokomini/internal/session"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Page is the envelope every template receives: shared navigation state
// plus a page-specific payload under Data.
type Page struct {
	Title            string
	Categories       []string
	SelectedCategory string
	SearchQuery      string
	CartCount        int
	Flashes          []session.Flash
	Data             any
}

// Renderer executes the embedded storefront templates. Templates are
// parsed once at startup so each request only pays for execution.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses all embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"idr": FormatIDR,
		"usd": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the named page template into a buffer first, so a
// template error still produces a clean 500 instead of a torn page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, page); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template execution failed")
		r.RenderError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError writes the dedicated error page for the given status code.
func (r *Renderer) RenderError(w http.ResponseWriter, status int) {
	name := "error500.gohtml"
	switch status {
	case http.StatusNotFound:
		name = "error404.gohtml"
	case http.StatusBadGateway:
		name = "error502.gohtml"
	}

	var buf bytes.Buffer
	page := Page{Title: fmt.Sprintf("%d %s", status, http.StatusText(status))}
	if err := r.templates.ExecuteTemplate(&buf, name, page); err != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// FormatIDR renders whole rupiah with dot thousand separators, e.g.
// 1234567 -> "Rp 1.234.567".
func FormatIDR(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	return "Rp " + sign + string(out)
}
