package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tokomini/internal/http/handlers"
	"tokomini/internal/session"
)

// NewRouter wires every storefront route behind the shared middleware
// stack. The session middleware runs on all routes so even the JSON
// helpers see the same cart.
func NewRouter(sessions *session.Manager) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger)
	r.Use(Recoverer)
	r.Use(RateLimitMiddleware)
	r.Use(sessions.Middleware)

	r.Get("/", handlers.IndexHandler)
	r.Get("/category/{name}", handlers.CategoryHandler)
	r.Get("/product/{id}", handlers.ProductDetailHandler)

	r.Post("/add_to_cart/{id}", handlers.AddToCartHandler)
	r.Get("/cart", handlers.CartHandler)
	r.Post("/update_cart", handlers.UpdateCartHandler)
	r.Post("/clear_cart", handlers.ClearCartHandler)

	r.Get("/checkout", handlers.CheckoutHandler)
	r.Post("/checkout_details", handlers.CheckoutDetailsHandler)
	r.Get("/payment/{orderNo}", handlers.PaymentHandler)
	r.Post("/complete_payment/{orderNo}", handlers.CompletePaymentHandler)
	r.Get("/order_status/{orderNo}", handlers.OrderStatusHandler)
	r.Get("/payment_history", handlers.PaymentHistoryHandler)

	r.Get("/reset_session", handlers.ResetSessionHandler)
	r.Get("/healthz", handlers.HealthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/get_cart_count", handlers.CartCountHandler)
		r.Get("/check_cod_limit", handlers.CODLimitHandler)
	})

	r.NotFound(handlers.NotFoundHandler)

	return r
}
