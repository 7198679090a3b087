package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tokomini/internal/models"
	"tokomini/internal/payment"
	"tokomini/internal/repo"
	"tokomini/internal/session"
	"tokomini/internal/web"
)

// CheckoutHandler renders the checkout form with the order summary and
// available payment methods.
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	lines, totalUSD, err := cartLines(r)
	if err != nil {
		log.Error().Err(err).Msg("could not load cart for checkout")
		renderer.RenderError(w, http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		session.AddFlash(w, r, "warning", "Your cart is empty")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	totalIDR := payment.ConvertToIDR(totalUSD, exchangeRate)

	page := basePage(w, r, "Checkout")
	page.Data = CheckoutData{
		Items:        lines,
		TotalUSD:     totalUSD,
		TotalIDR:     totalIDR,
		Methods:      payment.Methods,
		CODAvailable: totalIDR <= payment.CODMaxAmountIDR,
		CODMaxIDR:    payment.CODMaxAmountIDR,
	}
	renderer.Render(w, http.StatusOK, "checkout.gohtml", page)
}

// CheckoutDetailsHandler validates the checkout form, snapshots the cart
// into a pending order and redirects to its payment page.
func CheckoutDetailsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		session.AddFlash(w, r, "error", "Error processing checkout")
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	customer := models.Customer{
		Name:    strings.TrimSpace(r.PostFormValue("customer_name")),
		Phone:   strings.TrimSpace(r.PostFormValue("customer_phone")),
		Email:   strings.TrimSpace(r.PostFormValue("customer_email")),
		Address: strings.TrimSpace(r.PostFormValue("shipping_address")),
	}
	methodKey := strings.TrimSpace(r.PostFormValue("payment_method"))

	if customer.Name == "" || customer.Phone == "" || customer.Address == "" || methodKey == "" {
		session.AddFlash(w, r, "error", "Please fill in all required fields")
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	method, ok := payment.MethodByKey(methodKey)
	if !ok {
		session.AddFlash(w, r, "error", "Please select a valid payment method")
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	lines, totalUSD, err := cartLines(r)
	if err != nil {
		log.Error().Err(err).Msg("could not load cart for checkout")
		renderer.RenderError(w, http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		session.AddFlash(w, r, "warning", "Your cart is empty")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	feeUSD := float64(method.FeeIDR) / exchangeRate
	totalWithFeeUSD := totalUSD + feeUSD
	totalWithFeeIDR := payment.ConvertToIDR(totalWithFeeUSD, exchangeRate)

	if method.MaxAmountIDR > 0 && totalWithFeeIDR > method.MaxAmountIDR {
		session.AddFlash(w, r, "error",
			method.Name+" maximum amount is "+web.FormatIDR(method.MaxAmountIDR))
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	items := make([]models.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = models.OrderItem{
			ProductID:   line.ProductID,
			Title:       line.Title,
			PriceUSD:    line.PriceUSD,
			Quantity:    line.Quantity,
			SubtotalUSD: line.SubtotalUSD,
		}
	}

	now := time.Now()
	order := models.Order{
		Number:          payment.NewOrderNumber(now),
		SessionID:       session.ID(r),
		Items:           items,
		Customer:        customer,
		PaymentMethod:   method.Key,
		TotalUSD:        totalUSD,
		TotalIDR:        payment.ConvertToIDR(totalUSD, exchangeRate),
		PaymentFeeIDR:   method.FeeIDR,
		TotalWithFeeUSD: totalWithFeeUSD,
		TotalWithFeeIDR: totalWithFeeIDR,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(paymentExpiry),
	}

	if _, err := orderRepo.Create(order); err != nil {
		log.Error().Err(err).Str("order", order.Number).Msg("could not create order")
		session.AddFlash(w, r, "error", "Error processing checkout")
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	log.Info().Str("order", order.Number).Str("method", method.Key).
		Int("total_idr", totalWithFeeIDR).Msg("order created")
	http.Redirect(w, r, "/payment/"+order.Number, http.StatusSeeOther)
}

// PaymentHandler renders the payment instructions for a pending order.
func PaymentHandler(w http.ResponseWriter, r *http.Request) {
	order, ok := sessionOrder(w, r)
	if !ok {
		return
	}

	if order.Expired(time.Now()) {
		session.AddFlash(w, r, "error", "Payment session expired")
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	method, _ := payment.MethodByKey(order.PaymentMethod)

	page := basePage(w, r, "Payment")
	page.Data = OrderPageData{Order: order, Method: method}
	renderer.Render(w, http.StatusOK, "payment.gohtml", page)
}

// CompletePaymentHandler simulates a successful payment: the order flips
// to paid, gets a transaction ID and the cart is emptied.
func CompletePaymentHandler(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "orderNo")

	order, err := orderRepo.GetByNumber(number)
	if err != nil || order.SessionID != session.ID(r) {
		writeJSON(w, http.StatusOK, CompletePaymentResult{Success: false, Message: "Order not found"})
		return
	}

	paid, err := orderRepo.SetPaid(number, payment.NewTransactionID(), time.Now())
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotPending) {
			writeJSON(w, http.StatusOK, CompletePaymentResult{Success: false, Message: "Order is not awaiting payment"})
			return
		}
		log.Error().Err(err).Str("order", number).Msg("could not complete payment")
		writeJSON(w, http.StatusOK, CompletePaymentResult{Success: false, Message: "Payment failed"})
		return
	}

	if err := cartRepo.Clear(session.ID(r)); err != nil {
		log.Warn().Err(err).Msg("could not clear cart after payment")
	}

	log.Info().Str("order", number).Str("transaction", paid.TransactionID).Msg("payment completed")
	writeJSON(w, http.StatusOK, CompletePaymentResult{
		Success:       true,
		Message:       "Payment completed successfully!",
		OrderID:       paid.Number,
		TransactionID: paid.TransactionID,
	})
}

// OrderStatusHandler renders the status page for one of the session's orders.
func OrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	order, ok := sessionOrder(w, r)
	if !ok {
		return
	}
	if order.Expired(time.Now()) {
		order.Status = models.OrderStatusExpired
	}

	method, _ := payment.MethodByKey(order.PaymentMethod)

	page := basePage(w, r, "Order "+order.Number)
	page.Data = OrderPageData{Order: order, Method: method}
	renderer.Render(w, http.StatusOK, "order_status.gohtml", page)
}

// PaymentHistoryHandler lists the session's orders, newest first.
func PaymentHistoryHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := orderRepo.ListBySession(session.ID(r))
	if err != nil {
		log.Error().Err(err).Msg("could not list orders")
		renderer.RenderError(w, http.StatusInternalServerError)
		return
	}

	// orders past their payment window show as expired, not pending
	now := time.Now()
	for i := range orders {
		if orders[i].Expired(now) {
			orders[i].Status = models.OrderStatusExpired
		}
	}

	page := basePage(w, r, "Order history")
	page.Data = HistoryData{Orders: orders}
	renderer.Render(w, http.StatusOK, "payment_history.gohtml", page)
}

// sessionOrder loads the order named in the URL and verifies it belongs to
// the current session; on failure it flashes and redirects home.
func sessionOrder(w http.ResponseWriter, r *http.Request) (models.Order, bool) {
	number := chi.URLParam(r, "orderNo")

	order, err := orderRepo.GetByNumber(number)
	if err != nil || order.SessionID != session.ID(r) {
		session.AddFlash(w, r, "error", "Order not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return models.Order{}, false
	}
	return order, true
}
