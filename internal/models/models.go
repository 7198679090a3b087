package models

import "time"

// CartLine is a rendered cart row: the upstream product joined with the
// session quantity and derived totals.
type CartLine struct {
	ProductID   int     `json:"id"`
	Title       string  `json:"title"`
	PriceUSD    float64 `json:"price_usd"`
	PriceIDR    int     `json:"price_idr"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
	SubtotalUSD float64 `json:"subtotal_usd"`
	SubtotalIDR int     `json:"subtotal_idr"`
}

// Customer holds the checkout contact details for one order.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
}

// OrderItem is a snapshot of one cart line at checkout time. Orders never
// re-fetch product data, so later upstream changes do not rewrite history.
type OrderItem struct {
	ProductID   int     `json:"product_id"`
	Title       string  `json:"title"`
	PriceUSD    float64 `json:"price_usd"`
	Quantity    int     `json:"quantity"`
	SubtotalUSD float64 `json:"subtotal_usd"`
}

// Order statuses.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusExpired = "expired"
)

// Order is a checkout result awaiting (or past) payment.
type Order struct {
	Number          string      `json:"order_id"`
	SessionID       string      `json:"-"`
	Items           []OrderItem `json:"items"`
	Customer        Customer    `json:"customer"`
	PaymentMethod   string      `json:"payment_method"`
	TotalUSD        float64     `json:"total_usd"`
	TotalIDR        int         `json:"total_idr"`
	PaymentFeeIDR   int         `json:"payment_fee_idr"`
	TotalWithFeeUSD float64     `json:"total_with_fee_usd"`
	TotalWithFeeIDR int         `json:"total_with_fee_idr"`
	Status          string      `json:"status"`
	TransactionID   string      `json:"transaction_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	ExpiresAt       time.Time   `json:"expires_at"`
	PaidAt          *time.Time  `json:"paid_at,omitempty"`
}

// Expired reports whether the payment window has closed.
func (o Order) Expired(now time.Time) bool {
	return o.Status == OrderStatusPending && now.After(o.ExpiresAt)
}
