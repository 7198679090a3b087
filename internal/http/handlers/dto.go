package handlers

import (
	"tokomini/internal/fakestore"
	"tokomini/internal/models"
	"tokomini/internal/payment"
)

// Page payloads (the Data field of web.Page).

type CatalogData struct {
	Products []fakestore.Product
	Sort     string
}

type DetailData struct {
	Product  fakestore.Product
	PriceIDR int
}

type CartData struct {
	Items    []models.CartLine
	TotalUSD float64
	TotalIDR int
}

type CheckoutData struct {
	Items        []models.CartLine
	TotalUSD     float64
	TotalIDR     int
	Methods      []payment.Method
	CODAvailable bool
	CODMaxIDR    int
}

type OrderPageData struct {
	Order  models.Order
	Method payment.Method
}

type HistoryData struct {
	Orders []models.Order
}

// JSON endpoint results.

type CartCountResult struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type CODLimitResult struct {
	Available bool   `json:"available"`
	Total     int    `json:"total,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Message   string `json:"message"`
}

type CompletePaymentResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	OrderID       string `json:"order_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

type HealthResult struct {
	Status string `json:"status"`
}
