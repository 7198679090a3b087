package repo

import (
	"errors"
	"time"

	"tokomini/internal/models"
)

// OrderRepository defines the interface for order data operations.
type OrderRepository interface {
	Create(order models.Order) (models.Order, error)
	GetByNumber(number string) (models.Order, error)
	// SetPaid flips a pending order to paid, recording the transaction
	// ID and payment time.
	SetPaid(number, transactionID string, paidAt time.Time) (models.Order, error)
	// ListBySession returns the session's orders, newest first.
	ListBySession(sessionID string) ([]models.Order, error)
}

// ErrOrderNotFound is returned when an order is not found in the repository.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderNotPending is returned when SetPaid targets an order that is not
// awaiting payment.
var ErrOrderNotPending = errors.New("order is not pending payment")
