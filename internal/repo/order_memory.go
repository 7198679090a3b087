package repo

import (
	"sort"
	"sync"
	"time"

	"tokomini/internal/models"
)

// InMemoryOrderRepository is an in-memory implementation of OrderRepository.
type InMemoryOrderRepository struct {
	mu     sync.Mutex
	orders map[string]models.Order
}

// NewInMemoryOrderRepository creates a new instance of InMemoryOrderRepository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{orders: make(map[string]models.Order)}
}

// Create stores a new order under its number.
func (r *InMemoryOrderRepository) Create(order models.Order) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.Number] = order
	return order, nil
}

// GetByNumber retrieves an order by its number.
func (r *InMemoryOrderRepository) GetByNumber(number string) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[number]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return order, nil
}

// SetPaid marks a pending order as paid.
func (r *InMemoryOrderRepository) SetPaid(number, transactionID string, paidAt time.Time) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[number]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return models.Order{}, ErrOrderNotPending
	}

	order.Status = models.OrderStatusPaid
	order.TransactionID = transactionID
	order.PaidAt = &paidAt
	r.orders[number] = order
	return order, nil
}

// ListBySession returns the session's orders, newest first.
func (r *InMemoryOrderRepository) ListBySession(sessionID string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.SessionID == sessionID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// Clear removes all orders. Used by tests.
func (r *InMemoryOrderRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = make(map[string]models.Order)
}
