package repo

import "sync"

// InMemoryCartRepository is an in-memory implementation of CartRepository.
// Carts vanish on restart, which matches the ephemeral session contract.
type InMemoryCartRepository struct {
	mu    sync.Mutex
	carts map[string]map[int]int
}

// NewInMemoryCartRepository creates a new instance of InMemoryCartRepository.
func NewInMemoryCartRepository() *InMemoryCartRepository {
	return &InMemoryCartRepository{carts: make(map[string]map[int]int)}
}

// Get returns a copy of the cart for the given session.
func (r *InMemoryCartRepository) Get(sessionID string) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := make(map[int]int, len(r.carts[sessionID]))
	for id, qty := range r.carts[sessionID] {
		cart[id] = qty
	}
	return cart, nil
}

// Add increments the quantity for a product, creating the line if needed.
func (r *InMemoryCartRepository) Add(sessionID string, productID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.carts[sessionID] == nil {
		r.carts[sessionID] = make(map[int]int)
	}
	r.carts[sessionID][productID] += quantity
	return nil
}

// SetQuantity replaces the quantity for a product; below 1 removes the line.
func (r *InMemoryCartRepository) SetQuantity(sessionID string, productID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if quantity < 1 {
		delete(r.carts[sessionID], productID)
		return nil
	}
	if r.carts[sessionID] == nil {
		r.carts[sessionID] = make(map[int]int)
	}
	r.carts[sessionID][productID] = quantity
	return nil
}

// Remove deletes one product line from the cart.
func (r *InMemoryCartRepository) Remove(sessionID string, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts[sessionID], productID)
	return nil
}

// Clear drops the whole cart for a session.
func (r *InMemoryCartRepository) Clear(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}

// TotalItems sums the quantities across all cart lines.
func (r *InMemoryCartRepository) TotalItems(sessionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, qty := range r.carts[sessionID] {
		total += qty
	}
	return total, nil
}
