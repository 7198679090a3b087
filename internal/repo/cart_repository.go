package repo

import "errors"

// CartRepository stores the ephemeral per-session cart as a
// product ID -> quantity map. Quantities are always at least 1;
// setting a quantity below 1 removes the line.
type CartRepository interface {
	Get(sessionID string) (map[int]int, error)
	Add(sessionID string, productID, quantity int) error
	SetQuantity(sessionID string, productID, quantity int) error
	Remove(sessionID string, productID int) error
	Clear(sessionID string) error
	TotalItems(sessionID string) (int, error)
}

// ErrInvalidQuantity is returned when an Add is attempted with a
// non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")
