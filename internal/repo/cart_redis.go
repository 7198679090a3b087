package repo

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCartRepository keeps each session cart in a redis hash
// (field = product ID, value = quantity) with a sliding TTL, so
// abandoned carts expire on their own.
type RedisCartRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCartRepository creates a new instance of RedisCartRepository.
func NewRedisCartRepository(rdb *redis.Client, ttl time.Duration) *RedisCartRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCartRepository{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (r *RedisCartRepository) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*time.Second)
}

// Get returns the cart for the given session.
func (r *RedisCartRepository) Get(sessionID string) (map[int]int, error) {
	ctx, cancel := r.opCtx()
	defer cancel()

	fields, err := r.rdb.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	cart := make(map[int]int, len(fields))
	for field, value := range fields {
		productID, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil || qty < 1 {
			continue
		}
		cart[productID] = qty
	}
	return cart, nil
}

// Add increments the quantity for a product, creating the line if needed.
func (r *RedisCartRepository) Add(sessionID string, productID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	ctx, cancel := r.opCtx()
	defer cancel()

	key := cartKey(sessionID)
	if err := r.rdb.HIncrBy(ctx, key, strconv.Itoa(productID), int64(quantity)).Err(); err != nil {
		return err
	}
	return r.rdb.Expire(ctx, key, r.ttl).Err()
}

// SetQuantity replaces the quantity for a product; below 1 removes the line.
func (r *RedisCartRepository) SetQuantity(sessionID string, productID, quantity int) error {
	if quantity < 1 {
		return r.Remove(sessionID, productID)
	}

	ctx, cancel := r.opCtx()
	defer cancel()

	key := cartKey(sessionID)
	if err := r.rdb.HSet(ctx, key, strconv.Itoa(productID), quantity).Err(); err != nil {
		return err
	}
	return r.rdb.Expire(ctx, key, r.ttl).Err()
}

// Remove deletes one product line from the cart.
func (r *RedisCartRepository) Remove(sessionID string, productID int) error {
	ctx, cancel := r.opCtx()
	defer cancel()

	return r.rdb.HDel(ctx, cartKey(sessionID), strconv.Itoa(productID)).Err()
}

// Clear drops the whole cart for a session.
func (r *RedisCartRepository) Clear(sessionID string) error {
	ctx, cancel := r.opCtx()
	defer cancel()

	return r.rdb.Del(ctx, cartKey(sessionID)).Err()
}

// TotalItems sums the quantities across all cart lines.
func (r *RedisCartRepository) TotalItems(sessionID string) (int, error) {
	cart, err := r.Get(sessionID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, qty := range cart {
		total += qty
	}
	return total, nil
}
