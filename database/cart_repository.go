package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/models"

	"github.com/redis/go-redis/v9"
)

// ErrMalformedSnapshot is returned when a stored cart cannot be
// decoded. The bad entry is discarded so the next load starts clean.
var ErrMalformedSnapshot = errors.New("malformed cart snapshot")

// cartSnapshot is the persisted form: a single JSON document holding
// the full item list.
type cartSnapshot struct {
	Items []models.CartItem `json:"items"`
}

type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *CartRepository) getKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}

// GetCart loads a cart snapshot. A missing key returns (nil, nil); a
// snapshot that fails to decode is deleted and reported as
// ErrMalformedSnapshot.
func (r *CartRepository) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	key := r.getKey(cartID)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap cartSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		r.client.Del(ctx, key)
		return nil, ErrMalformedSnapshot
	}

	return &models.Cart{ID: cartID, Items: snap.Items}, nil
}

// SaveCart writes the full item list back under the cart's key,
// refreshing the TTL.
func (r *CartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cartSnapshot{Items: cart.Items})
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.getKey(cart.ID), data, r.ttl).Err()
}

// DeleteCart removes the snapshot. Deleting an absent cart is a no-op.
func (r *CartRepository) DeleteCart(ctx context.Context, cartID string) error {
	return r.client.Del(ctx, r.getKey(cartID)).Err()
}
