package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
	"github.com/amara-naturals/storefront-backend/pkg/redis"
)

// Carts outlive browser sessions but not forever; the slot TTL matches the
// session cookie lifetime and refreshes on every write.
const slotTTL = 180 * 24 * time.Hour

type slotClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartSlotKey(sessionID string) string
}

// Store persists one cart per session in a redis slot.
type Store struct {
	client slotClient
	logg   *logger.Logger
}

// NewStore builds the cart slot store.
func NewStore(client slotClient, logg *logger.Logger) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &Store{client: client, logg: logg}, nil
}

// Load reads the cart for the session. A missing slot yields an empty cart.
// A corrupt slot is dropped and also yields an empty cart, so one bad write
// can never wedge a session.
func (s *Store) Load(ctx context.Context, sessionID string) (Cart, error) {
	key := s.client.CartSlotKey(sessionID)

	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrKeyMissing) {
			return New(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart slot")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithSessionID(ctx, sessionID)
			s.logg.Warn(logCtx, "cart slot corrupt, resetting")
		}
		if delErr := s.client.Del(ctx, key); delErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, delErr, "reset corrupt cart slot")
		}
		return New(), nil
	}
	if cart == nil {
		cart = New()
	}
	return cart, nil
}

// Save writes the cart back to its slot. An empty cart deletes the slot
// instead of storing an empty document.
func (s *Store) Save(ctx context.Context, sessionID string, cart Cart) error {
	key := s.client.CartSlotKey(sessionID)

	if cart.IsEmpty() {
		if err := s.client.Del(ctx, key); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart slot")
		}
		return nil
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.client.Set(ctx, key, payload, slotTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart slot")
	}
	return nil
}
