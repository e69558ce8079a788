package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amara-naturals/storefront-backend/internal/catalog"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

type catalogReader interface {
	ByID(id uuid.UUID) (catalog.Product, bool)
}

type slotStore interface {
	Load(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, cart Cart) error
}

// Service runs cart transitions. Transitions for the same session are
// serialized: every write is a load, one transform, and one save, so two
// racing updates cannot interleave halfway.
type Service interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (Cart, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store   slotStore
	catalog catalogReader
	logg    *logger.Logger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Store   slotStore
	Catalog catalogReader
	Logger  *logger.Logger
	Now     func() time.Time
}

// NewService constructs the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:   params.Store,
		catalog: params.Catalog,
		logg:    params.Logger,
		now:     now,
		locks:   map[string]*sessionLock{},
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, sessionID)
}

func (s *service) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	var item LineItem
	if quantity > 0 {
		product, ok := s.catalog.ByID(productID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": productID.String()})
		}
		item = LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
		}
	} else {
		item = LineItem{ProductID: productID}
	}

	return s.transition(ctx, sessionID, func(cart Cart) {
		cart.SetQuantity(item, quantity, s.now())
	})
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.transition(ctx, sessionID, func(cart Cart) {
		cart.Remove(productID)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	_, err := s.transition(ctx, sessionID, func(cart Cart) {
		for key := range cart {
			delete(cart, key)
		}
	})
	return err
}

// transition applies one mutation under the session lock and writes the
// result back in the same critical section.
func (s *service) transition(ctx context.Context, sessionID string, apply func(Cart)) (Cart, error) {
	lock := s.acquire(sessionID)
	defer s.release(sessionID, lock)

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	apply(cart)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) acquire(sessionID string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return lock
}

func (s *service) release(sessionID string, lock *sessionLock) {
	lock.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
