package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amara-naturals/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

// TagAll is the sentinel tag matching every product.
const TagAll = "all"

// Product is the immutable storefront view of a catalog row.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	ImageURL    *string
	Tags        []string
}

type lister interface {
	ListActive(ctx context.Context) ([]models.Product, error)
}

// snapshot holds one consistent catalog generation. Readers always see a
// whole generation; Reload swaps the pointer atomically.
type snapshot struct {
	products []Product
	byID     map[uuid.UUID]*Product
	tags     []string
}

// Store serves catalog reads from an in-memory snapshot loaded out of the
// products table. A failed reload keeps the previous generation.
type Store struct {
	repo    lister
	logg    *logger.Logger
	current atomic.Pointer[snapshot]
}

// NewStore builds the catalog store and performs the initial load. A failed
// initial load is not fatal: the store starts from an empty snapshot and the
// next successful Reload fills it.
func NewStore(ctx context.Context, repo lister, logg *logger.Logger) (*Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("product lister required")
	}
	s := &Store{repo: repo, logg: logg}
	s.current.Store(buildSnapshot(nil))
	if err := s.Reload(ctx); err != nil && logg != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "catalog initial load failed, starting empty")
	}
	return s, nil
}

// Reload replaces the snapshot with a fresh read of the active products.
// On error the current snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload catalog")
	}

	next := buildSnapshot(rows)
	s.current.Store(next)

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"products": len(next.products),
			"tags":     len(next.tags),
		})
		s.logg.Info(ctx, "catalog.reloaded")
	}
	return nil
}

func buildSnapshot(rows []models.Product) *snapshot {
	next := &snapshot{
		products: make([]Product, 0, len(rows)),
		byID:     make(map[uuid.UUID]*Product, len(rows)),
	}
	seenTags := map[string]bool{}

	for i := range rows {
		row := &rows[i]
		product := Product{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			ImageURL:    row.ImageURL,
			Tags:        append([]string(nil), row.Tags...),
		}
		next.products = append(next.products, product)

		for _, tag := range row.Tags {
			key := strings.ToLower(tag)
			if key == TagAll || seenTags[key] {
				continue
			}
			seenTags[key] = true
			next.tags = append(next.tags, tag)
		}
	}

	for i := range next.products {
		next.byID[next.products[i].ID] = &next.products[i]
	}
	return next
}

func (s *Store) load() *snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return &snapshot{byID: map[uuid.UUID]*Product{}}
}

// All returns every active product in catalog order.
func (s *Store) All() []Product {
	return s.load().products
}

// ByID resolves a product from the current snapshot.
func (s *Store) ByID(id uuid.UUID) (Product, bool) {
	if p, ok := s.load().byID[id]; ok {
		return *p, true
	}
	return Product{}, false
}

// Tags lists the distinct tags in first-seen catalog order. The "all"
// sentinel is never part of the list.
func (s *Store) Tags() []string {
	return s.load().tags
}

// Filter returns the products carrying the given tag. The "all" sentinel
// (or an empty tag) matches everything; an unknown tag yields an empty
// slice, not an error.
func (s *Store) Filter(tag string) []Product {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.EqualFold(tag, TagAll) {
		return s.All()
	}

	var matched []Product
	for _, product := range s.load().products {
		for _, candidate := range product.Tags {
			if strings.EqualFold(candidate, tag) {
				matched = append(matched, product)
				break
			}
		}
	}
	if matched == nil {
		matched = []Product{}
	}
	return matched
}

// Len reports the number of active products in the snapshot.
func (s *Store) Len() int {
	return len(s.load().products)
}
