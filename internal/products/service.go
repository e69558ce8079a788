package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amara-naturals/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 5000
	maxTags           = 20
	maxTagLen         = 50
)

// Service exposes admin catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Price       string
	Tags        []string
	IsActive    *bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *string
	Tags        *[]string
	IsActive    *bool
}

type productRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type imageRemover interface {
	RemoveByURL(ctx context.Context, url string) error
}

type catalogReloader interface {
	Reload(ctx context.Context) error
}

type service struct {
	repo    productRepository
	images  imageRemover
	catalog catalogReloader
	logg    *logger.Logger
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo    productRepository
	Images  imageRemover
	Catalog catalogReloader
	Logger  *logger.Logger
}

// NewService constructs the admin product service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reloader required")
	}
	return &service{
		repo:    params.Repo,
		images:  params.Images,
		catalog: params.Catalog,
		logg:    params.Logger,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxNameLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required").
			WithDetails(map[string]any{"field": "name"})
	}

	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		Name:        name,
		Description: trimOptional(input.Description, maxDescriptionLen),
		Price:       price,
		Tags:        tags,
		IsActive:    isActive,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.reloadCatalog(ctx)
	return NewProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxNameLen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required").
				WithDetails(map[string]any{"field": "name"})
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = trimOptional(input.Description, maxDescriptionLen)
	}
	if input.Price != nil {
		price, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if input.Tags != nil {
		tags, err := normalizeTags(*input.Tags)
		if err != nil {
			return nil, err
		}
		product.Tags = tags
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, err
	}

	s.reloadCatalog(ctx)
	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	// Best effort: a dangling object in the bucket beats a broken delete.
	if s.images != nil && product.ImageURL != nil {
		if err := s.images.RemoveByURL(ctx, *product.ImageURL); err != nil && s.logg != nil {
			ctx = s.logg.WithProductID(ctx, productID.String())
			s.logg.Warn(ctx, "product image cleanup failed")
		}
	}

	s.reloadCatalog(ctx)
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewProductDTOs(rows), nil
}

func (s *service) reloadCatalog(ctx context.Context) {
	if err := s.catalog.Reload(ctx); err != nil && s.logg != nil {
		s.logg.Error(ctx, "catalog reload failed", err)
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price is required").
			WithDetails(map[string]any{"field": "price"})
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a decimal number").
			WithDetails(map[string]any{"field": "price"})
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
			WithDetails(map[string]any{"field": "price"})
	}
	if price.Exponent() < -2 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price supports at most two decimal places").
			WithDetails(map[string]any{"field": "price"})
	}
	return price, nil
}

func normalizeTags(raw []string) ([]string, error) {
	if len(raw) > maxTags {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many tags").
			WithDetails(map[string]any{"field": "tags", "max": maxTags})
	}
	seen := map[string]bool{}
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if len(tag) > maxTagLen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tag too long").
				WithDetails(map[string]any{"field": "tags", "max_length": maxTagLen})
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags, nil
}

func trimOptional(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) > maxLen {
		trimmed = trimmed[:maxLen]
	}
	return &trimmed
}
