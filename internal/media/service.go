package media

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/amara-naturals/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

const maxUploadBytes = 10 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

type objectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromPublicURL(url string) (string, error)
}

type productRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	SetImageURL(ctx context.Context, id uuid.UUID, imageURL *string) error
}

type catalogReloader interface {
	Reload(ctx context.Context) error
}

// Service manages product images. Each product carries at most one image;
// attaching a new one replaces and deletes the previous object.
type Service interface {
	AttachImage(ctx context.Context, productID uuid.UUID, body io.Reader) (string, error)
	RemoveImage(ctx context.Context, productID uuid.UUID) error
	RemoveByURL(ctx context.Context, url string) error
}

type service struct {
	store   objectStore
	repo    productRepository
	catalog catalogReloader
	logg    *logger.Logger
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Store   objectStore
	Repo    productRepository
	Catalog catalogReloader
	Logger  *logger.Logger
}

// NewService constructs the media service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reloader required")
	}
	return &service{
		store:   params.Store,
		repo:    params.Repo,
		catalog: params.Catalog,
		logg:    params.Logger,
	}, nil
}

// AttachImage sniffs, stores, and links an image to the product, returning
// its public URL. The previous image (if any) is deleted best-effort after
// the new link is in place.
func (s *service) AttachImage(ctx context.Context, productID uuid.UUID, body io.Reader) (string, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return "", err
	}

	payload, err := io.ReadAll(io.LimitReader(body, maxUploadBytes+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image payload")
	}
	if len(payload) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image payload is empty")
	}
	if len(payload) > maxUploadBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image exceeds size limit").
			WithDetails(map[string]any{"max_bytes": maxUploadBytes})
	}

	detected := mimetype.Detect(payload)
	if !allowedImageTypes[detected.String()] {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]any{"detected": detected.String()})
	}

	key := uuid.NewString() + detected.Extension()
	if err := s.store.Upload(ctx, key, detected.String(), bytes.NewReader(payload)); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}

	url := s.store.PublicURL(key)
	if err := s.repo.SetImageURL(ctx, productID, &url); err != nil {
		// The row still points at the old image; drop the orphan we just wrote.
		if delErr := s.store.Delete(ctx, key); delErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithProductID(ctx, productID.String()), "orphaned image cleanup failed")
		}
		return "", err
	}

	if product.ImageURL != nil {
		s.deleteByURL(ctx, *product.ImageURL)
	}

	s.reloadCatalog(ctx)
	return url, nil
}

// RemoveImage unlinks and deletes the product's image. Removing a product
// that has no image is a no-op.
func (s *service) RemoveImage(ctx context.Context, productID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.ImageURL == nil {
		return nil
	}

	if err := s.repo.SetImageURL(ctx, productID, nil); err != nil {
		return err
	}
	s.deleteByURL(ctx, *product.ImageURL)
	s.reloadCatalog(ctx)
	return nil
}

// RemoveByURL deletes the bucket object behind a public URL. Used for
// cleanup when a product row goes away.
func (s *service) RemoveByURL(ctx context.Context, url string) error {
	key, err := s.store.KeyFromPublicURL(url)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "resolve image key")
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image object")
	}
	return nil
}

func (s *service) deleteByURL(ctx context.Context, url string) {
	if err := s.RemoveByURL(ctx, url); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "image_url", url), "stale image cleanup failed")
	}
}

func (s *service) reloadCatalog(ctx context.Context) {
	if err := s.catalog.Reload(ctx); err != nil && s.logg != nil {
		s.logg.Error(ctx, "catalog reload failed", err)
	}
}
