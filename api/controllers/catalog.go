package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/amara-naturals/storefront-backend/api/responses"
	"github.com/amara-naturals/storefront-backend/api/validators"
	"github.com/amara-naturals/storefront-backend/internal/catalog"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

// catalogProductPayload is the public storefront product shape.
type catalogProductPayload struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Tags        []string  `json:"tags"`
}

func newCatalogPayload(products []catalog.Product) []catalogProductPayload {
	out := make([]catalogProductPayload, 0, len(products))
	for _, p := range products {
		out = append(out, catalogProductPayload{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.String(),
			ImageURL:    p.ImageURL,
			Tags:        p.Tags,
		})
	}
	return out
}

// ListCatalog serves the storefront product list, optionally filtered by
// the tag query parameter.
func ListCatalog(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := validators.SanitizeString(r.URL.Query().Get("tag"), 50)
		products := store.Filter(tag)

		responses.WriteSuccess(w, map[string]any{
			"products": newCatalogPayload(products),
			"tag":      tag,
			"count":    len(products),
		})
	}
}

// ListCatalogTags serves the distinct tag list in catalog order.
func ListCatalogTags(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"tags": store.Tags()})
	}
}
