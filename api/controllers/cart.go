package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amara-naturals/storefront-backend/api/middleware"
	"github.com/amara-naturals/storefront-backend/api/responses"
	"github.com/amara-naturals/storefront-backend/api/validators"
	"github.com/amara-naturals/storefront-backend/internal/cart"
	"github.com/amara-naturals/storefront-backend/internal/order"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

type cartItemPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Quantity  int       `json:"quantity"`
	Subtotal  string    `json:"subtotal"`
}

type cartPayload struct {
	Items []cartItemPayload `json:"items"`
	Total string            `json:"total"`
	Count int               `json:"count"`
}

func newCartPayload(c cart.Cart) cartPayload {
	items := c.Items()
	payload := cartPayload{
		Items: make([]cartItemPayload, 0, len(items)),
		Total: c.Total().String(),
		Count: c.Count(),
	}
	for _, item := range items {
		payload.Items = append(payload.Items, cartItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.String(),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().String(),
		})
	}
	return payload
}

// GetCart returns the session's current cart.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		current, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartPayload(current))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// SetCartQuantity pins the quantity of one product in the cart. Quantity
// zero removes the entry.
func SetCartQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := svc.SetQuantity(r.Context(), sessionID, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartPayload(current))
	}
}

// RemoveCartItem drops one product from the cart.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		current, err := svc.Remove(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartPayload(current))
	}
}

// ClearCart empties the session's cart.
func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartPayload(cart.New()))
	}
}

// CartSummary renders the WhatsApp hand-off for the current cart.
func CartSummary(svc cart.Service, formatter *order.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		current, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := formatter.Format(current)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"message":           summary.Message,
			"transport_payload": summary.TransportPayload,
			"deep_link":         summary.DeepLink,
			"total":             summary.Total.String(),
			"item_count":        summary.ItemCount,
		})
	}
}
