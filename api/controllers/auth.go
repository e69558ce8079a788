package controllers

import (
	"net/http"

	"github.com/amara-naturals/storefront-backend/api/responses"
	"github.com/amara-naturals/storefront-backend/api/validators"
	authsvc "github.com/amara-naturals/storefront-backend/internal/auth"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

// AdminLogin exchanges the admin credentials for a bearer token.
func AdminLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
