package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/amara-naturals/storefront-backend/pkg/auth"
	"github.com/amara-naturals/storefront-backend/pkg/config"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
	"github.com/amara-naturals/storefront-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid email or password"

// Service issues access tokens for the catalog admin. There is a single
// admin identity, configured through the environment, so no user table is
// involved.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// LoginRequest carries the admin credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the bearer token and its expiry.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type service struct {
	admin  config.AdminConfig
	jwtCfg config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Admin     config.AdminConfig
	JWTConfig config.JWTConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

// NewService constructs the admin auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Admin.Email == "" {
		return nil, fmt.Errorf("admin email is required")
	}
	if params.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("admin password hash is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		admin:  params.Admin,
		jwtCfg: params.JWTConfig,
		logg:   params.Logger,
		now:    now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if email != strings.ToLower(s.admin.Email) {
		// Burn a hash comparison anyway so the unknown-email path does not
		// return measurably faster.
		_, _ = security.VerifyPassword(req.Password, s.admin.PasswordHash)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(req.Password, s.admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{Email: email})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "admin_email", email)
		s.logg.Info(logCtx, "admin.login")
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(s.jwtCfg.AccessTokenTTL()),
	}, nil
}
