package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amara-naturals/storefront-backend/api/middleware"
	cartsvc "github.com/amara-naturals/storefront-backend/internal/cart"
	"github.com/amara-naturals/storefront-backend/internal/order"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
)

type stubCartService struct {
	cart    cartsvc.Cart
	err     error
	lastQty int
	lastID  uuid.UUID
	cleared bool
}

func (s *stubCartService) Get(ctx context.Context, sessionID string) (cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (cartsvc.Cart, error) {
	s.lastID = productID
	s.lastQty = quantity
	return s.cart, s.err
}

func (s *stubCartService) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (cartsvc.Cart, error) {
	s.lastID = productID
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, sessionID string) error {
	s.cleared = true
	return s.err
}

func sampleCart(t *testing.T) cartsvc.Cart {
	t.Helper()
	c := cartsvc.New()
	now := time.Now()
	c.SetQuantity(cartsvc.LineItem{
		ProductID: uuid.New(),
		Name:      "Rose Soap",
		Price:     decimal.RequireFromString("200"),
	}, 2, now)
	c.SetQuantity(cartsvc.LineItem{
		ProductID: uuid.New(),
		Name:      "Neem Oil",
		Price:     decimal.RequireFromString("350"),
	}, 1, now.Add(time.Second))
	return c
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
}

func TestGetCartSuccess(t *testing.T) {
	svc := &stubCartService{cart: sampleCart(t)}
	handler := GetCart(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartPayload `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(envelope.Data.Items))
	}
	if envelope.Data.Total != "750" {
		t.Fatalf("unexpected total %q", envelope.Data.Total)
	}
	if envelope.Data.Items[0].Name != "Rose Soap" {
		t.Fatalf("expected insertion order, got %q first", envelope.Data.Items[0].Name)
	}
}

func TestSetCartQuantity(t *testing.T) {
	svc := &stubCartService{cart: sampleCart(t)}

	r := chi.NewRouter()
	r.Put("/api/v1/cart/items/{productId}", SetCartQuantity(svc, nil))

	productID := uuid.New()
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+productID.String(), strings.NewReader(`{"quantity":3}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastID != productID || svc.lastQty != 3 {
		t.Fatalf("service saw %s/%d", svc.lastID, svc.lastQty)
	}
}

func TestSetCartQuantityValidation(t *testing.T) {
	svc := &stubCartService{}

	r := chi.NewRouter()
	r.Put("/api/v1/cart/items/{productId}", SetCartQuantity(svc, nil))

	cases := []struct {
		productID string
		body      string
	}{
		{"not-a-uuid", `{"quantity":1}`},
		{uuid.NewString(), `{"quantity":-2}`},
		{uuid.NewString(), `{"quantity":1,"unknown":true}`},
	}
	for _, tc := range cases {
		req := withSession(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+tc.productID, strings.NewReader(tc.body)))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400 got %d", tc.productID, tc.body, resp.Code)
		}
	}
}

func TestRemoveCartItem(t *testing.T) {
	svc := &stubCartService{cart: cartsvc.New()}
	productID := uuid.New()

	r := chi.NewRouter()
	r.Delete("/api/v1/cart/items/{productId}", RemoveCartItem(svc, nil))

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), nil))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastID != productID {
		t.Fatalf("service saw %s", svc.lastID)
	}
}

func TestClearCart(t *testing.T) {
	svc := &stubCartService{cart: sampleCart(t)}
	handler := ClearCart(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.cleared {
		t.Fatal("expected Clear to be called")
	}
}

func newTestFormatter(t *testing.T) *order.Formatter {
	t.Helper()
	f, err := order.NewFormatter("https://wa.me", "919876543210")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	return f
}

func TestCartSummarySuccess(t *testing.T) {
	svc := &stubCartService{cart: sampleCart(t)}
	handler := CartSummary(svc, newTestFormatter(t), nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart/summary", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Message  string `json:"message"`
			DeepLink string `json:"deep_link"`
			Total    string `json:"total"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(envelope.Data.Message, "Hello, I would like to place an order:") {
		t.Fatalf("unexpected message %q", envelope.Data.Message)
	}
	if !strings.HasPrefix(envelope.Data.DeepLink, "https://wa.me/919876543210?text=") {
		t.Fatalf("unexpected deep link %q", envelope.Data.DeepLink)
	}
	if envelope.Data.Total != "750" {
		t.Fatalf("unexpected total %q", envelope.Data.Total)
	}
}

func TestCartSummaryEmptyCart(t *testing.T) {
	svc := &stubCartService{cart: cartsvc.New()}
	handler := CartSummary(svc, newTestFormatter(t), nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart/summary", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeEmptyCart) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}
