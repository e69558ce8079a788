package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	productsvc "github.com/amara-naturals/storefront-backend/internal/products"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
)

type stubProductService struct {
	dto     *productsvc.ProductDTO
	list    []productsvc.ProductDTO
	err     error
	deleted []uuid.UUID
}

func (s *stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return s.dto, s.err
}

func (s *stubProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return s.dto, s.err
}

func (s *stubProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.dto, s.err
}

func (s *stubProductService) ListProducts(ctx context.Context) ([]productsvc.ProductDTO, error) {
	return s.list, s.err
}

type stubMediaService struct {
	url     string
	err     error
	removed []uuid.UUID
}

func (s *stubMediaService) AttachImage(ctx context.Context, productID uuid.UUID, body io.Reader) (string, error) {
	return s.url, s.err
}

func (s *stubMediaService) RemoveImage(ctx context.Context, productID uuid.UUID) error {
	s.removed = append(s.removed, productID)
	return s.err
}

func (s *stubMediaService) RemoveByURL(ctx context.Context, url string) error {
	return s.err
}

func TestAdminCreateProduct(t *testing.T) {
	dto := &productsvc.ProductDTO{ID: uuid.New(), Name: "Rose Soap", Price: "200"}
	svc := &stubProductService{dto: dto}
	handler := AdminCreateProduct(svc, nil)

	body := `{"name":"Rose Soap","price":"200","tags":["Soap"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data productsvc.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Rose Soap" {
		t.Fatalf("unexpected product %+v", envelope.Data)
	}
}

func TestAdminCreateProductValidation(t *testing.T) {
	svc := &stubProductService{}
	handler := AdminCreateProduct(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", strings.NewReader(`{"price":"200"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminUpdateProductInvalidID(t *testing.T) {
	svc := &stubProductService{}
	r := chi.NewRouter()
	r.Patch("/api/admin/v1/products/{productId}", AdminUpdateProduct(svc, nil))

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/products/not-a-uuid", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminDeleteProduct(t *testing.T) {
	svc := &stubProductService{}
	id := uuid.New()
	r := chi.NewRouter()
	r.Delete("/api/admin/v1/products/{productId}", AdminDeleteProduct(svc, nil))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/products/"+id.String(), nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != id {
		t.Fatalf("service saw %v", svc.deleted)
	}
}

func TestAdminGetProductNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	r := chi.NewRouter()
	r.Get("/api/admin/v1/products/{productId}", AdminGetProduct(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminUploadProductImage(t *testing.T) {
	svc := &stubMediaService{url: "https://storage.googleapis.com/amara-media/a.png"}
	r := chi.NewRouter()
	r.Put("/api/admin/v1/products/{productId}/image", AdminUploadProductImage(svc, nil))

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/products/"+uuid.NewString()+"/image", strings.NewReader("png-bytes"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			ImageURL string `json:"image_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ImageURL != svc.url {
		t.Fatalf("unexpected url %q", envelope.Data.ImageURL)
	}
}

func TestAdminDeleteProductImage(t *testing.T) {
	svc := &stubMediaService{}
	id := uuid.New()
	r := chi.NewRouter()
	r.Delete("/api/admin/v1/products/{productId}/image", AdminDeleteProductImage(svc, nil))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/products/"+id.String()+"/image", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.removed) != 1 || svc.removed[0] != id {
		t.Fatalf("service saw %v", svc.removed)
	}
}
