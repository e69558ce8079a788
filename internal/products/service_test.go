package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amara-naturals/storefront-backend/pkg/db/models"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
)

type fakeRepo struct {
	rows    map[uuid.UUID]*models.Product
	created []*models.Product
	deleted []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]*models.Product{}}
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if row, ok := f.rows[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	f.rows[product.ID] = product
	f.created = append(f.created, product)
	return product, nil
}

func (f *fakeRepo) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	f.rows[product.ID] = product
	return product, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeImageRemover struct {
	removed []string
}

func (f *fakeImageRemover) RemoveByURL(ctx context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

type fakeReloader struct {
	calls int
}

func (f *fakeReloader) Reload(ctx context.Context) error {
	f.calls++
	return nil
}

func newTestService(t *testing.T, repo *fakeRepo) (Service, *fakeReloader, *fakeImageRemover) {
	t.Helper()
	reloader := &fakeReloader{}
	remover := &fakeImageRemover{}
	svc, err := NewService(ServiceParams{Repo: repo, Images: remover, Catalog: reloader})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, reloader, remover
}

func TestCreateProductNormalizesInput(t *testing.T) {
	repo := newFakeRepo()
	svc, reloader, _ := newTestService(t, repo)

	desc := "  Gentle rose soap.  "
	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:        "  Rose Soap ",
		Description: &desc,
		Price:       "249.50",
		Tags:        []string{" Soap ", "soap", "", "Skincare"},
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}

	if dto.Name != "Rose Soap" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.Price != "249.5" {
		t.Fatalf("unexpected price %q", dto.Price)
	}
	if len(dto.Tags) != 2 || dto.Tags[0] != "Soap" || dto.Tags[1] != "Skincare" {
		t.Fatalf("expected deduplicated tags, got %v", dto.Tags)
	}
	if !dto.IsActive {
		t.Fatal("expected product active by default")
	}
	if dto.Description == nil || *dto.Description != "Gentle rose soap." {
		t.Fatalf("unexpected description %v", dto.Description)
	}
	if reloader.calls != 1 {
		t.Fatalf("expected one catalog reload, got %d", reloader.calls)
	}
}

func TestCreateProductRejectsBadPrices(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(t, repo)

	cases := []string{"", "abc", "-1", "10.999"}
	for _, price := range cases {
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "Soap", Price: price})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("price %q: expected validation error, got %v", price, err)
		}
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no rows created, got %d", len(repo.created))
	}
}

func TestUpdateProductAppliesPartialChanges(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.rows[id] = &models.Product{
		ID:       id,
		Name:     "Rose Soap",
		Price:    decimal.RequireFromString("200"),
		Tags:     []string{"Soap"},
		IsActive: true,
	}
	svc, reloader, _ := newTestService(t, repo)

	newPrice := "250"
	inactive := false
	dto, err := svc.UpdateProduct(context.Background(), id, UpdateProductInput{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}

	if dto.Name != "Rose Soap" {
		t.Fatalf("name should be untouched, got %q", dto.Name)
	}
	if dto.Price != "250" {
		t.Fatalf("unexpected price %q", dto.Price)
	}
	if dto.IsActive {
		t.Fatal("expected product deactivated")
	}
	if reloader.calls != 1 {
		t.Fatalf("expected one catalog reload, got %d", reloader.calls)
	}
}

func TestUpdateProductUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeRepo())

	name := "Soap"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteProductCleansUpImage(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	imageURL := "https://storage.googleapis.com/amara-media/abc.png"
	repo.rows[id] = &models.Product{
		ID:       id,
		Name:     "Rose Soap",
		Price:    decimal.RequireFromString("200"),
		ImageURL: &imageURL,
	}
	svc, reloader, remover := newTestService(t, repo)

	if err := svc.DeleteProduct(context.Background(), id); err != nil {
		t.Fatalf("DeleteProduct returned error: %v", err)
	}

	if len(repo.deleted) != 1 || repo.deleted[0] != id {
		t.Fatalf("expected row deleted, got %v", repo.deleted)
	}
	if len(remover.removed) != 1 || remover.removed[0] != imageURL {
		t.Fatalf("expected image cleanup, got %v", remover.removed)
	}
	if reloader.calls != 1 {
		t.Fatalf("expected one catalog reload, got %d", reloader.calls)
	}
}
