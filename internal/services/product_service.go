package services

import (
	"context"
	"errors"
	"log"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/cache"
	"gifts-backend/internal/models"
	"gifts-backend/internal/repositories"
)

// ProductService exposes the read-only gift catalog and enforces the stock
// guard that must run before a product is added to a bill.
type ProductService struct {
	Repo *repositories.ProductRepository
}

func NewProductService(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{Repo: repo}
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.Get(ctx, id)
}

// ListProducts returns the active catalog, served from cache when warm.
func (s *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var cached []*models.Product
	if cache.GetJSON(ctx, cache.CatalogKey, &cached) {
		return cached, nil
	}

	products, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, cache.CatalogKey, products, cache.CatalogTTL)
	return products, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]*models.Product, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}
	return s.Repo.Search(ctx, query)
}

// ResolveForBill fetches the product and applies the stock guard for the
// requested quantity. This check runs against live inventory before the item
// ledger is touched.
func (s *ProductService) ResolveForBill(ctx context.Context, productID, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, billing.ErrInvalidQuantity
	}

	product, err := s.Repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, errors.New("product is not available for sale")
	}
	if product.Stock < quantity {
		log.Printf("[Catalog] stock guard rejected product %d: have %d, want %d", productID, product.Stock, quantity)
		return nil, billing.ErrInsufficientStock
	}
	return product, nil
}
