package service

import (
	"context"
	"fmt"

	"storefront-api/internal/models"
	"storefront-api/internal/store"
	"storefront-api/internal/util"

	"go.uber.org/zap"
)

// CatalogStore persists product documents
type CatalogStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter store.ProductFilter, page, pageSize int) ([]models.Product, error)
	CountProducts(ctx context.Context, filter store.ProductFilter) (int64, error)
	UpdateProduct(ctx context.Context, product *models.Product) (bool, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}

// ProductCache is a read-through cache in front of single-product lookups
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// CatalogService owns product reads and admin mutations. Single-product
// reads go through the cache; listings always hit the database.
type CatalogService struct {
	products CatalogStore
	cache    ProductCache
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(products CatalogStore, cache ProductCache) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		logger:   util.GetLogger(),
	}
}

// ProductPage is one page of catalog results
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// ListProducts returns a filtered catalog page with pagination metadata
func (s *CatalogService) ListProducts(ctx context.Context, filter store.ProductFilter, page, pageSize int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	products, err := s.products.ListProducts(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	total, err := s.products.CountProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &ProductPage{
		Products:   products,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// GetProduct returns a product, nil when absent. Cache misses and cache
// failures both fall back to the database.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			s.logger.Warn("Product cache read failed", zap.String("product_id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Warn("Product cache write failed", zap.String("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// UpdateProduct replaces a product and evicts its cache entry
func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	existing, err := s.products.GetProductByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if existing == nil {
		return nil, ErrProductNotFound
	}

	product.CreatedAt = existing.CreatedAt
	updated, err := s.products.UpdateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !updated {
		return nil, ErrProductNotFound
	}

	s.evict(ctx, product.ID)
	return product, nil
}

// DeleteProduct removes a product and evicts its cache entry. Existing
// cart lines and order snapshots referencing it are untouched.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.products.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return ErrProductNotFound
	}

	s.evict(ctx, id)
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func (s *CatalogService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		s.logger.Warn("Product cache eviction failed", zap.String("product_id", id), zap.Error(err))
	}
}
