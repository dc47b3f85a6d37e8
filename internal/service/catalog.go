package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/online_shopping/internal/models"
	"github.com/Skotchmaster/online_shopping/internal/repo"
	"github.com/Skotchmaster/online_shopping/internal/transport"
	"github.com/Skotchmaster/online_shopping/internal/util"
	"github.com/Skotchmaster/online_shopping/pkg/logging"
)

type ProductStore interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	FindByNameContaining(ctx context.Context, name string, offset, limit int) (int64, []models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, prod *models.Product) (*models.Product, error)
	Update(ctx context.Context, prod *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
}

// ProductIndex is the full-text search side of the catalog.
type ProductIndex interface {
	Index(ctx context.Context, prod *models.Product) error
	Remove(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo ProductStore
	// Index is optional; without it search runs against the database.
	Index ProductIndex
}

func (s *CatalogService) List(ctx context.Context, category, name string) ([]models.Product, error) {
	switch {
	case category != "":
		return s.Repo.FindByCategory(ctx, category)
	case name != "":
		_, items, err := s.Repo.FindByNameContaining(ctx, name, 0, 0)
		return items, err
	default:
		return s.Repo.FindAll(ctx)
	}
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return prod, nil
}

func validateProduct(req transport.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.StockQuantity < 0 {
		return fmt.Errorf("%w: stockQuantity cannot be negative", ErrValidation)
	}
	return nil
}

func applyProduct(prod *models.Product, req transport.ProductRequest) {
	prod.Name = req.Name
	prod.Description = req.Description
	prod.Price = req.Price
	prod.Category = req.Category
	prod.ImageURL = req.ImageURL
	prod.StockQuantity = req.StockQuantity
}

func (s *CatalogService) Create(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	prod := &models.Product{}
	applyProduct(prod, req)
	prod, err := s.Repo.Create(ctx, prod)
	if err != nil {
		return nil, err
	}
	s.sync(ctx, prod)
	return prod, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	prod, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProduct(prod, req)
	prod, err = s.Repo.Update(ctx, prod)
	if err != nil {
		return nil, err
	}
	s.sync(ctx, prod)
	return prod, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("index_remove_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

type SearchResult struct {
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Items []models.Product `json:"items"`
}

// Search pages through products matching q. A failing index falls back to the database.
func (s *CatalogService) Search(ctx context.Context, q string, page, size int) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: q required", ErrValidation)
	}
	from, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, from, limit)
		if err == nil {
			return &SearchResult{Total: total, Page: page, Size: limit, Items: items}, nil
		}
		logging.FromContext(ctx).Warn("index_search_failed", "query", q, "error", err)
	}

	total, items, err := s.Repo.FindByNameContaining(ctx, q, from, limit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Total: total, Page: page, Size: limit, Items: items}, nil
}

func (s *CatalogService) sync(ctx context.Context, prod *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("index_sync_failed", "product_id", prod.ID, "error", err)
	}
}
