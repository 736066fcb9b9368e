package service

import (
	"context"
	"net/url"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/dto"
)

// APIClient is the subset of *httpclient.Client the services depend on.
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string) error
}

type ProductService interface {
	List(ctx context.Context, page, pageSize int, filter dto.ProductFilter) (domain.PageResult[domain.Product], error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	GetAlerts(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (domain.Product, error)
	Create(ctx context.Context, req dto.ProductRequest) (domain.Product, error)
	Update(ctx context.Context, id int64, req dto.ProductRequest) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
	Create(ctx context.Context, req dto.CategoryRequest) (domain.Category, error)
}

// Publisher delivers an already encoded event under key.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}
