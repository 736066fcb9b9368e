package service

import (
	"context"
	"fmt"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/dto"
)

const categoriesPath = "/categories"

type CategoryServiceImpl struct {
	client APIClient
}

func CreateCategoryService(client APIClient) CategoryService {
	return &CategoryServiceImpl{
		client: client,
	}
}

// List returns every category. The endpoint is not paginated.
func (s *CategoryServiceImpl) List(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	if err := s.client.Get(ctx, categoriesPath, nil, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (s *CategoryServiceImpl) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	var category domain.Category
	err := s.client.Get(ctx, fmt.Sprintf("%s/%d", categoriesPath, id), nil, &category)

	return category, err
}

func (s *CategoryServiceImpl) Create(ctx context.Context, req dto.CategoryRequest) (domain.Category, error) {
	var category domain.Category
	err := s.client.Post(ctx, categoriesPath, req, &category)

	return category, err
}
