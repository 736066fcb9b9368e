package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/dto"
)

const productsPath = "/products"

type ProductServiceImpl struct {
	client APIClient
}

func CreateProductService(client APIClient) ProductService {
	return &ProductServiceImpl{
		client: client,
	}
}

func (s *ProductServiceImpl) List(ctx context.Context, page, pageSize int, filter dto.ProductFilter) (domain.PageResult[domain.Product], error) {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	filter.Apply(q)

	var result domain.PageResult[domain.Product]
	if err := s.client.Get(ctx, productsPath, q, &result); err != nil {
		return domain.PageResult[domain.Product]{}, err
	}

	result = result.Normalize()

	return result, nil
}

func (s *ProductServiceImpl) Search(ctx context.Context, query string) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("q", query)

	products := []domain.Product{}
	if err := s.client.Get(ctx, productsPath+"/search", q, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *ProductServiceImpl) GetAlerts(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := s.client.Get(ctx, productsPath+"/alerts", nil, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *ProductServiceImpl) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	err := s.client.Get(ctx, productPath(id), nil, &product)

	return product, err
}

func (s *ProductServiceImpl) Create(ctx context.Context, req dto.ProductRequest) (domain.Product, error) {
	var product domain.Product
	err := s.client.Post(ctx, productsPath, req, &product)

	return product, err
}

func (s *ProductServiceImpl) Update(ctx context.Context, id int64, req dto.ProductRequest) (domain.Product, error) {
	var product domain.Product
	err := s.client.Put(ctx, productPath(id), req, &product)

	return product, err
}

func (s *ProductServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, productPath(id))
}

func productPath(id int64) string {
	return fmt.Sprintf("%s/%d", productsPath, id)
}
