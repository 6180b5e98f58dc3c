package services

import (
	"context"
	"errors"

	"CartStoreAPI/internal/model"
	"CartStoreAPI/internal/repository"
)

type ProductService struct {
	Repo *repository.ProductRepository
}

func NewProductService(r *repository.ProductRepository) *ProductService {
	return &ProductService{Repo: r}
}

func (s *ProductService) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		return errors.New("product id is required")
	}
	if p.Title == "" {
		return errors.New("product title is required")
	}
	if p.Price < 0 {
		return errors.New("price must not be negative")
	}
	if p.DiscountPrice != nil && (*p.DiscountPrice < 0 || *p.DiscountPrice > p.Price) {
		return errors.New("discount price must be between 0 and price")
	}
	return s.Repo.Create(ctx, p)
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return s.Repo.List(ctx, limit, offset)
}
