package repository

import (
	"context"
	"errors"
	"time"

	"CartStoreAPI/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products (id, title, price, discount_price, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.Exec(ctx, query, p.ID, p.Title, p.Price, p.DiscountPrice, time.Now())
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	query := `
		SELECT id, title, price, discount_price, created_at, deleted_at
		FROM products
		WHERE id=$1 AND deleted_at IS NULL
	`
	if err := r.DB.
		QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Title, &p.Price, &p.DiscountPrice, &p.CreatedAt, &p.DeletedAt); err != nil {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// FindOne satisfies the cart catalog contract.
func (r *ProductRepository) FindOne(ctx context.Context, id string) (model.Position, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT id, title, price, discount_price, created_at, deleted_at FROM products WHERE deleted_at IS NULL ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.DiscountPrice, &p.CreatedAt, &p.DeletedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}
