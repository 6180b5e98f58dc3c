package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CartStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrRecordNotFound = errors.New("cart record not found")

	// ErrCodeConflict means the generated code collided with an existing
	// row. There is no retry: the generator is date+id based, so a
	// collision is data corruption, not bad luck.
	ErrCodeConflict = errors.New("cart code conflict")
)

type CartRepository struct {
	DB *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

// Create inserts a new cart record and backfills its code, derived from the
// creation date and the assigned row id, in the same transaction.
func (r *CartRepository) Create(ctx context.Context, data string) (*model.CartRecord, error) {
	now := time.Now()

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	query := `INSERT INTO cart (data, contact, created_at, updated_at, status) VALUES ($1, NULL, $2, $3, false) RETURNING id`
	if err := tx.QueryRow(ctx, query, data, now.Unix(), now.Unix()).Scan(&id); err != nil {
		return nil, err
	}

	code, err := GenerateCode(now, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE cart SET code=$1 WHERE id=$2`, code, id); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCodeConflict
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &model.CartRecord{
		ID:        id,
		Code:      code,
		Data:      data,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}, nil
}

// UpdateDataByCode replaces the record's data and bumps updated_at. Reports
// whether any row matched the code.
func (r *CartRepository) UpdateDataByCode(ctx context.Context, code, data string) (bool, error) {
	query := `UPDATE cart SET data=$1, updated_at=$2 WHERE code=$3`
	tag, err := r.DB.Exec(ctx, query, data, time.Now().Unix(), code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CartRepository) FindByCode(ctx context.Context, code string) (*model.CartRecord, error) {
	var rec model.CartRecord
	query := `SELECT id, code, data, contact, created_at, updated_at, status FROM cart WHERE code=$1`
	if err := r.DB.
		QueryRow(ctx, query, code).
		Scan(&rec.ID, &rec.Code, &rec.Data, &rec.Contact, &rec.CreatedAt, &rec.UpdatedAt, &rec.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *CartRepository) UpdateContactByCode(ctx context.Context, code, contact string) (bool, error) {
	query := `UPDATE cart SET contact=$1, updated_at=$2 WHERE code=$3`
	tag, err := r.DB.Exec(ctx, query, contact, time.Now().Unix(), code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatusByCode flips the downstream workflow flag.
func (r *CartRepository) UpdateStatusByCode(ctx context.Context, code string, status bool) (bool, error) {
	query := `UPDATE cart SET status=$1, updated_at=$2 WHERE code=$3`
	tag, err := r.DB.Exec(ctx, query, status, time.Now().Unix(), code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CartRepository) ListByStatus(ctx context.Context, status bool, limit, offset int) ([]model.CartRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT id, code, data, contact, created_at, updated_at, status FROM cart WHERE status=$1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.CartRecord
	for rows.Next() {
		var rec model.CartRecord
		if err := rows.Scan(&rec.ID, &rec.Code, &rec.Data, &rec.Contact, &rec.CreatedAt, &rec.UpdatedAt, &rec.Status); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, nil
}

// GenerateCode derives the record's correlation code: the creation date as
// ddMMyyyy, a literal "0", then the row id, read as one base-10 number and
// re-encoded in base 35, uppercased. Unique as long as row ids never repeat.
func GenerateCode(t time.Time, id int64) (string, error) {
	raw := t.Format("02012006") + "0" + strconv.FormatInt(id, 10)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", fmt.Errorf("code out of range for id %d: %w", id, err)
	}
	return strings.ToUpper(strconv.FormatInt(n, 35)), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
