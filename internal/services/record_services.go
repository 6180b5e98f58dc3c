package services

import (
	"context"
	"encoding/json"

	"CartStoreAPI/internal/model"
	"CartStoreAPI/internal/repository"
)

// RecordRepository is what the workflow operations need from the cart
// repository.
type RecordRepository interface {
	FindByCode(ctx context.Context, code string) (*model.CartRecord, error)
	UpdateStatusByCode(ctx context.Context, code string, status bool) (bool, error)
	ListByStatus(ctx context.Context, status bool, limit, offset int) ([]model.CartRecord, error)
}

// RecordService exposes the backing records to downstream workflow tooling:
// find a cart by its shared code, flip its status, list what is waiting.
type RecordService struct {
	Repo RecordRepository
}

func NewRecordService(r RecordRepository) *RecordService {
	return &RecordService{Repo: r}
}

// RecordView is a record with its JSON columns decoded.
type RecordView struct {
	ID        int64              `json:"id"`
	Code      string             `json:"code"`
	Data      map[string]int     `json:"data"`
	Contact   *model.ContactInfo `json:"contact,omitempty"`
	CreatedAt int64              `json:"created_at"`
	UpdatedAt int64              `json:"updated_at"`
	Status    bool               `json:"status"`
}

func (s *RecordService) GetByCode(ctx context.Context, code string) (*RecordView, error) {
	rec, err := s.Repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return decodeRecord(rec), nil
}

func (s *RecordService) SetStatus(ctx context.Context, code string, status bool) error {
	matched, err := s.Repo.UpdateStatusByCode(ctx, code, status)
	if err != nil {
		return err
	}
	if !matched {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (s *RecordService) ListByStatus(ctx context.Context, status bool, limit, offset int) ([]RecordView, error) {
	recs, err := s.Repo.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]RecordView, 0, len(recs))
	for i := range recs {
		views = append(views, *decodeRecord(&recs[i]))
	}
	return views, nil
}

func decodeRecord(rec *model.CartRecord) *RecordView {
	view := &RecordView{
		ID:        rec.ID,
		Code:      rec.Code,
		Data:      map[string]int{},
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Status:    rec.Status,
	}
	// Stored blobs are written by us; unreadable ones just show empty.
	_ = json.Unmarshal([]byte(rec.Data), &view.Data)
	if rec.Contact != nil {
		var info model.ContactInfo
		if err := json.Unmarshal([]byte(*rec.Contact), &info); err == nil {
			view.Contact = &info
		}
	}
	return view
}
