package services

import (
	"context"
	"testing"

	"CartStoreAPI/internal/model"
	"CartStoreAPI/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRecordRepo struct {
	rows map[string]*model.CartRecord
}

func (r *memRecordRepo) FindByCode(_ context.Context, code string) (*model.CartRecord, error) {
	rec, ok := r.rows[code]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return rec, nil
}

func (r *memRecordRepo) UpdateStatusByCode(_ context.Context, code string, status bool) (bool, error) {
	rec, ok := r.rows[code]
	if !ok {
		return false, nil
	}
	rec.Status = status
	return true, nil
}

func (r *memRecordRepo) ListByStatus(_ context.Context, status bool, _, _ int) ([]model.CartRecord, error) {
	var list []model.CartRecord
	for _, rec := range r.rows {
		if rec.Status == status {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func seededRecordService() (*RecordService, *memRecordRepo) {
	contact := `{"name":"Jan","email":"jan@example.com"}`
	repo := &memRecordRepo{rows: map[string]*model.CartRecord{
		"FEVSVG": {ID: 1, Code: "FEVSVG", Data: `{"A":2,"B":1}`, Contact: &contact},
		"FEVSVH": {ID: 2, Code: "FEVSVH", Data: `{"C":4}`, Status: true},
	}}
	return NewRecordService(repo), repo
}

func TestRecordStatusFlipVisibleByCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededRecordService()

	before, err := svc.GetByCode(ctx, "FEVSVG")
	require.NoError(t, err)
	assert.False(t, before.Status)

	require.NoError(t, svc.SetStatus(ctx, "FEVSVG", true))

	after, err := svc.GetByCode(ctx, "FEVSVG")
	require.NoError(t, err)
	assert.True(t, after.Status)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, after.Data)
	require.NotNil(t, after.Contact)
	assert.Equal(t, "jan@example.com", after.Contact.Email)
}

func TestRecordSetStatusMissingCode(t *testing.T) {
	svc, _ := seededRecordService()
	err := svc.SetStatus(context.Background(), "NOPE", true)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestRecordGetByCodeMissing(t *testing.T) {
	svc, _ := seededRecordService()
	_, err := svc.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestRecordListByStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededRecordService()

	waiting, err := svc.ListByStatus(ctx, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "FEVSVG", waiting[0].Code)

	done, err := svc.ListByStatus(ctx, true, 0, 0)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "FEVSVH", done[0].Code)
	assert.Equal(t, map[string]int{"C": 4}, done[0].Data)

	// A flip moves the record between the two lists.
	require.NoError(t, svc.SetStatus(ctx, "FEVSVG", true))
	waiting, err = svc.ListByStatus(ctx, false, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, waiting)
}
