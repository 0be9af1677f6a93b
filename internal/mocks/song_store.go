package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

var _ model.SongStore = (*SongStore)(nil)

type SongStore struct {
	mock.Mock
}

func (m *SongStore) Create(ctx context.Context, song model.Song) (model.Song, error) {
	args := m.Called(ctx, song)
	return args.Get(0).(model.Song), args.Error(1)
}

func (m *SongStore) GetByID(ctx context.Context, id uuid.UUID) (model.Song, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Song), args.Error(1)
}

func (m *SongStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.SongSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SongSummary), args.Error(1)
}

func (m *SongStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ model.VocabStore = (*VocabStore)(nil)

type VocabStore struct {
	mock.Mock
}

func (m *VocabStore) ToggleSaved(ctx context.Context, ownerID, cardID uuid.UUID) (model.VocabCard, error) {
	args := m.Called(ctx, ownerID, cardID)
	return args.Get(0).(model.VocabCard), args.Error(1)
}

func (m *VocabStore) ListSavedByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.SavedVocab, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavedVocab), args.Error(1)
}
