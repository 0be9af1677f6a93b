package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
)

// Vocab manages the personal saved-vocabulary collection.
type Vocab struct {
	vocabStore model.VocabStore
	logger     *logger.Logger
}

func NewVocab(vocabStore model.VocabStore, logger *logger.Logger) *Vocab {
	return &Vocab{
		vocabStore: vocabStore,
		logger:     logger,
	}
}

// ToggleSaved flips the saved flag of one of the caller's cards and returns
// the updated card. Cards of other users read as not found.
func (v *Vocab) ToggleSaved(ctx context.Context, userID, cardID uuid.UUID) (model.VocabCard, error) {
	card, err := v.vocabStore.ToggleSaved(ctx, userID, cardID)
	if errors.Is(err, model.ErrNotFound) {
		return model.VocabCard{}, model.ErrNotFound
	}
	if err != nil {
		return model.VocabCard{}, fmt.Errorf("failed to toggle vocab card: %w", err)
	}

	v.logger.Debug("Vocab service: card toggled",
		"user_id", userID,
		"card_id", cardID,
		"is_saved", card.IsSaved)

	return card, nil
}

// ListSaved returns the caller's saved cards joined with their song info.
func (v *Vocab) ListSaved(ctx context.Context, userID uuid.UUID) ([]model.SavedVocab, error) {
	cards, err := v.vocabStore.ListSavedByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved vocab: %w", err)
	}

	return cards, nil
}
