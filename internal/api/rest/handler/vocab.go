package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
)

// VocabService manages the saved-vocabulary collection of one user.
type VocabService interface {
	ToggleSaved(ctx context.Context, userID, cardID uuid.UUID) (model.VocabCard, error)
	ListSaved(ctx context.Context, userID uuid.UUID) ([]model.SavedVocab, error)
}

// Vocab handles the vocabulary card endpoints.
type Vocab struct {
	vocabService   VocabService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewVocab creates a new Vocab handler.
func NewVocab(vocabService VocabService, contextManager model.ContextManager, logger *logger.Logger) *Vocab {
	return &Vocab{
		vocabService:   vocabService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type savedVocabRead struct {
	vocabCardRead
	SongID     string `json:"song_id"`
	SongTitle  string `json:"song_title"`
	SongArtist string `json:"song_artist"`
}

// ToggleSave flips the saved flag of one of the user's vocabulary cards.
func (h *Vocab) ToggleSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	cardID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid vocab card id"})
		return
	}

	card, err := h.vocabService.ToggleSaved(r.Context(), userID, cardID)
	if err != nil {
		h.logger.Error("Vocab handler: toggle failed",
			"user_id", userID,
			"card_id", cardID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Vocab handler: card toggled",
		"user_id", userID,
		"card_id", cardID,
		"is_saved", card.IsSaved)

	writeJSON(w, http.StatusOK, toVocabCardRead(card))
}

// ListSaved returns the user's saved cards with their song info.
func (h *Vocab) ListSaved(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	cards, err := h.vocabService.ListSaved(r.Context(), userID)
	if err != nil {
		h.logger.Error("Vocab handler: list saved failed",
			"user_id", userID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	out := make([]savedVocabRead, 0, len(cards))
	for _, card := range cards {
		out = append(out, savedVocabRead{
			vocabCardRead: toVocabCardRead(card.VocabCard),
			SongID:        card.SongID.String(),
			SongTitle:     card.SongTitle,
			SongArtist:    card.SongArtist,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
