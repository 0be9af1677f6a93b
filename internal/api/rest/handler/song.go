package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
)

// AnalysisService runs the lyric-analysis pipeline for one user.
type AnalysisService interface {
	AnalyzeLyrics(ctx context.Context, userID uuid.UUID, params model.AnalyzeParams) (model.Song, error)
}

// SongService serves the song history owned by one user.
type SongService interface {
	History(ctx context.Context, userID uuid.UUID) ([]model.SongSummary, error)
	GetSong(ctx context.Context, userID, songID uuid.UUID) (model.Song, error)
	DeleteSong(ctx context.Context, userID, songID uuid.UUID) error
}

// Song handles the analyze, history and song detail endpoints.
type Song struct {
	analysisService AnalysisService
	songService     SongService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

// NewSong creates a new Song handler.
func NewSong(
	analysisService AnalysisService,
	songService SongService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Song {
	return &Song{
		analysisService: analysisService,
		songService:     songService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

type analyzeRequest struct {
	Lyrics   string `json:"lyrics"`
	Language string `json:"language"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
}

type lyricsLineRead struct {
	ID              string `json:"id"`
	LineIndex       int    `json:"line_index"`
	OriginalText    string `json:"original_text"`
	TranslationText string `json:"translation_text"`
	GrammarNotes    string `json:"grammar_notes"`
}

type vocabCardRead struct {
	ID                 string `json:"id"`
	Word               string `json:"word"`
	Lemma              string `json:"lemma"`
	Reading            string `json:"reading"`
	Meaning            string `json:"meaning"`
	PartOfSpeech       string `json:"part_of_speech"`
	ExampleSentence    string `json:"example_sentence"`
	ExampleTranslation string `json:"example_translation"`
	IsSaved            bool   `json:"is_saved"`
}

type songRead struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Artist     string           `json:"artist"`
	Language   string           `json:"language"`
	SourceText string           `json:"source_text"`
	CreatedAt  time.Time        `json:"created_at"`
	Lines      []lyricsLineRead `json:"lines"`
	VocabCards []vocabCardRead  `json:"vocab_cards"`
}

type songSummaryRead struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

func toSongRead(song model.Song) songRead {
	out := songRead{
		ID:         song.ID.String(),
		Title:      song.Title,
		Artist:     song.Artist,
		Language:   song.Language,
		SourceText: song.SourceText,
		CreatedAt:  song.CreatedAt,
		Lines:      make([]lyricsLineRead, 0, len(song.Lines)),
		VocabCards: make([]vocabCardRead, 0, len(song.VocabCards)),
	}

	for _, line := range song.Lines {
		out.Lines = append(out.Lines, lyricsLineRead{
			ID:              line.ID.String(),
			LineIndex:       line.LineIndex,
			OriginalText:    line.OriginalText,
			TranslationText: line.TranslationText,
			GrammarNotes:    line.GrammarNotes,
		})
	}
	for _, card := range song.VocabCards {
		out.VocabCards = append(out.VocabCards, toVocabCardRead(card))
	}

	return out
}

func toVocabCardRead(card model.VocabCard) vocabCardRead {
	return vocabCardRead{
		ID:                 card.ID.String(),
		Word:               card.Word,
		Lemma:              card.Lemma,
		Reading:            card.Reading,
		Meaning:            card.Meaning,
		PartOfSpeech:       card.PartOfSpeech,
		ExampleSentence:    card.ExampleSentence,
		ExampleTranslation: card.ExampleTranslation,
		IsSaved:            card.IsSaved,
	}
}

// Analyze runs one lyrics analysis for the authenticated user.
func (h *Song) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	h.logger.Debug("Song handler: processing analyze request",
		"user_id", userID,
		"language", req.Language)

	song, err := h.analysisService.AnalyzeLyrics(r.Context(), userID, model.AnalyzeParams{
		Lyrics:   req.Lyrics,
		Language: req.Language,
		Title:    req.Title,
		Artist:   req.Artist,
	})
	if err != nil {
		h.logger.Error("Song handler: analyze failed",
			"user_id", userID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Song handler: analyze completed",
		"user_id", userID,
		"song_id", song.ID)

	writeJSON(w, http.StatusOK, toSongRead(song))
}

// History lists the authenticated user's analyzed songs, newest first.
func (h *Song) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	songs, err := h.songService.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("Song handler: history failed",
			"user_id", userID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	out := make([]songSummaryRead, 0, len(songs))
	for _, song := range songs {
		out = append(out, songSummaryRead{
			ID:        song.ID.String(),
			Title:     song.Title,
			Artist:    song.Artist,
			Language:  song.Language,
			CreatedAt: song.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// Get returns the full detail of one of the user's songs.
func (h *Song) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	songID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid song id"})
		return
	}

	song, err := h.songService.GetSong(r.Context(), userID, songID)
	if err != nil {
		h.logger.Error("Song handler: get failed",
			"user_id", userID,
			"song_id", songID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSongRead(song))
}

// Delete removes one of the user's songs with its dependent data.
func (h *Song) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	songID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid song id"})
		return
	}

	if err := h.songService.DeleteSong(r.Context(), userID, songID); err != nil {
		h.logger.Error("Song handler: delete failed",
			"user_id", userID,
			"song_id", songID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Song handler: song deleted",
		"user_id", userID,
		"song_id", songID)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
