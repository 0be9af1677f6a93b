package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
)

// Analysis runs the lyric-analysis pipeline: quota gate, AI call, then
// persisting the song graph and the raw lyrics blob. The quota unit spent on
// an admitted request is not refunded if the AI call fails afterwards.
type Analysis struct {
	songStore model.SongStore
	quota     *Quota
	analyzer  model.Analyzer
	lyrics    model.Storage
	logger    *logger.Logger
}

func NewAnalysis(
	songStore model.SongStore,
	quota *Quota,
	analyzer model.Analyzer,
	lyrics model.Storage,
	logger *logger.Logger,
) *Analysis {
	return &Analysis{
		songStore: songStore,
		quota:     quota,
		analyzer:  analyzer,
		lyrics:    lyrics,
		logger:    logger,
	}
}

// AnalyzeLyrics analyzes params.Lyrics for userID and persists the result.
// Input validation happens before the quota check so malformed requests never
// spend a quota unit; the quota check happens before the AI call so
// over-limit users never reach the expensive provider.
func (s *Analysis) AnalyzeLyrics(ctx context.Context, userID uuid.UUID, params model.AnalyzeParams) (model.Song, error) {
	if strings.TrimSpace(params.Lyrics) == "" || strings.TrimSpace(params.Language) == "" {
		return model.Song{}, fmt.Errorf("%w: lyrics and language are required", model.ErrInvalidInput)
	}

	if err := s.quota.CheckAndConsume(ctx, userID); err != nil {
		return model.Song{}, err
	}

	analysis, err := s.analyzer.Analyze(ctx, params.Lyrics, params.Language)
	if err != nil {
		s.logger.Error("Analysis service: AI analysis failed",
			"user_id", userID,
			"error", err.Error())
		return model.Song{}, fmt.Errorf("failed to analyze lyrics: %w", err)
	}

	songID := uuid.New()
	song := model.Song{
		ID:        songID,
		OwnerID:   userID,
		Title:     firstNonBlank(params.Title, analysis.Title, "Unknown Title"),
		Artist:    firstNonBlank(params.Artist, analysis.Artist, "Unknown Artist"),
		Language:  params.Language,
		LyricsKey: lyricsKey(songID),
	}

	for _, line := range analysis.Lines {
		song.Lines = append(song.Lines, model.LyricsLine{
			ID:              uuid.New(),
			SongID:          songID,
			LineIndex:       line.LineIndex,
			OriginalText:    line.OriginalText,
			TranslationText: line.TranslationText,
			GrammarNotes:    line.GrammarNotes,
		})
	}
	for _, vocab := range analysis.Vocab {
		song.VocabCards = append(song.VocabCards, model.VocabCard{
			ID:                 uuid.New(),
			SongID:             songID,
			Word:               vocab.Word,
			Lemma:              vocab.Lemma,
			Reading:            vocab.Reading,
			Meaning:            vocab.Meaning,
			PartOfSpeech:       vocab.PartOfSpeech,
			ExampleSentence:    vocab.ExampleSentence,
			ExampleTranslation: vocab.ExampleTranslation,
		})
	}

	if err := s.lyrics.Upload(ctx, song.LyricsKey, strings.NewReader(params.Lyrics)); err != nil {
		s.logger.Error("Analysis service: failed to upload lyrics blob",
			"user_id", userID,
			"key", song.LyricsKey,
			"error", err.Error())
		return model.Song{}, fmt.Errorf("failed to store lyrics: %w", err)
	}

	saved, err := s.songStore.Create(ctx, song)
	if err != nil {
		// The blob is orphaned if this cleanup fails; it is keyed by a song
		// ID that no row references, so it can be swept offline.
		if delErr := s.lyrics.Delete(ctx, song.LyricsKey); delErr != nil {
			s.logger.Error("Analysis service: failed to clean up lyrics blob",
				"key", song.LyricsKey,
				"error", delErr.Error())
		}
		s.logger.Error("Analysis service: failed to save song",
			"user_id", userID,
			"error", err.Error())
		return model.Song{}, fmt.Errorf("failed to save song: %w", err)
	}

	saved.SourceText = params.Lyrics

	s.logger.Info("Analysis service: song analyzed",
		"user_id", userID,
		"song_id", saved.ID,
		"lines", len(saved.Lines),
		"vocab_cards", len(saved.VocabCards))

	return saved, nil
}

func lyricsKey(songID uuid.UUID) string {
	return "lyrics/" + songID.String()
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
