package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
)

// Song serves the browsable history: summaries, full details, deletion.
// Every operation is owner-scoped; songs of other users read as not found.
type Song struct {
	songStore model.SongStore
	lyrics    model.Storage
	logger    *logger.Logger
}

func NewSong(songStore model.SongStore, lyrics model.Storage, logger *logger.Logger) *Song {
	return &Song{
		songStore: songStore,
		lyrics:    lyrics,
		logger:    logger,
	}
}

// History returns the caller's analyzed songs, newest first, summaries only.
func (s *Song) History(ctx context.Context, userID uuid.UUID) ([]model.SongSummary, error) {
	songs, err := s.songStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	return songs, nil
}

// GetSong returns the full song with lines, cards and the raw source lyrics.
func (s *Song) GetSong(ctx context.Context, userID, songID uuid.UUID) (model.Song, error) {
	song, err := s.songStore.GetByID(ctx, songID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Song{}, model.ErrNotFound
	}
	if err != nil {
		return model.Song{}, fmt.Errorf("failed to get song by id: %w", err)
	}

	if song.OwnerID != userID {
		return model.Song{}, model.ErrNotFound
	}

	song.SourceText, err = s.downloadLyrics(ctx, song.LyricsKey)
	if err != nil {
		// A missing blob degrades the response, it does not fail it.
		s.logger.Error("Song service: failed to load lyrics blob",
			"song_id", songID,
			"key", song.LyricsKey,
			"error", err.Error())
	}

	return song, nil
}

// DeleteSong removes a song, its dependent rows and its lyrics blob.
func (s *Song) DeleteSong(ctx context.Context, userID, songID uuid.UUID) error {
	song, err := s.songStore.GetByID(ctx, songID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get song by id: %w", err)
	}

	if song.OwnerID != userID {
		return model.ErrNotFound
	}

	if err := s.songStore.Delete(ctx, songID); err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	if err := s.lyrics.Delete(ctx, song.LyricsKey); err != nil {
		s.logger.Error("Song service: failed to delete lyrics blob",
			"song_id", songID,
			"key", song.LyricsKey,
			"error", err.Error())
	}

	s.logger.Info("Song service: song deleted",
		"user_id", userID,
		"song_id", songID)

	return nil
}

func (s *Song) downloadLyrics(ctx context.Context, key string) (string, error) {
	reader, err := s.lyrics.Download(ctx, key)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
