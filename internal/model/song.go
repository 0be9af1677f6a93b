package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SongStore defines persistence operations for analyzed songs and their
// dependent rows. Create inserts the whole graph in one transaction.
type SongStore interface {
	Create(ctx context.Context, song Song) (Song, error)
	GetByID(ctx context.Context, id uuid.UUID) (Song, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]SongSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VocabStore defines persistence operations for vocabulary cards.
type VocabStore interface {
	// ToggleSaved flips the saved flag of a card owned (via its song) by
	// ownerID and returns the updated card. Foreign cards yield ErrNotFound.
	ToggleSaved(ctx context.Context, ownerID, cardID uuid.UUID) (VocabCard, error)
	ListSavedByOwner(ctx context.Context, ownerID uuid.UUID) ([]SavedVocab, error)
}

// Song is one analyzed set of lyrics with its breakdown.
// SourceText is kept in object storage and hydrated on detail reads;
// LyricsKey is the storage key.
type Song struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Title      string
	Artist     string
	Language   string
	LyricsKey  string
	SourceText string
	CreatedAt  time.Time
	Lines      []LyricsLine
	VocabCards []VocabCard
}

// SongSummary is the history list view: no lines, no cards, no source text.
type SongSummary struct {
	ID        uuid.UUID
	Title     string
	Artist    string
	Language  string
	CreatedAt time.Time
}

// LyricsLine is one original line with its translation and grammar notes.
type LyricsLine struct {
	ID              uuid.UUID
	SongID          uuid.UUID
	LineIndex       int
	OriginalText    string
	TranslationText string
	GrammarNotes    string
}

// VocabCard is one vocabulary entry extracted from a song.
type VocabCard struct {
	ID                 uuid.UUID
	SongID             uuid.UUID
	Word               string
	Lemma              string
	Reading            string
	Meaning            string
	PartOfSpeech       string
	ExampleSentence    string
	ExampleTranslation string
	IsSaved            bool
}

// SavedVocab is a saved card joined with the song it came from.
type SavedVocab struct {
	VocabCard
	SongTitle  string
	SongArtist string
}
