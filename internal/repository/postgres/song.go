package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

var _ model.SongStore = (*SongRepository)(nil)

type SongRepository struct {
	db *Connection
}

func NewSongRepository(db *Connection) *SongRepository {
	return &SongRepository{
		db: db,
	}
}

// Create inserts the song with all its lines and cards in one transaction.
func (r *SongRepository) Create(ctx context.Context, song model.Song) (model.Song, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Song{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO songs (id, owner_id, title, artist, language, lyrics_key)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING created_at`

	savedSong := song
	err = tx.QueryRow(ctx, query,
		song.ID, song.OwnerID, song.Title, song.Artist, song.Language, song.LyricsKey,
	).Scan(&savedSong.CreatedAt)
	if err != nil {
		return model.Song{}, fmt.Errorf("failed to create song: %w", err)
	}

	lineQuery := `INSERT INTO lyrics_lines (id, song_id, line_index, original_text, translation_text, grammar_notes)
				  VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range song.Lines {
		if _, err := tx.Exec(ctx, lineQuery,
			line.ID, song.ID, line.LineIndex, line.OriginalText, line.TranslationText, line.GrammarNotes,
		); err != nil {
			return model.Song{}, fmt.Errorf("failed to create lyrics line: %w", err)
		}
	}

	cardQuery := `INSERT INTO vocab_cards (id, song_id, word, lemma, reading, meaning, part_of_speech, example_sentence, example_translation, is_saved)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false)`
	for _, card := range song.VocabCards {
		if _, err := tx.Exec(ctx, cardQuery,
			card.ID, song.ID, card.Word, card.Lemma, card.Reading, card.Meaning,
			card.PartOfSpeech, card.ExampleSentence, card.ExampleTranslation,
		); err != nil {
			return model.Song{}, fmt.Errorf("failed to create vocab card: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Song{}, fmt.Errorf("failed to commit song: %w", err)
	}

	return savedSong, nil
}

func (r *SongRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Song, error) {
	var song model.Song
	query := `SELECT id, owner_id, title, artist, language, lyrics_key, created_at
			  FROM songs WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&song.ID, &song.OwnerID, &song.Title, &song.Artist, &song.Language, &song.LyricsKey, &song.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Song{}, model.ErrNotFound
		}
		return model.Song{}, fmt.Errorf("failed to get song by id: %w", err)
	}

	song.Lines, err = r.getLines(ctx, id)
	if err != nil {
		return model.Song{}, err
	}

	song.VocabCards, err = r.getCards(ctx, id)
	if err != nil {
		return model.Song{}, err
	}

	return song, nil
}

func (r *SongRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.SongSummary, error) {
	query := `SELECT id, title, artist, language, created_at
			  FROM songs WHERE owner_id = $1
			  ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs by owner: %w", err)
	}
	defer rows.Close()

	var songs []model.SongSummary
	for rows.Next() {
		var song model.SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Language, &song.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song summary: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read song summaries: %w", err)
	}

	return songs, nil
}

// Delete removes the song row; lines and cards go with it via FK cascade.
func (r *SongRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SongRepository) getLines(ctx context.Context, songID uuid.UUID) ([]model.LyricsLine, error) {
	query := `SELECT id, song_id, line_index, original_text, translation_text, grammar_notes
			  FROM lyrics_lines WHERE song_id = $1
			  ORDER BY line_index ASC`

	rows, err := r.db.Query(ctx, query, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lyrics lines: %w", err)
	}
	defer rows.Close()

	var lines []model.LyricsLine
	for rows.Next() {
		var line model.LyricsLine
		if err := rows.Scan(
			&line.ID, &line.SongID, &line.LineIndex,
			&line.OriginalText, &line.TranslationText, &line.GrammarNotes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lyrics line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lyrics lines: %w", err)
	}

	return lines, nil
}

func (r *SongRepository) getCards(ctx context.Context, songID uuid.UUID) ([]model.VocabCard, error) {
	query := `SELECT id, song_id, word, lemma, reading, meaning, part_of_speech, example_sentence, example_translation, is_saved
			  FROM vocab_cards WHERE song_id = $1
			  ORDER BY word ASC`

	rows, err := r.db.Query(ctx, query, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocab cards: %w", err)
	}
	defer rows.Close()

	var cards []model.VocabCard
	for rows.Next() {
		var card model.VocabCard
		if err := rows.Scan(
			&card.ID, &card.SongID, &card.Word, &card.Lemma, &card.Reading, &card.Meaning,
			&card.PartOfSpeech, &card.ExampleSentence, &card.ExampleTranslation, &card.IsSaved,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vocab card: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocab cards: %w", err)
	}

	return cards, nil
}
