package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

var _ model.VocabStore = (*VocabRepository)(nil)

type VocabRepository struct {
	db *Connection
}

func NewVocabRepository(db *Connection) *VocabRepository {
	return &VocabRepository{
		db: db,
	}
}

// ToggleSaved flips is_saved in place; the join on songs enforces ownership
// so a foreign card behaves exactly like a missing one.
func (r *VocabRepository) ToggleSaved(ctx context.Context, ownerID, cardID uuid.UUID) (model.VocabCard, error) {
	query := `UPDATE vocab_cards vc
			  SET is_saved = NOT vc.is_saved
			  FROM songs s
			  WHERE vc.id = $2 AND s.id = vc.song_id AND s.owner_id = $1
			  RETURNING vc.id, vc.song_id, vc.word, vc.lemma, vc.reading, vc.meaning, vc.part_of_speech, vc.example_sentence, vc.example_translation, vc.is_saved`

	var card model.VocabCard
	err := r.db.QueryRow(ctx, query, ownerID, cardID).Scan(
		&card.ID, &card.SongID, &card.Word, &card.Lemma, &card.Reading, &card.Meaning,
		&card.PartOfSpeech, &card.ExampleSentence, &card.ExampleTranslation, &card.IsSaved,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VocabCard{}, model.ErrNotFound
		}
		return model.VocabCard{}, fmt.Errorf("failed to toggle vocab card: %w", err)
	}

	return card, nil
}

func (r *VocabRepository) ListSavedByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.SavedVocab, error) {
	query := `SELECT vc.id, vc.song_id, vc.word, vc.lemma, vc.reading, vc.meaning, vc.part_of_speech, vc.example_sentence, vc.example_translation, vc.is_saved,
			         s.title, s.artist
			  FROM vocab_cards vc
			  JOIN songs s ON s.id = vc.song_id
			  WHERE s.owner_id = $1 AND vc.is_saved
			  ORDER BY s.created_at DESC, vc.word ASC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved vocab: %w", err)
	}
	defer rows.Close()

	var cards []model.SavedVocab
	for rows.Next() {
		var card model.SavedVocab
		if err := rows.Scan(
			&card.ID, &card.SongID, &card.Word, &card.Lemma, &card.Reading, &card.Meaning,
			&card.PartOfSpeech, &card.ExampleSentence, &card.ExampleTranslation, &card.IsSaved,
			&card.SongTitle, &card.SongArtist,
		); err != nil {
			return nil, fmt.Errorf("failed to scan saved vocab: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read saved vocab: %w", err)
	}

	return cards, nil
}
