package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Interaction is a single touchpoint with a lead. The interaction log is
// append-only; only the count feeds the lead score.
type Interaction struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	Kind       string
	Note       *string
	OccurredAt time.Time
	CreatedAt  time.Time
}

type AddInteractionParams struct {
	LeadID     uuid.UUID
	Kind       string
	Note       *string
	OccurredAt time.Time
}

// AddInteraction appends an interaction and bumps the lead's interaction
// count in one transaction. Returns the lead as it stands after the bump
// so the caller can rescore it.
func (r *Repository) AddInteraction(ctx context.Context, params AddInteractionParams) (Interaction, Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Interaction{}, Lead{}, err
	}
	defer tx.Rollback(ctx)

	var interaction Interaction
	err = tx.QueryRow(ctx, `
		INSERT INTO lead_interactions (lead_id, kind, note, occurred_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, kind, note, occurred_at, created_at
	`, params.LeadID, params.Kind, params.Note, params.OccurredAt).Scan(
		&interaction.ID, &interaction.LeadID, &interaction.Kind,
		&interaction.Note, &interaction.OccurredAt, &interaction.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Interaction{}, Lead{}, ErrNotFound
		}
		return Interaction{}, Lead{}, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE leads SET interaction_count = interaction_count + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, params.LeadID)
	lead, err := scanLead(row)
	if err != nil {
		return Interaction{}, Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Interaction{}, Lead{}, err
	}

	return interaction, lead, nil
}

// SetScore persists a recalculated score without touching other fields.
func (r *Repository) SetScore(ctx context.Context, id uuid.UUID, score int) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET lead_score = $2
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, score)
	return scanLead(row)
}

// ListInteractions returns the interaction log for a lead, newest first.
func (r *Repository) ListInteractions(ctx context.Context, leadID uuid.UUID) ([]Interaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, kind, note, occurred_at, created_at
		FROM lead_interactions
		WHERE lead_id = $1
		ORDER BY occurred_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Interaction, 0)
	for rows.Next() {
		var item Interaction
		if err := rows.Scan(&item.ID, &item.LeadID, &item.Kind, &item.Note, &item.OccurredAt, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23503"
	}
	return false
}
