package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var _ domain.NudgeRepository = (*PostgresNudgeRepository)(nil)

type PostgresNudgeRepository struct {
	db *sqlx.DB
}

func NewPostgresNudgeRepository(db *sqlx.DB) *PostgresNudgeRepository {
	return &PostgresNudgeRepository{db: db}
}

func (r *PostgresNudgeRepository) Create(ctx context.Context, n *domain.Nudge) error {
	query := `
		INSERT INTO nudges (id, sender_id, recipient_id, habit_id, message, nudge_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.SenderID, n.RecipientID, n.HabitID, n.Message, dateArg(n.NudgeDate), n.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrNudgeTooSoon
		case isForeignKeyViolation(err):
			return domain.ErrHabitNotFound
		}
		return fmt.Errorf("repository: create nudge: %w", err)
	}
	return nil
}

func (r *PostgresNudgeRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Nudge, error) {
	query := `
		SELECT * FROM nudges
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	nudges := []*domain.Nudge{}
	if err := r.db.SelectContext(ctx, &nudges, query, recipientID, limit); err != nil {
		return nil, fmt.Errorf("repository: list nudges: %w", err)
	}
	for _, n := range nudges {
		n.NudgeDate = analytics.Day(n.NudgeDate)
	}
	return nudges, nil
}
