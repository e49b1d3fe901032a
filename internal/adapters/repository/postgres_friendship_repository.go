package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var _ domain.FriendshipRepository = (*PostgresFriendshipRepository)(nil)

type PostgresFriendshipRepository struct {
	db *sqlx.DB
}

func NewPostgresFriendshipRepository(db *sqlx.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

func (r *PostgresFriendshipRepository) Create(ctx context.Context, f *domain.Friendship) error {
	query := `
		INSERT INTO friendships (id, requester_id, addressee_id, status, created_at, updated_at)
		VALUES (:id, :requester_id, :addressee_id, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrFriendshipExists
		case isForeignKeyViolation(err):
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: create friendship: %w", err)
	}
	return nil
}

func (r *PostgresFriendshipRepository) GetByID(ctx context.Context, id string) (*domain.Friendship, error) {
	return r.getOne(ctx, `SELECT * FROM friendships WHERE id = $1`, id)
}

func (r *PostgresFriendshipRepository) FindBetween(ctx context.Context, a, b string) (*domain.Friendship, error) {
	query := `
		SELECT * FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)`

	return r.getOne(ctx, query, a, b)
}

func (r *PostgresFriendshipRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Friendship, error) {
	var f domain.Friendship
	if err := r.db.GetContext(ctx, &f, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("repository: get friendship: %w", err)
	}
	return &f, nil
}

func (r *PostgresFriendshipRepository) UpdateStatus(ctx context.Context, f *domain.Friendship) error {
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE friendships SET status = $1, updated_at = $2 WHERE id = $3`,
		string(f.Status), f.UpdatedAt, f.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: update friendship: %w", err)
	}
	return expectOneRow(res, domain.ErrFriendshipNotFound)
}

func (r *PostgresFriendshipRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete friendship: %w", err)
	}
	return expectOneRow(res, domain.ErrFriendshipNotFound)
}

func (r *PostgresFriendshipRepository) ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]*domain.Friendship, error) {
	query := `
		SELECT * FROM friendships
		WHERE (requester_id = $1 OR addressee_id = $1) AND status = $2
		ORDER BY updated_at DESC`

	list := []*domain.Friendship{}
	if err := r.db.SelectContext(ctx, &list, query, userID, string(status)); err != nil {
		return nil, fmt.Errorf("repository: list friendships: %w", err)
	}
	return list, nil
}
