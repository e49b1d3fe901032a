package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

const HabitListTTL = 30 * time.Minute

// CachedHabitRepository serves ListByUserID from Redis. Every write that
// changes what the list shows bumps a per-user generation, and lists are
// cached under the generation they were read at. A list loaded before a
// concurrent write therefore lands under a key nobody reads again.
type CachedHabitRepository struct {
	next  domain.HabitRepository
	store *cache.Store
}

func NewCachedHabitRepository(next domain.HabitRepository, store *cache.Store) *CachedHabitRepository {
	return &CachedHabitRepository{
		next:  next,
		store: store,
	}
}

func (r *CachedHabitRepository) genKey(userID string) string {
	return r.store.Key("habits", userID, "gen")
}

func (r *CachedHabitRepository) listKey(userID string, gen int64) string {
	return r.store.Key("habits", userID, "v"+strconv.FormatInt(gen, 10))
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, userID string) {
	if _, err := r.store.Incr(ctx, r.genKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("cache: invalidation failed")
	}
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	var gen int64
	if _, err := r.store.Get(ctx, r.genKey(userID), &gen); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("cache: generation read error, bypassing cache")
		return r.next.ListByUserID(ctx, userID)
	}
	key := r.listKey(userID, gen)

	var habits []*domain.Habit
	hit, err := r.store.Get(ctx, key, &habits)
	switch {
	case hit:
		return habits, nil
	case errors.Is(err, cache.ErrCorrupted):
		log.Warn().Str("user_id", userID).Msg("cache: corrupted habit list removed")
	case err != nil:
		log.Warn().Err(err).Msg("cache: redis read error")
	}

	habits, err = r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.store.Set(ctx, key, habits); err != nil {
		log.Warn().Err(err).Msg("cache: redis set error")
	}
	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	return r.next.GetChanges(ctx, userID, since)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	habit, err := r.next.GetByID(ctx, id)
	if err == nil {
		defer r.invalidate(ctx, habit.UserID)
	}
	return r.next.Delete(ctx, id)
}

func (r *CachedHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	habit, err := r.next.GetByID(ctx, id)
	if err == nil {
		defer r.invalidate(ctx, habit.UserID)
	}
	return r.next.UpdateStreaks(ctx, id, current, longest)
}
