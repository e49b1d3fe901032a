package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var (
	_ domain.HabitRepository   = (*InMemoryHabitRepository)(nil)
	_ domain.CheckInRepository = (*InMemoryCheckInRepository)(nil)
)

// InMemoryHabitRepository mirrors the Postgres semantics (soft delete,
// version checks) for local runs and tests. Values are copied in and out.
type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func cloneHabit(h *domain.Habit) *domain.Habit {
	c := *h
	if h.Weekdays != nil {
		c.Weekdays = append([]int(nil), h.Weekdays...)
	}
	return &c
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[habit.ID]; exists {
		return domain.ErrHabitConflict
	}
	habit.Version = 1
	r.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	return cloneHabit(habit), nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return r.filter(func(h *domain.Habit) bool {
		return h.UserID == userID && h.DeletedAt == nil
	}, func(a, b *domain.Habit) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	}), nil
}

func (r *InMemoryHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	return r.filter(func(h *domain.Habit) bool {
		return h.UserID == userID && h.UpdatedAt.After(since)
	}, func(a, b *domain.Habit) bool {
		return a.UpdatedAt.Before(b.UpdatedAt)
	}), nil
}

func (r *InMemoryHabitRepository) filter(keep func(*domain.Habit) bool, less func(a, b *domain.Habit) bool) []*domain.Habit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if keep(h) {
			habits = append(habits, cloneHabit(h))
		}
	}
	sort.Slice(habits, func(i, j int) bool { return less(habits[i], habits[j]) })
	return habits
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[habit.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if existing.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	habit.CurrentStreak = existing.CurrentStreak
	habit.LongestStreak = existing.LongestStreak
	r.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.store[id]
	if !ok || h.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	now := time.Now().UTC()
	h.DeletedAt = &now
	h.UpdatedAt = now
	h.Version++
	return nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.store[id]
	if !ok || h.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	h.CurrentStreak = current
	h.LongestStreak = longest
	return nil
}

type InMemoryCheckInRepository struct {
	// keyed by habit id, then YYYY-MM-DD
	store map[string]map[string]*domain.CheckIn

	mu sync.RWMutex
}

func NewInMemoryCheckInRepository() *InMemoryCheckInRepository {
	return &InMemoryCheckInRepository{
		store: make(map[string]map[string]*domain.CheckIn),
	}
}

func (r *InMemoryCheckInRepository) Upsert(ctx context.Context, c *domain.CheckIn) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	days, ok := r.store[c.HabitID]
	if !ok {
		days = make(map[string]*domain.CheckIn)
		r.store[c.HabitID] = days
	}

	key := c.DateKey()
	if existing, ok := days[key]; ok {
		if existing.Version != c.Version-1 {
			return domain.ErrCheckInConflict
		}
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	}

	stored := *c
	stored.Date = analytics.Day(c.Date)
	days[key] = &stored
	return nil
}

func (r *InMemoryCheckInRepository) GetByDate(ctx context.Context, habitID string, date time.Time) (*domain.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.store[habitID][analytics.FormatDate(date)]
	if !ok {
		return nil, domain.ErrCheckInNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *InMemoryCheckInRepository) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedInRange(r.store[habitID], from, to), nil
}

func (r *InMemoryCheckInRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mine := make(map[string]*domain.CheckIn)
	for habitID, days := range r.store {
		for key, c := range days {
			if c.UserID == userID {
				mine[habitID+key] = c
			}
		}
	}
	return sortedInRange(mine, from, to), nil
}

func sortedInRange(days map[string]*domain.CheckIn, from, to time.Time) []*domain.CheckIn {
	from, to = analytics.Day(from), analytics.Day(to)

	out := []*domain.CheckIn{}
	for _, c := range days {
		if !from.IsZero() && c.Date.Before(from) {
			continue
		}
		if !to.IsZero() && c.Date.After(to) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
