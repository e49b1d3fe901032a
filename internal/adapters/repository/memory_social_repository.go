package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var (
	_ domain.UserRepository       = (*InMemoryUserRepository)(nil)
	_ domain.FriendshipRepository = (*InMemoryFriendshipRepository)(nil)
	_ domain.NudgeRepository      = (*InMemoryNudgeRepository)(nil)
)

type InMemoryUserRepository struct {
	byID map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{byID: make(map[string]*domain.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type InMemoryFriendshipRepository struct {
	store map[string]*domain.Friendship

	mu sync.RWMutex
}

func NewInMemoryFriendshipRepository() *InMemoryFriendshipRepository {
	return &InMemoryFriendshipRepository{store: make(map[string]*domain.Friendship)}
}

func (r *InMemoryFriendshipRepository) Create(ctx context.Context, f *domain.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.between(f.RequesterID, f.AddresseeID) != nil {
		return domain.ErrFriendshipExists
	}
	clone := *f
	r.store[f.ID] = &clone
	return nil
}

func (r *InMemoryFriendshipRepository) GetByID(ctx context.Context, id string) (*domain.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.store[id]
	if !ok {
		return nil, domain.ErrFriendshipNotFound
	}
	clone := *f
	return &clone, nil
}

func (r *InMemoryFriendshipRepository) FindBetween(ctx context.Context, a, b string) (*domain.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f := r.between(a, b)
	if f == nil {
		return nil, domain.ErrFriendshipNotFound
	}
	clone := *f
	return &clone, nil
}

// between must be called with the lock held.
func (r *InMemoryFriendshipRepository) between(a, b string) *domain.Friendship {
	for _, f := range r.store {
		if f.Involves(a) && f.Other(a) == b {
			return f
		}
	}
	return nil
}

func (r *InMemoryFriendshipRepository) UpdateStatus(ctx context.Context, f *domain.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[f.ID]
	if !ok {
		return domain.ErrFriendshipNotFound
	}
	existing.Status = f.Status
	existing.UpdatedAt = f.UpdatedAt
	if existing.UpdatedAt.IsZero() {
		existing.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *InMemoryFriendshipRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrFriendshipNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryFriendshipRepository) ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]*domain.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []*domain.Friendship{}
	for _, f := range r.store {
		if f.Involves(userID) && f.Status == status {
			clone := *f
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list, nil
}

type InMemoryNudgeRepository struct {
	nudges []*domain.Nudge

	mu sync.RWMutex
}

func NewInMemoryNudgeRepository() *InMemoryNudgeRepository {
	return &InMemoryNudgeRepository{}
}

func (r *InMemoryNudgeRepository) Create(ctx context.Context, n *domain.Nudge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.nudges {
		if existing.SenderID == n.SenderID && existing.HabitID == n.HabitID && existing.NudgeDate.Equal(n.NudgeDate) {
			return domain.ErrNudgeTooSoon
		}
	}
	clone := *n
	r.nudges = append(r.nudges, &clone)
	return nil
}

// ListByRecipient returns the newest nudges first.
func (r *InMemoryNudgeRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Nudge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Nudge{}
	for i := len(r.nudges) - 1; i >= 0 && len(out) < limit; i-- {
		if n := r.nudges[i]; n.RecipientID == recipientID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}
