package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var testToday = time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

type MockFriendshipRepository struct {
	mock.Mock
}

func (m *MockFriendshipRepository) Create(ctx context.Context, f *domain.Friendship) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFriendshipRepository) GetByID(ctx context.Context, id string) (*domain.Friendship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) FindBetween(ctx context.Context, a, b string) (*domain.Friendship, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) UpdateStatus(ctx context.Context, f *domain.Friendship) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFriendshipRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFriendshipRepository) ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]*domain.Friendship, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Friendship), args.Error(1)
}

type MockFriendChecker struct {
	mock.Mock
}

func (m *MockFriendChecker) AreFriends(ctx context.Context, a, b string) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNudge(ctx context.Context, notice domain.NudgeNotice) error {
	return m.Called(ctx, notice).Error(0)
}

// memHabitRepo is a map backed HabitRepository with version checks.
type memHabitRepo struct {
	mu            sync.Mutex
	store         map[string]*domain.Habit
	simulateError error
}

func newMemHabitRepo() *memHabitRepo {
	return &memHabitRepo{store: make(map[string]*domain.Habit)}
}

func (m *memHabitRepo) Create(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, exists := m.store[habit.ID]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	if habit.Version == 0 {
		habit.Version = 1
	}
	clone := *habit
	m.store[habit.ID] = &clone
	return nil
}

func (m *memHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	h, ok := m.store[id]
	if !ok || h.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	clone := *h
	return &clone, nil
}

func (m *memHabitRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.Habit
	for _, h := range m.store {
		if h.UserID == userID && h.DeletedAt == nil {
			clone := *h
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *memHabitRepo) Update(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.store[habit.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if existing.Version != habit.Version {
		return domain.ErrHabitConflict
	}
	habit.Version++
	clone := *habit
	m.store[habit.ID] = &clone
	return nil
}

func (m *memHabitRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.store[id]
	if !ok || h.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	now := time.Now().UTC()
	h.DeletedAt = &now
	h.UpdatedAt = now
	h.Version++
	return nil
}

func (m *memHabitRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var changes []*domain.Habit
	for _, h := range m.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			clone := *h
			changes = append(changes, &clone)
		}
	}
	return changes, nil
}

func (m *memHabitRepo) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	h.CurrentStreak = current
	h.LongestStreak = longest
	return nil
}

// memCheckInRepo keys check-ins by habit and date.
type memCheckInRepo struct {
	mu            sync.Mutex
	store         map[string]*domain.CheckIn
	simulateError error
}

func newMemCheckInRepo() *memCheckInRepo {
	return &memCheckInRepo{store: make(map[string]*domain.CheckIn)}
}

func checkInKey(habitID string, day time.Time) string {
	return habitID + "|" + analytics.FormatDate(day)
}

func (m *memCheckInRepo) Upsert(ctx context.Context, c *domain.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	key := checkInKey(c.HabitID, c.Date)
	if existing, ok := m.store[key]; ok && existing.Version != c.Version-1 {
		return domain.ErrCheckInConflict
	}
	clone := *c
	m.store[key] = &clone
	return nil
}

func (m *memCheckInRepo) GetByDate(ctx context.Context, habitID string, date time.Time) (*domain.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[checkInKey(habitID, date)]
	if !ok {
		return nil, domain.ErrCheckInNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *memCheckInRepo) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckIn, error) {
	return m.list(func(c *domain.CheckIn) bool { return c.HabitID == habitID }, from, to)
}

func (m *memCheckInRepo) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.CheckIn, error) {
	return m.list(func(c *domain.CheckIn) bool { return c.UserID == userID }, from, to)
}

func (m *memCheckInRepo) list(match func(*domain.CheckIn) bool, from, to time.Time) ([]*domain.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var out []*domain.CheckIn
	for _, c := range m.store {
		if !match(c) {
			continue
		}
		if !from.IsZero() && c.Date.Before(from) {
			continue
		}
		if !to.IsZero() && c.Date.After(to) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

// seed stores a done check-in for every given date.
func (m *memCheckInRepo) seed(habitID, userID string, dates ...string) {
	for _, d := range dates {
		day, _ := analytics.ParseDate(d)
		c := domain.NewCheckIn(habitID, userID, day, true)
		m.store[checkInKey(habitID, day)] = c
	}
}

type memNudgeRepo struct {
	mu     sync.Mutex
	nudges []*domain.Nudge
}

func (m *memNudgeRepo) Create(ctx context.Context, n *domain.Nudge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.nudges {
		if existing.SenderID == n.SenderID && existing.HabitID == n.HabitID && existing.NudgeDate.Equal(n.NudgeDate) {
			return domain.ErrNudgeTooSoon
		}
	}
	m.nudges = append(m.nudges, n)
	return nil
}

func (m *memNudgeRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Nudge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Nudge
	for _, n := range m.nudges {
		if n.RecipientID == recipientID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []string
}

func (q *recordingQueue) Enqueue(habitID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, habitID)
}
