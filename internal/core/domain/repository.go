package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")
	ErrUnauthorized  = errors.New("unauthorized access to resource")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves an active habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all active habits of a user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies an existing habit. The stored version must match
	// habit.Version, otherwise ErrHabitConflict is returned.
	Update(ctx context.Context, habit *Habit) error

	// Delete soft deletes a habit so that sync clients can see the removal.
	Delete(ctx context.Context, id string) error

	// GetChanges [SYNC] returns habits created, updated or deleted after since.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Habit, error)

	// UpdateStreaks stores the streaks computed by the worker. It does not
	// bump the version.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type CheckInRepository interface {
	// Upsert writes the check-in for its (habit, date). An existing row is
	// updated only if its version is checkIn.Version-1, otherwise
	// ErrCheckInConflict is returned.
	Upsert(ctx context.Context, checkIn *CheckIn) error

	// GetByDate returns the check-in of a habit for one day.
	GetByDate(ctx context.Context, habitID string, date time.Time) (*CheckIn, error)

	// ListByHabitID returns the check-ins of a habit between from and to
	// inclusive, ordered by date. Zero bounds are open.
	ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*CheckIn, error)

	// ListByUserID returns every check-in of a user between from and to.
	ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*CheckIn, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type FriendshipRepository interface {
	Create(ctx context.Context, f *Friendship) error
	GetByID(ctx context.Context, id string) (*Friendship, error)

	// FindBetween returns the relation linking a and b in either direction.
	FindBetween(ctx context.Context, a, b string) (*Friendship, error)

	UpdateStatus(ctx context.Context, f *Friendship) error
	Delete(ctx context.Context, id string) error

	// ListByUser returns the relations of userID with the given status.
	ListByUser(ctx context.Context, userID string, status FriendshipStatus) ([]*Friendship, error)
}

type NudgeRepository interface {
	// Create fails with ErrNudgeTooSoon when the sender already nudged the
	// habit on the same day.
	Create(ctx context.Context, n *Nudge) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*Nudge, error)
}
