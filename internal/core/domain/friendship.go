package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrFriendshipNotFound   = errors.New("friendship not found")
	ErrFriendshipExists     = errors.New("a friendship or pending request already exists")
	ErrFriendRequestSelf    = errors.New("cannot send a friend request to yourself")
	ErrFriendshipNotPending = errors.New("friend request is no longer pending")
	ErrNotFriends           = errors.New("users are not friends")
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
)

// Friendship is a directed request that becomes a mutual link once the
// addressee accepts it.
type Friendship struct {
	ID          string           `json:"id" db:"id"`
	RequesterID string           `json:"requester_id" db:"requester_id"`
	AddresseeID string           `json:"addressee_id" db:"addressee_id"`
	Status      FriendshipStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

func NewFriendRequest(requesterID, addresseeID string) (*Friendship, error) {
	if requesterID == "" || addresseeID == "" {
		return nil, ErrUserNotFound
	}
	if requesterID == addresseeID {
		return nil, ErrFriendRequestSelf
	}

	now := time.Now().UTC()
	return &Friendship{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      FriendshipPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Respond accepts or declines a pending request on behalf of userID.
// Only the addressee may answer.
func (f *Friendship) Respond(userID string, accept bool) error {
	if f.AddresseeID != userID {
		return ErrUnauthorized
	}
	if f.Status != FriendshipPending {
		return ErrFriendshipNotPending
	}

	f.Status = FriendshipDeclined
	if accept {
		f.Status = FriendshipAccepted
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Involves reports whether userID is one of the two sides.
func (f *Friendship) Involves(userID string) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// Other returns the id on the opposite side from userID.
func (f *Friendship) Other(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Blocks reports whether this relation prevents a new request between the
// same two users.
func (f *Friendship) Blocks() bool {
	return f.Status == FriendshipPending || f.Status == FriendshipAccepted
}

// Friend is the public view of an accepted friend.
type Friend struct {
	FriendshipID string    `json:"friendship_id"`
	UserID       string    `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	Since        time.Time `json:"since"`
}
