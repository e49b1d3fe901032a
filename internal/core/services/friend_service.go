package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type FriendService struct {
	repo  domain.FriendshipRepository
	users domain.UserRepository
}

func NewFriendService(repo domain.FriendshipRepository, users domain.UserRepository) *FriendService {
	return &FriendService{
		repo:  repo,
		users: users,
	}
}

// SendRequest asks the user registered with email to become a friend of
// requesterID. A previously declined request is replaced.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, email string) (*domain.Friendship, error) {
	addressee, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	request, err := domain.NewFriendRequest(requesterID, addressee.ID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindBetween(ctx, requesterID, addressee.ID)
	switch {
	case errors.Is(err, domain.ErrFriendshipNotFound):
	case err != nil:
		return nil, fmt.Errorf("friend service: lookup relation: %w", err)
	case existing.Blocks():
		return nil, domain.ErrFriendshipExists
	default:
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("friend service: clear declined request: %w", err)
		}
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Respond lets the addressee accept or decline a pending request.
func (s *FriendService) Respond(ctx context.Context, userID, requestID string, accept bool) (*domain.Friendship, error) {
	f, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !f.Involves(userID) {
		return nil, domain.ErrFriendshipNotFound
	}
	if err := f.Respond(userID, accept); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	links, err := s.repo.ListByUser(ctx, userID, domain.FriendshipAccepted)
	if err != nil {
		return nil, err
	}

	friends := make([]domain.Friend, 0, len(links))
	for _, f := range links {
		other, err := s.users.GetByID(ctx, f.Other(userID))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		friends = append(friends, domain.Friend{
			FriendshipID: f.ID,
			UserID:       other.ID,
			DisplayName:  other.DisplayName,
			Email:        other.Email,
			Since:        f.UpdatedAt,
		})
	}
	return friends, nil
}

// ListPending returns the requests waiting for userID to answer.
func (s *FriendService) ListPending(ctx context.Context, userID string) ([]*domain.Friendship, error) {
	links, err := s.repo.ListByUser(ctx, userID, domain.FriendshipPending)
	if err != nil {
		return nil, err
	}

	incoming := make([]*domain.Friendship, 0, len(links))
	for _, f := range links {
		if f.AddresseeID == userID {
			incoming = append(incoming, f)
		}
	}
	return incoming, nil
}

// Remove ends an accepted friendship from either side.
func (s *FriendService) Remove(ctx context.Context, userID, friendID string) error {
	f, err := s.repo.FindBetween(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if f.Status != domain.FriendshipAccepted {
		return domain.ErrFriendshipNotFound
	}
	return s.repo.Delete(ctx, f.ID)
}

func (s *FriendService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	if a == b {
		return false, nil
	}
	f, err := s.repo.FindBetween(ctx, a, b)
	if err != nil {
		if errors.Is(err, domain.ErrFriendshipNotFound) {
			return false, nil
		}
		return false, err
	}
	return f.Status == domain.FriendshipAccepted, nil
}
