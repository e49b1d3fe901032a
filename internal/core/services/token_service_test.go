package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	secret := "super-secret-key-for-testing"
	issuer := "kanso-test"
	userID := "user-123-uuid"
	ctx := context.Background()

	setup := func() (*TokenService, *MockUserRepository) {
		mockRepo := new(MockUserRepository)
		return NewTokenService(secret, issuer, 1*time.Hour, mockRepo), mockRepo
	}

	t.Run("Success: Should generate and validate a token", func(t *testing.T) {
		service, mockRepo := setup()

		mockRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)

		tokenString, err := service.GenerateToken(userID)
		assert.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		extractedID, err := service.ValidateToken(ctx, tokenString)
		assert.NoError(t, err)
		assert.Equal(t, userID, extractedID)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Fail: Should reject valid token if user is deleted (DB check)", func(t *testing.T) {
		service, mockRepo := setup()

		mockRepo.On("GetByID", mock.Anything, userID).Return(nil, errors.New("user not found"))

		tokenString, err := service.GenerateToken(userID)
		assert.NoError(t, err)

		extractedID, err := service.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Contains(t, err.Error(), "user no longer exists")
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject expired token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewTokenService(secret, issuer, -1*time.Second, mockRepo)

		tokenString, err := service.GenerateToken(userID)
		assert.NoError(t, err)

		extractedID, err := service.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Empty(t, extractedID)
		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Fail: Should reject token with wrong secret (Tampered)", func(t *testing.T) {
		service, _ := setup()
		tokenString, _ := service.GenerateToken(userID)

		attackerService := NewTokenService("wrong-key", issuer, 1*time.Hour, new(MockUserRepository))

		extractedID, err := attackerService.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject token with wrong issuer", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		serviceA := NewTokenService(secret, "correct-issuer", 1*time.Hour, mockRepo)
		tokenString, _ := serviceA.GenerateToken(userID)

		serviceB := NewTokenService(secret, "wrong-issuer", 1*time.Hour, mockRepo)

		extractedID, err := serviceB.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject 'None' algorithm attack", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": userID,
			"iss": issuer,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		fakeTokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

		service, _ := setup()
		_, err := service.ValidateToken(ctx, fakeTokenString)

		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("Fail: Should reject malformed token string", func(t *testing.T) {
		service, _ := setup()

		extractedID, err := service.ValidateToken(ctx, "this-is-not-a-jwt")

		assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
		assert.Empty(t, extractedID)
	})
}
