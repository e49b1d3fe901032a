package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var badRequestErrors = []error{
	domain.ErrHabitTitleEmpty,
	domain.ErrHabitTitleTooLong,
	domain.ErrHabitDescTooLong,
	domain.ErrHabitMotivationLong,
	domain.ErrHabitInvalidUserID,
	domain.ErrInvalidHabitID,
	domain.ErrInvalidColor,
	domain.ErrInvalidWeekdays,
	domain.ErrInvalidReminder,
	domain.ErrInvalidCheckIn,
	domain.ErrInvalidDate,
	domain.ErrFutureDate,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	domain.ErrDisplayNameTooLong,
	domain.ErrFriendRequestSelf,
	domain.ErrNudgeSelf,
	domain.ErrNudgeMessageLong,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleError maps domain errors to a status code. Anything unknown is logged
// and hidden behind a 500.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound),
		errors.Is(err, domain.ErrCheckInNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrFriendshipNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrInvalidCredentials.Error()})

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrNotFriends):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrHabitConflict),
		errors.Is(err, domain.ErrCheckInConflict):
		c.JSON(http.StatusConflict, errorResponse{
			Error:   err.Error(),
			Message: "Data has been modified elsewhere. Please sync.",
		})

	case errors.Is(err, domain.ErrCheckInDuplicate),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrFriendshipExists),
		errors.Is(err, domain.ErrFriendshipNotPending):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrNudgeTooSoon):
		c.JSON(http.StatusTooManyRequests, errorResponse{Error: err.Error()})

	case isAny(err, badRequestErrors):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})

	default:
		_ = c.Error(err)
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("unhandled request error")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// currentUser reads the authenticated user id or answers 401.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return "", false
	}
	return userID, true
}
