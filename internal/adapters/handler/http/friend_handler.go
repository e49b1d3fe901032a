package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

type FriendHandler struct {
	friends   *services.FriendService
	analytics *services.AnalyticsService
}

func NewFriendHandler(friends *services.FriendService, analytics *services.AnalyticsService) *FriendHandler {
	return &FriendHandler{friends: friends, analytics: analytics}
}

type friendRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *FriendHandler) RegisterRoutes(r *gin.RouterGroup) {
	friends := r.Group("/friends")
	{
		friends.GET("", h.List)
		friends.DELETE("/:id", h.Remove)
		friends.GET("/:id/habits/:habitId/analytics", h.HabitReport)

		friends.GET("/requests", h.Pending)
		friends.POST("/requests", h.SendRequest)
		friends.POST("/requests/:id/accept", h.respond(true))
		friends.POST("/requests/:id/decline", h.respond(false))
	}
}

// List godoc
// @Summary  Accepted friends
// @Tags     friends
// @Produce  json
// @Success  200 {array} domain.Friend
// @Security BearerAuth
// @Router   /friends [get]
func (h *FriendHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	friends, err := h.friends.ListFriends(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	if friends == nil {
		friends = []domain.Friend{}
	}
	c.JSON(http.StatusOK, friends)
}

// Pending godoc
// @Summary  Incoming requests waiting for an answer
// @Tags     friends
// @Produce  json
// @Success  200 {array} domain.Friendship
// @Security BearerAuth
// @Router   /friends/requests [get]
func (h *FriendHandler) Pending(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	pending, err := h.friends.ListPending(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	if pending == nil {
		pending = []*domain.Friendship{}
	}
	c.JSON(http.StatusOK, pending)
}

// SendRequest godoc
// @Summary  Ask a user, by email, to be friends
// @Tags     friends
// @Accept   json
// @Produce  json
// @Param    body body friendRequestBody true "Addressee"
// @Success  201 {object} domain.Friendship
// @Failure  404 {object} errorResponse
// @Failure  409 {object} errorResponse
// @Security BearerAuth
// @Router   /friends/requests [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req friendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	request, err := h.friends.SendRequest(c.Request.Context(), userID, req.Email)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// respond godoc
// @Summary  Accept or decline a pending request
// @Tags     friends
// @Produce  json
// @Param    id path string true "Request ID"
// @Success  200 {object} domain.Friendship
// @Failure  403 {object} errorResponse
// @Failure  409 {object} errorResponse
// @Security BearerAuth
// @Router   /friends/requests/{id}/accept [post]
// @Router   /friends/requests/{id}/decline [post]
func (h *FriendHandler) respond(accept bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		f, err := h.friends.Respond(c.Request.Context(), userID, c.Param("id"), accept)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	}
}

// Remove godoc
// @Summary  Unfriend a user
// @Tags     friends
// @Param    id path string true "Friend's user ID"
// @Success  204
// @Security BearerAuth
// @Router   /friends/{id} [delete]
func (h *FriendHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.friends.Remove(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HabitReport godoc
// @Summary  Analytics of a friend's habit
// @Tags     friends
// @Produce  json
// @Param    id      path  string true  "Friend's user ID"
// @Param    habitId path  string true  "Habit ID"
// @Param    today   query string false "YYYY-MM-DD"
// @Success  200 {object} domain.HabitAnalytics
// @Failure  403 {object} errorResponse
// @Security BearerAuth
// @Router   /friends/{id}/habits/{habitId}/analytics [get]
func (h *FriendHandler) HabitReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	today, ok := dateQuery(c, "today")
	if !ok {
		return
	}

	report, err := h.analytics.FriendHabitReport(c.Request.Context(), userID, c.Param("id"), c.Param("habitId"), today)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
