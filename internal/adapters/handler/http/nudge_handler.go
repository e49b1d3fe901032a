package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

type NudgeHandler struct {
	svc *services.NudgeService
}

func NewNudgeHandler(svc *services.NudgeService) *NudgeHandler {
	return &NudgeHandler{svc: svc}
}

type sendNudgeRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	HabitID     string `json:"habit_id" binding:"required"`
	Message     string `json:"message"`
}

func (h *NudgeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/nudges", h.Send)
	r.GET("/nudges", h.List)
}

// Send godoc
// @Summary  Nudge a friend about one of their habits
// @Tags     nudges
// @Accept   json
// @Produce  json
// @Param    body body sendNudgeRequest true "Nudge"
// @Success  201 {object} domain.Nudge
// @Failure  403 {object} errorResponse
// @Failure  429 {object} errorResponse
// @Security BearerAuth
// @Router   /nudges [post]
func (h *NudgeHandler) Send(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req sendNudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	nudge, err := h.svc.Send(c.Request.Context(), services.SendNudgeInput{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		HabitID:     req.HabitID,
		Message:     req.Message,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, nudge)
}

// List godoc
// @Summary  Nudges received, newest first
// @Tags     nudges
// @Produce  json
// @Param    limit query int false "At most 50"
// @Success  200 {array} domain.Nudge
// @Security BearerAuth
// @Router   /nudges [get]
func (h *NudgeHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}

	nudges, err := h.svc.ListReceived(c.Request.Context(), userID, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	if nudges == nil {
		nudges = []*domain.Nudge{}
	}
	c.JSON(http.StatusOK, nudges)
}
