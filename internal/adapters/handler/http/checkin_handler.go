package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

type CheckInHandler struct {
	svc *services.CheckInService
}

func NewCheckInHandler(svc *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{svc: svc}
}

type toggleCheckInRequest struct {
	// Date defaults to today when empty.
	Date string `json:"date"`
}

type setCheckInRequest struct {
	Done *bool `json:"done" binding:"required"`
}

func (h *CheckInHandler) RegisterRoutes(r *gin.RouterGroup) {
	checkIns := r.Group("/habits/:id/checkins")
	{
		checkIns.GET("", h.List)
		checkIns.POST("/toggle", h.Toggle)
		checkIns.PUT("/:date", h.Set)
	}
}

// Toggle godoc
// @Summary  Flip one day of a habit
// @Tags     checkins
// @Accept   json
// @Produce  json
// @Param    id   path string               true  "Habit ID"
// @Param    body body toggleCheckInRequest false "Day, today when omitted"
// @Success  200 {object} domain.CheckIn
// @Failure  400 {object} errorResponse
// @Failure  403 {object} errorResponse
// @Security BearerAuth
// @Router   /habits/{id}/checkins/toggle [post]
func (h *CheckInHandler) Toggle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req toggleCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	checkIn, err := h.svc.Toggle(c.Request.Context(), c.Param("id"), userID, req.Date)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkIn)
}

// Set godoc
// @Summary  Set the done flag of one day
// @Tags     checkins
// @Accept   json
// @Produce  json
// @Param    id   path string            true "Habit ID"
// @Param    date path string            true "YYYY-MM-DD"
// @Param    body body setCheckInRequest true "Flag"
// @Success  200 {object} domain.CheckIn
// @Security BearerAuth
// @Router   /habits/{id}/checkins/{date} [put]
func (h *CheckInHandler) Set(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req setCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	checkIn, err := h.svc.Set(c.Request.Context(), c.Param("id"), userID, c.Param("date"), *req.Done)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkIn)
}

// List godoc
// @Summary  Check-ins of a habit, optionally bounded
// @Tags     checkins
// @Produce  json
// @Param    id   path  string true  "Habit ID"
// @Param    from query string false "YYYY-MM-DD"
// @Param    to   query string false "YYYY-MM-DD"
// @Success  200 {array} domain.CheckIn
// @Security BearerAuth
// @Router   /habits/{id}/checkins [get]
func (h *CheckInHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	from, ok := dateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		badRequest(c, "from cannot be after to")
		return
	}

	list, err := h.svc.ListRecord(c.Request.Context(), c.Param("id"), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}
	if list == nil {
		list = []*domain.CheckIn{}
	}
	c.JSON(http.StatusOK, list)
}
