package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	ID           string `json:"id"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Motivation   string `json:"motivation"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
	ReminderTime string `json:"reminder_time"`
	Weekdays     []int  `json:"weekdays"`
}

// updateHabitRequest leaves omitted fields untouched. An explicit empty
// weekdays list resets the schedule to every day.
type updateHabitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Motivation  string `json:"motivation"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	// ReminderTime absent keeps the reminder, "" clears it.
	ReminderTime *string `json:"reminder_time"`
	Weekdays     []int   `json:"weekdays"`
	Version      int     `json:"version"`
}

type syncResponse struct {
	Changes   []*domain.Habit `json:"changes"`
	Timestamp time.Time       `json:"timestamp"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/sync", h.Sync)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary  Create a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    body body createHabitRequest true "Habit"
// @Success  201 {object} domain.Habit
// @Failure  400 {object} errorResponse
// @Security BearerAuth
// @Router   /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		ID:           req.ID,
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Motivation:   req.Motivation,
		Color:        req.Color,
		Icon:         req.Icon,
		ReminderTime: req.ReminderTime,
		Weekdays:     req.Weekdays,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary  List the caller's habits
// @Tags     habits
// @Produce  json
// @Success  200 {array} domain.Habit
// @Security BearerAuth
// @Router   /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	if list == nil {
		list = []*domain.Habit{}
	}

	c.JSON(http.StatusOK, list)
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	habit, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Sync godoc
// @Summary  Habits changed since last_sync, deleted ones included
// @Tags     habits
// @Produce  json
// @Param    last_sync query string false "RFC3339 timestamp"
// @Success  200 {object} syncResponse
// @Security BearerAuth
// @Router   /habits/sync [get]
func (h *HabitHandler) Sync(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var lastSync time.Time
	if raw := c.Query("last_sync"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "invalid last_sync format, use RFC3339")
			return
		}
		lastSync = parsed
	}

	now := time.Now().UTC()
	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		handleError(c, err)
		return
	}

	if deltas == nil {
		deltas = []*domain.Habit{}
	}
	c.JSON(http.StatusOK, syncResponse{Changes: deltas, Timestamp: now})
}

// Update godoc
// @Summary  Update a habit (optimistic locking on version)
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    id   path string             true "Habit ID"
// @Param    body body updateHabitRequest true "Changes"
// @Success  200 {object} domain.Habit
// @Failure  409 {object} errorResponse
// @Security BearerAuth
// @Router   /habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:           c.Param("id"),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Motivation:   req.Motivation,
		Color:        req.Color,
		Icon:         req.Icon,
		ReminderTime: req.ReminderTime,
		Weekdays:     req.Weekdays,
		Version:      req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Delete godoc
// @Summary  Soft delete a habit
// @Tags     habits
// @Param    id path string true "Habit ID"
// @Success  204
// @Security BearerAuth
// @Router   /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
