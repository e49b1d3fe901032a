package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

const maxStatsRangeDays = 366

type AnalyticsHandler struct {
	svc   *services.AnalyticsService
	clock services.Clock
}

func NewAnalyticsHandler(svc *services.AnalyticsService, clock services.Clock) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, clock: clock}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/habits/:id/analytics", h.HabitReport)
	r.GET("/analytics/dashboard", h.Dashboard)
	r.GET("/stats/weekly", h.WeeklyStats)
}

// HabitReport godoc
// @Summary  Every streak, rate and pattern figure for one habit
// @Tags     analytics
// @Produce  json
// @Param    id    path  string true  "Habit ID"
// @Param    today query string false "Override today (YYYY-MM-DD)"
// @Success  200 {object} domain.HabitAnalytics
// @Failure  404 {object} errorResponse
// @Security BearerAuth
// @Router   /habits/{id}/analytics [get]
func (h *AnalyticsHandler) HabitReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	today, ok := dateQuery(c, "today")
	if !ok {
		return
	}

	report, err := h.svc.HabitReport(c.Request.Context(), userID, c.Param("id"), today)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Dashboard godoc
// @Summary  Reports for all of the caller's habits
// @Tags     analytics
// @Produce  json
// @Param    today query string false "Override today (YYYY-MM-DD)"
// @Success  200 {object} domain.Dashboard
// @Security BearerAuth
// @Router   /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	today, ok := dateQuery(c, "today")
	if !ok {
		return
	}

	dash, err := h.svc.Dashboard(c.Request.Context(), userID, today)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// WeeklyStats godoc
// @Summary  Per-day grid and completion rate over a date range
// @Description Defaults to the seven days ending today. At most 366 days.
// @Tags     analytics
// @Produce  json
// @Param    start_date query string false "YYYY-MM-DD"
// @Param    end_date   query string false "YYYY-MM-DD"
// @Success  200 {object} domain.WeeklyStats
// @Failure  400 {object} errorResponse
// @Security BearerAuth
// @Router   /stats/weekly [get]
func (h *AnalyticsHandler) WeeklyStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	endDate, ok := dateQuery(c, "end_date")
	if !ok {
		return
	}
	startDate, ok := dateQuery(c, "start_date")
	if !ok {
		return
	}
	if endDate.IsZero() {
		endDate = h.clock.Today()
	}
	if startDate.IsZero() {
		startDate = endDate.AddDate(0, 0, -6)
	}

	if startDate.After(endDate) {
		badRequest(c, "start_date cannot be after end_date")
		return
	}
	if endDate.Sub(startDate).Hours()/24 > maxStatsRangeDays {
		badRequest(c, "date range too large, max 1 year allowed")
		return
	}

	stats, err := h.svc.WeeklyStats(c.Request.Context(), domain.StatsInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
