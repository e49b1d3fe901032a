package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/kanso-habits/docs"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http/middleware"
)

const (
	defaultRateLimit = 100
	healthTimeout    = 2 * time.Second
)

type RouterDependencies struct {
	AuthHandler      *AuthHandler
	HabitHandler     *HabitHandler
	CheckInHandler   *CheckInHandler
	AnalyticsHandler *AnalyticsHandler
	FriendHandler    *FriendHandler
	NudgeHandler     *NudgeHandler
	Tokens           middleware.TokenValidator

	// DB and Redis are nil when the server runs on in-memory storage.
	DB        *sqlx.DB
	Redis     *redis.Client
	RateLimit int
	StartTime time.Time
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Uptime   string `json:"uptime"`
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS())

	if deps.Redis != nil {
		limit := deps.RateLimit
		if limit <= 0 {
			limit = defaultRateLimit
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, limit, time.Minute))
	}

	router.GET("/health", health(deps))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		deps.HabitHandler.RegisterRoutes(protected)
		deps.CheckInHandler.RegisterRoutes(protected)
		deps.AnalyticsHandler.RegisterRoutes(protected)
		deps.FriendHandler.RegisterRoutes(protected)
		deps.NudgeHandler.RegisterRoutes(protected)
	}

	return router
}

// health godoc
// @Summary  Liveness and backing service status
// @Tags     system
// @Produce  json
// @Success  200 {object} healthResponse
// @Failure  503 {object} healthResponse
// @Router   /health [get]
func health(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{
			Status:   "ok",
			Database: "disabled",
			Redis:    "disabled",
			Uptime:   time.Since(deps.StartTime).Round(time.Second).String(),
		}
		code := http.StatusOK

		if deps.DB != nil {
			resp.Database = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				resp.Database = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}
		if deps.Redis != nil {
			resp.Redis = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				resp.Redis = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}
		if code != http.StatusOK {
			resp.Status = "degraded"
		}

		c.JSON(code, resp)
	}
}
