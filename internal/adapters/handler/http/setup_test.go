package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/notifier"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/comitanigiacomo/kanso-habits/internal/core/workers"
)

// testToday is a Thursday.
var testToday = time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

type testApp struct {
	router   *gin.Engine
	users    *repository.InMemoryUserRepository
	habits   *repository.InMemoryHabitRepository
	checkIns *repository.InMemoryCheckInRepository
	friends  *services.FriendService
	habitSvc *services.HabitService
}

// newTestApp wires every handler over in-memory storage. The caller is
// taken from the X-User-ID header instead of a token.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewInMemoryUserRepository()
	habits := repository.NewInMemoryHabitRepository()
	checkIns := repository.NewInMemoryCheckInRepository()
	friendships := repository.NewInMemoryFriendshipRepository()
	nudges := repository.NewInMemoryNudgeRepository()

	clock := services.FixedClock(testToday)
	streaks := workers.NewStreakWorker(habits, checkIns, clock)

	habitSvc := services.NewHabitService(habits, checkIns, clock)
	friendSvc := services.NewFriendService(friendships, users)
	analyticsSvc := services.NewAnalyticsService(habits, checkIns, friendSvc, clock)
	checkInSvc := services.NewCheckInService(checkIns, habits, streaks, clock)
	nudgeSvc := services.NewNudgeService(nudges, friendSvc, habits, checkIns, users, notifier.NewLogNotifier(zerolog.Nop()), clock)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(middleware.ContextUserIDKey, id)
		}
		c.Next()
	})
	adapterHTTP.NewHabitHandler(habitSvc).RegisterRoutes(api)
	adapterHTTP.NewCheckInHandler(checkInSvc).RegisterRoutes(api)
	adapterHTTP.NewAnalyticsHandler(analyticsSvc, clock).RegisterRoutes(api)
	adapterHTTP.NewFriendHandler(friendSvc, analyticsSvc).RegisterRoutes(api)
	adapterHTTP.NewNudgeHandler(nudgeSvc).RegisterRoutes(api)

	return &testApp{
		router:   r,
		users:    users,
		habits:   habits,
		checkIns: checkIns,
		friends:  friendSvc,
		habitSvc: habitSvc,
	}
}

func (a *testApp) do(method, path, userID string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &body)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) addUser(t *testing.T, id, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(id, email)
	require.NoError(t, err)
	require.NoError(t, u.SetDisplayName(""))
	require.NoError(t, a.users.Create(context.Background(), u))
	return u
}

func (a *testApp) addHabit(t *testing.T, userID, title string, weekdays ...int) *domain.Habit {
	t.Helper()
	h, err := a.habitSvc.Create(context.Background(), services.CreateHabitInput{UserID: userID, Title: title, Weekdays: weekdays})
	require.NoError(t, err)
	return h
}

// befriend makes a and b accepted friends.
func (a *testApp) befriend(t *testing.T, requester, addressee *domain.User) {
	t.Helper()
	ctx := context.Background()
	req, err := a.friends.SendRequest(ctx, requester.ID, addressee.Email)
	require.NoError(t, err)
	_, err = a.friends.Respond(ctx, addressee.ID, req.ID, true)
	require.NoError(t, err)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
