package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
)

// dateQuery parses an optional YYYY-MM-DD query parameter. A missing value is
// the zero time. On a malformed value it answers 400 and returns false.
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	day, err := analytics.ParseDate(raw)
	if err != nil {
		badRequest(c, "invalid "+name+" format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "invalid "+name+", expected an integer")
		return 0, false
	}
	return n, true
}
