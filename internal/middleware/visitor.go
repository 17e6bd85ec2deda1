package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leetcoders.uz/directory/pkg/response"
)

const (
	VisitorCookie    = "visitor_id"
	visitorCookieAge = 365 * 24 * 60 * 60
)

type VisitorMiddleware struct {
	secure bool
}

func NewVisitorMiddleware(secure bool) *VisitorMiddleware {
	return &VisitorMiddleware{secure: secure}
}

// Identify tags every request with a visitor id, issuing a cookie for new
// or tampered ones. The id keys the per-visitor in-flight guard.
func (m *VisitorMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		var visitorID uuid.UUID

		if raw, err := c.Cookie(VisitorCookie); err == nil {
			if id, err := uuid.Parse(raw); err == nil && id != uuid.Nil {
				visitorID = id
			}
		}

		if visitorID == uuid.Nil {
			visitorID = uuid.New()
			c.SetCookie(VisitorCookie, visitorID.String(), visitorCookieAge, "/", "", m.secure, true)
		}

		c.Set(response.VisitorKey, visitorID)
		c.Next()
	}
}
