package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
)

// SetSessionCookie writes the session cookie. A negative maxAge clears it.
func SetSessionCookie(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

// LoadSession resolves the session cookie and stores the live session in the
// gin context. Unknown or expired cookies are cleared.
func LoadSession(store domain.SessionStore, cookieName string, secure bool, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}

		session, err := store.Get(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(SessionKey, session)
		case errors.Is(err, domain.ErrSessionNotFound):
			SetSessionCookie(c, cookieName, "", -1, secure)
		default:
			logger.WithFields(logrus.Fields{
				"correlation_id": c.GetString(CorrelationIDKey),
				"error":          err,
			}).Error("Failed to load session")
		}

		c.Next()
	}
}

// CurrentSession returns the session LoadSession attached, if any.
func CurrentSession(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*domain.Session)
	return s, ok && s != nil
}

// RequirePageSession redirects anonymous browsers to the landing page.
func RequirePageSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPISession rejects anonymous API calls with a JSON 401.
func RequireAPISession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.NewAppError(
				domain.ErrCodeAuthentication, "Authentication required", "", c.GetString(CorrelationIDKey)))
			return
		}
		c.Next()
	}
}
