package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
	"github.com/healthassist-server/internal/middleware"
)

// statusFor maps a service error to an HTTP status and AppError code.
func statusFor(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, domain.ErrCodeValidation
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, domain.ErrCodeConflict
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, domain.ErrCodeAuthentication
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrCodeNotFound
	case errors.Is(err, domain.ErrNotifierUnavailable):
		return http.StatusServiceUnavailable, domain.ErrCodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, domain.ErrCodeUnavailable
	default:
		return http.StatusInternalServerError, domain.ErrCodeInternalServer
	}
}

// publicMessage is the text shown to the user. Internal failures never leak details.
func publicMessage(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, domain.ErrEmailTaken):
		return "Email already registered"
	case errors.Is(err, domain.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, domain.ErrInvalidPassword):
		return "Invalid password"
	case errors.Is(err, domain.ErrNotFound):
		return "Not found"
	case errors.Is(err, domain.ErrNotifierUnavailable):
		return "Emergency alerts are temporarily unavailable. Please call your emergency contact directly."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request took too long. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

func (s *Server) logFailure(c *gin.Context, status int, err error) {
	if status < http.StatusInternalServerError {
		return
	}
	s.log.WithFields(logrus.Fields{
		"correlation_id": c.GetString(middleware.CorrelationIDKey),
		"path":           c.Request.URL.Path,
		"error":          err,
	}).Error("Request failed")
}

// renderError shows the error page for err.
func (s *Server) renderError(c *gin.Context, err error) {
	status, _ := statusFor(err)
	s.logFailure(c, status, err)
	s.renderStatus(c, status, publicMessage(err))
}

func (s *Server) renderStatus(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", s.page(c, "Error", gin.H{
		"Status":  status,
		"Message": message,
	}))
}

// apiError writes err as an AppError JSON body.
func (s *Server) apiError(c *gin.Context, err error) {
	status, code := statusFor(err)
	s.logFailure(c, status, err)

	details := ""
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		details = verr.Field
	}
	c.JSON(status, domain.NewAppError(code, publicMessage(err), details, c.GetString(middleware.CorrelationIDKey)))
}
