package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/healthassist-server/internal/domain"
	"github.com/healthassist-server/internal/middleware"
	"github.com/healthassist-server/internal/service"
)

// CheckSymptomsRequest is the body of POST /api/v1/symptoms/check.
type CheckSymptomsRequest struct {
	Symptoms []string `json:"symptoms"`
}

// CheckSymptomsResponse carries the ranked results and the stored check ID.
type CheckSymptomsResponse struct {
	CheckID string               `json:"check_id"`
	Results []domain.MatchResult `json:"results"`
}

func (s *Server) handleListConditions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conditions": service.Conditions()})
}

func (s *Server) handleAPICheckSymptoms(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	var req CheckSymptomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.apiError(c, domain.NewValidationError("symptoms", "Request body must be {\"symptoms\": [...]}", nil))
		return
	}

	results, check, err := s.deps.Symptoms.Check(c.Request.Context(), sess.UserID, req.Symptoms)
	if err != nil {
		s.apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckSymptomsResponse{CheckID: check.ID, Results: results})
}

func (s *Server) handleAPIHistory(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.apiError(c, domain.NewValidationError("limit", "limit must be a non-negative integer", raw))
			return
		}
		limit = n
	}

	checks, err := s.deps.Symptoms.History(c.Request.Context(), sess.UserID, limit)
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checks": checks})
}

func (s *Server) handleAPIListReminders(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	reminders, err := s.deps.Reminders.ListReminders(c.Request.Context(), sess.UserID)
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

func (s *Server) handleAPIAddReminder(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	var in domain.ReminderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.apiError(c, domain.NewValidationError("body", "Invalid reminder payload", nil))
		return
	}

	reminder, err := s.deps.Reminders.AddReminder(c.Request.Context(), sess.UserID, in)
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

func (s *Server) handleAPIDeleteReminder(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	if err := s.deps.Reminders.DeleteReminder(c.Request.Context(), sess.UserID, c.Param("id")); err != nil {
		s.apiError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
