package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
	"github.com/healthassist-server/internal/middleware"
	"github.com/healthassist-server/internal/service"
	"github.com/healthassist-server/internal/session"
)

// page merges the layout fields every template expects into data.
func (s *Server) page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if sess, ok := middleware.CurrentSession(c); ok {
		data["UserName"] = sess.UserName
	}
	return data
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	middleware.SetSessionCookie(c, s.config.Session.CookieName, value, maxAge, s.config.Session.Secure)
}

func (s *Server) handleIndex(c *gin.Context) {
	if _, ok := middleware.CurrentSession(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "index.html", s.page(c, "Welcome", nil))
}

func (s *Server) handleRegister(c *gin.Context) {
	var in domain.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		s.renderStatus(c, http.StatusBadRequest, "Invalid registration form")
		return
	}

	if _, err := s.deps.Auth.Register(c.Request.Context(), in); err != nil {
		s.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (s *Server) handleLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	ctx := c.Request.Context()
	user, err := s.deps.Auth.Authenticate(ctx, email, password)
	if err != nil {
		s.renderError(c, err)
		return
	}

	if old, ok := middleware.CurrentSession(c); ok {
		if err := s.deps.Sessions.Delete(ctx, old.ID); err != nil {
			s.log.WithError(err).Warn("Failed to drop previous session")
		}
	}

	sess := session.New(user, s.config.Session.TTL, s.now())
	if err := s.deps.Sessions.Create(ctx, sess); err != nil {
		s.renderError(c, err)
		return
	}

	s.setSessionCookie(c, sess.ID, int(s.config.Session.TTL.Seconds()))
	s.log.WithFields(logrus.Fields{
		"correlation_id": c.GetString(middleware.CorrelationIDKey),
		"user_id":        user.ID,
	}).Info("User logged in")

	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) handleLogout(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		if err := s.deps.Sessions.Delete(c.Request.Context(), sess.ID); err != nil {
			s.log.WithError(err).Warn("Failed to delete session on logout")
		}
	}
	s.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) handleDashboard(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	ctx := c.Request.Context()

	user, err := s.deps.Auth.GetUser(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		// Account removed underneath a live session.
		if err := s.deps.Sessions.Delete(ctx, sess.ID); err != nil {
			s.log.WithError(err).Warn("Failed to delete orphaned session")
		}
		s.setSessionCookie(c, "", -1)
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err != nil {
		s.renderError(c, err)
		return
	}

	reminders, err := s.deps.Reminders.ListReminders(ctx, sess.UserID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", s.page(c, "Dashboard", gin.H{
		"User":      user,
		"Reminders": reminders,
	}))
}

func (s *Server) symptomPage(c *gin.Context, selected []string, results []domain.MatchResult) gin.H {
	picked := make(map[string]bool, len(selected))
	for _, sym := range selected {
		picked[sym] = true
	}
	return s.page(c, "Symptom Checker", gin.H{
		"Vocabulary": service.Vocabulary(),
		"Selected":   picked,
		"Results":    results,
	})
}

func (s *Server) handleSymptomCheckerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "symptom-checker.html", s.symptomPage(c, nil, nil))
}

func (s *Server) handleCheckSymptoms(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	symptoms := c.PostFormArray("symptoms")

	results, _, err := s.deps.Symptoms.Check(c.Request.Context(), sess.UserID, symptoms)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "symptom-checker.html", s.symptomPage(c, symptoms, results))
}

func (s *Server) handleRemindersPage(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	reminders, err := s.deps.Reminders.ListReminders(c.Request.Context(), sess.UserID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "medicine-reminders.html", s.page(c, "Medicine Reminders", gin.H{
		"Reminders": reminders,
	}))
}

func (s *Server) handleAddMedicine(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	var in domain.ReminderInput
	if err := c.ShouldBind(&in); err != nil {
		s.renderStatus(c, http.StatusBadRequest, "Invalid reminder form")
		return
	}

	if _, err := s.deps.Reminders.AddReminder(c.Request.Context(), sess.UserID, in); err != nil {
		s.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/medicine-reminders")
}

func (s *Server) handleDeleteMedicine(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	if err := s.deps.Reminders.DeleteReminder(c.Request.Context(), sess.UserID, c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/medicine-reminders")
}

func (s *Server) handleEmergencyPage(c *gin.Context) {
	c.HTML(http.StatusOK, "emergency.html", s.page(c, "Emergency", nil))
}

func (s *Server) handleSendEmergency(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	alert, err := s.deps.Emergency.SendAlert(c.Request.Context(), sess.UserID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "emergency-success.html", s.page(c, "Alert Sent", gin.H{
		"Name":    alert.Name,
		"Contact": alert.EmergencyContact,
	}))
}
