package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
	"github.com/healthassist-server/internal/health"
	"github.com/healthassist-server/internal/middleware"
	"github.com/healthassist-server/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Dependencies are the services the HTTP layer drives.
type Dependencies struct {
	Auth      *service.AuthService
	Symptoms  *service.SymptomService
	Reminders *service.ReminderService
	Emergency *service.EmergencyService
	Sessions  domain.SessionStore
	Health    *health.Checker
	Logger    *logrus.Logger
}

// Server represents the HTTP server
type Server struct {
	config *domain.Config
	deps   Dependencies
	router *gin.Engine
	server *http.Server
	log    *logrus.Logger
	now    func() time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(config *domain.Config, deps Dependencies) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}

	if strings.EqualFold(config.Logging.Level, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.CorrelationID(),
		middleware.AuditLogger(deps.Logger),
		middleware.SecurityHeaders(config.Server.TLSEnabled),
		middleware.RequestTimeout(config.Server.RequestTimeout),
		middleware.LoadSession(deps.Sessions, config.Session.CookieName, config.Session.Secure, deps.Logger),
	)

	s := &Server{
		config: config,
		deps:   deps,
		router: router,
		log:    deps.Logger,
		now:    time.Now,
	}
	s.setupRoutes()

	return s, nil
}

func loadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLSEnabled {
			err = s.server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.log.WithFields(logrus.Fields{
		"addr": addr,
		"tls":  cfg.TLSEnabled,
	}).Info("HTTP server listening")

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.log.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the page and API routes
func (s *Server) setupRoutes() {
	r := s.router

	limiter := middleware.NewIPRateLimiter(
		s.config.Security.LoginRatePerMinute,
		s.config.Security.LoginBurst,
		0,
	)
	limited := limiter.Middleware(func(c *gin.Context) {
		s.renderStatus(c, http.StatusTooManyRequests, "Too many attempts. Please wait a minute and try again.")
	})

	if s.deps.Health != nil {
		r.GET("/health", s.deps.Health.Handler())
	}

	r.GET("/", s.handleIndex)
	r.POST("/register", limited, s.handleRegister)
	r.POST("/login", limited, s.handleLogin)
	r.GET("/logout", s.handleLogout)

	pages := r.Group("/", middleware.RequirePageSession())
	{
		pages.GET("/dashboard", s.handleDashboard)
		pages.GET("/symptom-checker", s.handleSymptomCheckerPage)
		pages.POST("/check-symptoms", s.handleCheckSymptoms)
		pages.GET("/medicine-reminders", s.handleRemindersPage)
		pages.POST("/add-medicine", s.handleAddMedicine)
		pages.POST("/delete-medicine/:id", s.handleDeleteMedicine)
		pages.GET("/emergency", s.handleEmergencyPage)
		pages.POST("/send-emergency", s.handleSendEmergency)
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/conditions", s.handleListConditions)

		authed := v1.Group("", middleware.RequireAPISession())
		authed.POST("/symptoms/check", s.handleAPICheckSymptoms)
		authed.GET("/symptoms/history", s.handleAPIHistory)
		authed.GET("/reminders", s.handleAPIListReminders)
		authed.POST("/reminders", s.handleAPIAddReminder)
		authed.DELETE("/reminders/:id", s.handleAPIDeleteReminder)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, domain.NewAppError(
				domain.ErrCodeNotFound, "Endpoint not found", "", c.GetString(middleware.CorrelationIDKey)))
			return
		}
		s.renderStatus(c, http.StatusNotFound, "Page not found")
	})
}
