package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthassist-server/internal/domain"
	"github.com/healthassist-server/internal/health"
	"github.com/healthassist-server/internal/litestore"
	"github.com/healthassist-server/internal/notify"
	"github.com/healthassist-server/internal/service"
	"github.com/healthassist-server/internal/session"
)

const cookieName = "healthassist_session"

type testApp struct {
	server *Server
	store  *litestore.SQLiteStore
}

func testConfig() *domain.Config {
	return &domain.Config{
		Environment: "test",
		Server: domain.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			RequestTimeout: 5 * time.Second,
		},
		Session: domain.SessionConfig{
			Backend:    domain.SessionBackendMemory,
			CookieName: cookieName,
			TTL:        time.Hour,
			MaxEntries: 100,
		},
		Security: domain.SecurityConfig{
			BcryptCost:         bcrypt.MinCost,
			LoginRatePerMinute: 600,
			LoginBurst:         100,
		},
		Logging: domain.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestApp(t *testing.T, cfg *domain.Config) *testApp {
	t.Helper()

	sessions, err := session.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return newTestAppWith(t, cfg, sessions, logger)
}

func newTestAppWith(t *testing.T, cfg *domain.Config, sessions domain.SessionStore, logger *logrus.Logger) *testApp {
	t.Helper()

	store, err := litestore.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	checker := health.NewChecker("test", time.Second, logger)
	checker.RegisterCheck(health.NewPingCheck("database", store, time.Second))

	srv, err := NewServer(cfg, Dependencies{
		Auth:      service.NewAuthService(store, cfg.Security.BcryptCost, logger),
		Symptoms:  service.NewSymptomService(store, logger),
		Reminders: service.NewReminderService(store, logger),
		Emergency: service.NewEmergencyService(store, notify.NewLogNotifier(logger)),
		Sessions:  sessions,
		Health:    checker,
		Logger:    logger,
	})
	require.NoError(t, err)

	return &testApp{server: srv, store: store}
}

func (a *testApp) do(method, target string, body io.Reader, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", cookie)
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func registrationForm(email string) url.Values {
	return url.Values{
		"name":             {"Asha Rao"},
		"email":            {email},
		"password":         {"s3cret-pass"},
		"confirmPassword":  {"s3cret-pass"},
		"phone":            {"+91 98765 43210"},
		"emergencyContact": {"Ravi +91 91234 56789"},
	}
}

// registerAndLogin returns the session cookie of a fresh account.
func (a *testApp) registerAndLogin(t *testing.T, email string) *http.Cookie {
	t.Helper()

	w := a.postForm("/register", registrationForm(email), nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	w = a.postForm("/login", url.Values{"email": {email}, "password": {"s3cret-pass"}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	return cookie
}

func TestIndexPage(t *testing.T) {
	app := newTestApp(t, testConfig())

	w := app.do(http.MethodGet, "/", nil, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)
	assert.Contains(t, w.Body.String(), `action="/register"`)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t, testConfig())
	cookie := app.registerAndLogin(t, "asha@example.com")

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	t.Run("IndexRedirectsWhenLoggedIn", func(t *testing.T) {
		w := app.do(http.MethodGet, "/", nil, "", cookie)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("Dashboard", func(t *testing.T) {
		w := app.do(http.MethodGet, "/dashboard", nil, "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Asha Rao")
		assert.Contains(t, w.Body.String(), "asha@example.com")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		w := app.postForm("/register", registrationForm("ASHA@example.com"), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email already registered")
	})

	t.Run("PasswordMismatch", func(t *testing.T) {
		form := registrationForm("other@example.com")
		form.Set("confirmPassword", "different")
		w := app.postForm("/register", form, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Passwords do not match")
	})

	t.Run("UnknownUser", func(t *testing.T) {
		w := app.postForm("/login", url.Values{"email": {"nobody@example.com"}, "password": {"x"}}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "User not found")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := app.postForm("/login", url.Values{"email": {"asha@example.com"}, "password": {"wrong"}}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid password")
	})
}

func TestProtectedPagesRedirectAnonymous(t *testing.T) {
	app := newTestApp(t, testConfig())

	for _, path := range []string{"/dashboard", "/symptom-checker", "/medicine-reminders", "/emergency"} {
		t.Run(path, func(t *testing.T) {
			w := app.do(http.MethodGet, path, nil, "", nil)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/", w.Header().Get("Location"))
		})
	}

	w := app.postForm("/check-symptoms", url.Values{"symptoms": {"fever"}}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestSymptomChecker(t *testing.T) {
	app := newTestApp(t, testConfig())
	cookie := app.registerAndLogin(t, "asha@example.com")

	t.Run("Form", func(t *testing.T) {
		w := app.do(http.MethodGet, "/symptom-checker", nil, "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		for _, sym := range service.Vocabulary() {
			assert.Contains(t, w.Body.String(), `value="`+sym+`"`)
		}
	})

	t.Run("RankedResults", func(t *testing.T) {
		w := app.postForm("/check-symptoms", url.Values{"symptoms": {"fever", "cough", "fatigue"}}, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Flu (Influenza)")
		assert.Less(t, strings.Index(body, "Flu (Influenza)"), strings.Index(body, "Common Cold"))
	})

	t.Run("NothingSelected", func(t *testing.T) {
		w := app.postForm("/check-symptoms", url.Values{}, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No Specific Match")
	})
}

func TestMedicineReminders(t *testing.T) {
	app := newTestApp(t, testConfig())
	cookie := app.registerAndLogin(t, "asha@example.com")

	w := app.postForm("/add-medicine", url.Values{
		"medicineName": {"Paracetamol"},
		"dosage":       {"500mg"},
		"time":         {"08:00"},
		"description":  {"After breakfast"},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/medicine-reminders", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/medicine-reminders", nil, "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Paracetamol")
	assert.Contains(t, w.Body.String(), "After breakfast")

	t.Run("MissingFields", func(t *testing.T) {
		w := app.postForm("/add-medicine", url.Values{"medicineName": {"Ibuprofen"}}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DeleteOtherUsersReminder", func(t *testing.T) {
		other := app.registerAndLogin(t, "ravi@example.com")

		w := app.do(http.MethodGet, "/api/v1/reminders", nil, "", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Reminders []domain.MedicineReminder `json:"reminders"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list.Reminders, 1)
		id := list.Reminders[0].ID

		w = app.postForm("/delete-medicine/"+id, url.Values{}, other)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = app.postForm("/delete-medicine/"+id, url.Values{}, cookie)
		assert.Equal(t, http.StatusFound, w.Code)

		w = app.do(http.MethodGet, "/medicine-reminders", nil, "", cookie)
		assert.NotContains(t, w.Body.String(), "Paracetamol")
	})
}

func TestEmergency(t *testing.T) {
	app := newTestApp(t, testConfig())
	cookie := app.registerAndLogin(t, "asha@example.com")

	w := app.do(http.MethodGet, "/emergency", nil, "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.postForm("/send-emergency", url.Values{}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha Rao")
	assert.Contains(t, w.Body.String(), "91234 56789")
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, testConfig())
	cookie := app.registerAndLogin(t, "asha@example.com")

	w := app.do(http.MethodGet, "/logout", nil, "", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/dashboard", nil, "", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

// undeletableSessions fails every Delete.
type undeletableSessions struct {
	domain.SessionStore
}

func (undeletableSessions) Delete(context.Context, string) error {
	return errors.New("session backend unavailable")
}

func TestDashboard_OrphanedSession(t *testing.T) {
	cfg := testConfig()
	memory, err := session.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL)
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	app := newTestAppWith(t, cfg, undeletableSessions{memory}, logger)

	orphan := session.New(&domain.User{ID: "deleted-user", Name: "Ghost"}, cfg.Session.TTL, time.Now())
	require.NoError(t, memory.Create(context.Background(), orphan))

	w := app.do(http.MethodGet, "/dashboard", nil, "", &http.Cookie{Name: cookieName, Value: orphan.ID})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, http.SameSiteLaxMode, cleared.SameSite)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "Failed to delete orphaned session" {
			warned = true
			assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "session backend unavailable")
		}
	}
	assert.True(t, warned, "delete failure should be logged")
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t, testConfig())

	w := app.do(http.MethodGet, "/no-such-page", nil, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	w = app.do(http.MethodGet, "/api/v1/nope", nil, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var appErr domain.AppError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &appErr))
	assert.Equal(t, domain.ErrCodeNotFound, appErr.Code)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, testConfig())

	w := app.do(http.MethodGet, "/health", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status health.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, health.HealthStateHealthy, status.Overall)
	assert.Contains(t, status.Components, "database")
}

func TestLoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.LoginRatePerMinute = 1
	cfg.Security.LoginBurst = 2
	app := newTestApp(t, cfg)

	form := url.Values{"email": {"nobody@example.com"}, "password": {"x"}}
	for i := 0; i < 2; i++ {
		w := app.postForm("/login", form, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := app.postForm("/login", form, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many attempts")
}
