// Package health reports whether the server's dependencies are reachable.
package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateUnhealthy HealthState = "unhealthy"
	HealthStateWarning   HealthState = "warning"
)

type ComponentHealth struct {
	Name     string                 `json:"name"`
	Status   HealthState            `json:"status"`
	Message  string                 `json:"message"`
	Duration time.Duration          `json:"duration_ns"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

type Status struct {
	Overall    HealthState                `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// Check is one probe contributing to the overall status.
type Check interface {
	Name() string
	Check(ctx context.Context) ComponentHealth
}

// Pinger is anything with a context-aware Ping, such as a store or session backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Checker struct {
	version string
	timeout time.Duration
	started time.Time
	logger  *logrus.Logger

	mutex  sync.RWMutex
	checks map[string]Check
}

// NewChecker creates a checker. Each run is bounded by timeout.
func NewChecker(version string, timeout time.Duration, logger *logrus.Logger) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		version: version,
		timeout: timeout,
		started: time.Now(),
		logger:  logger,
		checks:  make(map[string]Check),
	}
}

func (h *Checker) RegisterCheck(check Check) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.checks[check.Name()] = check
}

// Names lists the registered checks in order.
func (h *Checker) Names() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes every check in parallel and folds the results.
func (h *Checker) Run(ctx context.Context) *Status {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mutex.RLock()
	checks := make([]Check, 0, len(h.checks))
	for _, c := range h.checks {
		checks = append(checks, c)
	}
	h.mutex.RUnlock()

	results := make(chan ComponentHealth, len(checks))
	var wg sync.WaitGroup
	for _, check := range checks {
		wg.Add(1)
		go func(c Check) {
			defer wg.Done()
			results <- c.Check(ctx)
		}(check)
	}
	wg.Wait()
	close(results)

	overall := HealthStateHealthy
	components := make(map[string]ComponentHealth, len(checks))
	var unhealthy []string
	for result := range results {
		components[result.Name] = result
		switch result.Status {
		case HealthStateUnhealthy:
			overall = HealthStateUnhealthy
			unhealthy = append(unhealthy, result.Name)
		case HealthStateWarning:
			if overall == HealthStateHealthy {
				overall = HealthStateWarning
			}
		}
	}

	if overall != HealthStateHealthy {
		sort.Strings(unhealthy)
		h.logger.WithFields(logrus.Fields{
			"overall_status":       overall,
			"unhealthy_components": unhealthy,
		}).Warn("Health check completed with issues")
	}

	return &Status{
		Overall:    overall,
		Timestamp:  time.Now().UTC(),
		Version:    h.version,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Components: components,
	}
}

// Handler serves the status as JSON; unhealthy maps to 503.
func (h *Checker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.Run(c.Request.Context())
		code := http.StatusOK
		if status.Overall == HealthStateUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}

// PingCheck marks a dependency unhealthy when Ping fails and warns when it is slow.
type PingCheck struct {
	name        string
	target      Pinger
	slowLatency time.Duration
}

func NewPingCheck(name string, target Pinger, slowLatency time.Duration) *PingCheck {
	return &PingCheck{name: name, target: target, slowLatency: slowLatency}
}

func (p *PingCheck) Name() string {
	return p.name
}

func (p *PingCheck) Check(ctx context.Context) ComponentHealth {
	start := time.Now()
	if p.target == nil {
		return ComponentHealth{
			Name:    p.name,
			Status:  HealthStateUnhealthy,
			Message: "not configured",
		}
	}

	err := p.target.Ping(ctx)
	duration := time.Since(start)
	if err != nil {
		return ComponentHealth{
			Name:     p.name,
			Status:   HealthStateUnhealthy,
			Message:  "ping failed",
			Duration: duration,
			Error:    err.Error(),
		}
	}
	if p.slowLatency > 0 && duration > p.slowLatency {
		return ComponentHealth{
			Name:     p.name,
			Status:   HealthStateWarning,
			Message:  "slow response",
			Duration: duration,
		}
	}
	return ComponentHealth{
		Name:     p.name,
		Status:   HealthStateHealthy,
		Message:  "ok",
		Duration: duration,
	}
}

// BreakerCheck warns while a circuit breaker is not closed.
type BreakerCheck struct {
	name  string
	state func() string
}

func NewBreakerCheck(name string, state func() string) *BreakerCheck {
	return &BreakerCheck{name: name, state: state}
}

func (b *BreakerCheck) Name() string {
	return b.name
}

func (b *BreakerCheck) Check(context.Context) ComponentHealth {
	state := b.state()
	status := HealthStateHealthy
	if state != "closed" {
		status = HealthStateWarning
	}
	return ComponentHealth{
		Name:     b.name,
		Status:   status,
		Message:  "circuit " + state,
		Metadata: map[string]interface{}{"state": state},
	}
}

// RuntimeCheck reports goroutine and heap figures. It warns above maxGoroutines.
type RuntimeCheck struct {
	maxGoroutines int
}

func NewRuntimeCheck(maxGoroutines int) *RuntimeCheck {
	return &RuntimeCheck{maxGoroutines: maxGoroutines}
}

func (r *RuntimeCheck) Name() string {
	return "runtime"
}

func (r *RuntimeCheck) Check(context.Context) ComponentHealth {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()

	status := HealthStateHealthy
	message := "ok"
	if r.maxGoroutines > 0 && goroutines > r.maxGoroutines {
		status = HealthStateWarning
		message = "high goroutine count"
	}
	return ComponentHealth{
		Name:    r.Name(),
		Status:  status,
		Message: message,
		Metadata: map[string]interface{}{
			"goroutines": goroutines,
			"heap_alloc": mem.HeapAlloc,
			"num_gc":     mem.NumGC,
			"go_version": runtime.Version(),
		},
	}
}
