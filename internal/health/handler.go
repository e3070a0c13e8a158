package health

import (
	"net/http"
	"time"

	"github.com/sangkips/template-dispatch-service/internal/domains/templates"
	"github.com/sangkips/template-dispatch-service/internal/handlers"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping() error
}

type Handler struct {
	engine templates.Renderer
	queue  Pinger
}

// NewHandler creates a health handler. queue may be nil when mail is not
// published through a broker.
func NewHandler(engine templates.Renderer, queue Pinger) *Handler {
	return &Handler{
		engine: engine,
		queue:  queue,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Timestamp time.Time        `json:"timestamp"`
}

// Check represents a single health check
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health performs health checks on the rendering engine and the queue
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check)
	overallHealthy := true

	engineCheck := h.checkEngine()
	checks["engine"] = engineCheck
	if engineCheck.Status != "healthy" {
		overallHealthy = false
	}

	if h.queue != nil {
		queueCheck := h.checkQueue()
		checks["queue"] = queueCheck
		if queueCheck.Status != "healthy" {
			overallHealthy = false
		}
	}

	// Determine overall status
	status := "healthy"
	statusCode := http.StatusOK
	if !overallHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	handlers.RespondWithJSON(w, statusCode, HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now(),
	})
}

// checkEngine renders a canary template
func (h *Handler) checkEngine() Check {
	if h.engine == nil {
		return Check{
			Status:  "unhealthy",
			Message: "engine is nil",
		}
	}

	canary := templates.New("ping #{value}")
	canary.AddBinding("value", "pong")
	out, err := h.engine.Render(canary)
	if err != nil || out != "ping pong" {
		msg := "unexpected canary output: " + out
		if err != nil {
			msg = "canary render failed: " + err.Error()
		}
		return Check{
			Status:  "unhealthy",
			Message: msg,
		}
	}

	return Check{
		Status:  "healthy",
		Message: "engine is rendering",
	}
}

// checkQueue checks if RabbitMQ is accessible
func (h *Handler) checkQueue() Check {
	if err := h.queue.Ping(); err != nil {
		return Check{
			Status:  "unhealthy",
			Message: "queue connection failed: " + err.Error(),
		}
	}

	return Check{
		Status:  "healthy",
		Message: "queue is accessible",
	}
}
