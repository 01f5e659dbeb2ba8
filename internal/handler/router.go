package handler

import (
	"net/http"

	"github.com/kvothesson/chat-saas-gateway/internal/infra/observability"
	"github.com/kvothesson/chat-saas-gateway/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Options toggles optional routes.
type Options struct {
	// DebugStats exposes GET /debug/stats.
	DebugStats bool
}

// NewRouter creates the HTTP router with all routes and middleware.
// Every response, 404 and preflight included, carries the CORS headers.
func NewRouter(svc *service.ChatService, metrics *observability.Metrics, logger *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(corsMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/", rootHandler())
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// =============================================
	// 💬 Chat
	// POST /chat
	// =============================================
	r.Post("/chat", chatHandler(svc, logger))

	// =============================================
	// 🏪 Business profile
	// GET /business
	// =============================================
	r.Get("/business", businessHandler(svc, logger))

	// =============================================
	// 📊 Usage (debug panel)
	// GET /debug/stats?type=today|total
	// =============================================
	if opts.DebugStats {
		r.Get("/debug/stats", debugStatsHandler(metrics))
	}

	r.NotFound(notFoundHandler())
	r.MethodNotAllowed(notFoundHandler())

	return r
}
