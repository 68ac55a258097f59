// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-terminal-backend/docs"
	"github.com/tbourn/go-terminal-backend/internal/config"
	"github.com/tbourn/go-terminal-backend/internal/domain"
	"github.com/tbourn/go-terminal-backend/internal/filter"
	"github.com/tbourn/go-terminal-backend/internal/http/handlers"
	"github.com/tbourn/go-terminal-backend/internal/http/middleware"
	"github.com/tbourn/go-terminal-backend/internal/repo"
	"github.com/tbourn/go-terminal-backend/internal/services"
)

// terminalRepoShim adapts the repository free functions to the
// services.TerminalRepo interface expected by the TerminalService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type terminalRepoShim struct{}

// CreateTerminal proxies repo.CreateTerminal.
func (terminalRepoShim) CreateTerminal(ctx context.Context, db *gorm.DB, t *domain.Terminal) (*domain.Terminal, error) {
	return repo.CreateTerminal(ctx, db, t)
}

// GetTerminal proxies repo.GetTerminal.
func (terminalRepoShim) GetTerminal(ctx context.Context, db *gorm.DB, id string) (*domain.Terminal, error) {
	return repo.GetTerminal(ctx, db, id)
}

// TerminalIDTaken proxies repo.TerminalIDTaken.
func (terminalRepoShim) TerminalIDTaken(ctx context.Context, db *gorm.DB, terminalID string) (bool, error) {
	return repo.TerminalIDTaken(ctx, db, terminalID)
}

// ListTerminals proxies repo.ListTerminals.
func (terminalRepoShim) ListTerminals(ctx context.Context, db *gorm.DB, c filter.Criteria) ([]domain.Terminal, error) {
	return repo.ListTerminals(ctx, db, c)
}

// ListTerminalsPage proxies repo.ListTerminalsPage (pagination support).
func (terminalRepoShim) ListTerminalsPage(ctx context.Context, db *gorm.DB, c filter.Criteria, offset, limit int) ([]domain.Terminal, error) {
	return repo.ListTerminalsPage(ctx, db, c, offset, limit)
}

// CountTerminals proxies repo.CountTerminals (pagination support).
func (terminalRepoShim) CountTerminals(ctx context.Context, db *gorm.DB, c filter.Criteria) (int64, error) {
	return repo.CountTerminals(ctx, db, c)
}

// MarkReturned proxies repo.MarkReturned.
func (terminalRepoShim) MarkReturned(ctx context.Context, db *gorm.DB, id, reason string, at time.Time) error {
	return repo.MarkReturned(ctx, db, id, reason, at)
}

// ClearReturn proxies repo.ClearReturn.
func (terminalRepoShim) ClearReturn(ctx context.Context, db *gorm.DB, id string) error {
	return repo.ClearReturn(ctx, db, id)
}

// DeleteTerminal proxies repo.DeleteTerminal.
func (terminalRepoShim) DeleteTerminal(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteTerminal(ctx, db, id)
}

// DeleteAllTerminals proxies repo.DeleteAllTerminals.
func (terminalRepoShim) DeleteAllTerminals(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.DeleteAllTerminals(ctx, db)
}

// TerminalTotals proxies repo.TerminalTotals.
func (terminalRepoShim) TerminalTotals(ctx context.Context, db *gorm.DB) (repo.Totals, error) {
	return repo.TerminalTotals(ctx, db)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (larger cap for workbook uploads)
//  6. Response compression (metrics and xlsx downloads excluded)
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB; the import endpoint accepts workbooks)
	r.Use(limitBody(1<<20, maxUploadBytes))

	// 6) Compress JSON responses; skip Prometheus scrapes and xlsx downloads
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics"}),
		gzip.WithExcludedPathsRegexs([]string{`/terminals/report$`}),
	))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting). Keys are scoped per
	// operation so a dispatch key cannot replay an import and vice versa.
	lookup := func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
		rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
		if err != nil || rec == nil {
			return false, nil
		}
		return true, nil
	}
	idemOpts := middleware.IdempotencyOptions{MaxLen: 200}
	idemDispatch := middleware.IdempotencyValidator(middleware.ScopeDispatch, idemOpts, lookup)
	idemImport := middleware.IdempotencyValidator(middleware.ScopeImport, idemOpts, lookup)
	r.Use(func(c *gin.Context) {
		if strings.HasSuffix(c.FullPath(), "/terminals/import") {
			idemImport(c)
			return
		}
		idemDispatch(c)
	})

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	termSvc := services.NewTerminalService(db, terminalRepoShim{})
	importSvc := services.NewImportService(db, termSvc)
	h := handlers.New(termSvc, importSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Collection
		api.POST("/terminals", h.DispatchTerminal)
		api.GET("/terminals", h.ListTerminals)
		api.DELETE("/terminals", h.DeleteAllTerminals)

		// Aggregates and exports
		api.GET("/terminals/stats", h.TerminalStats)
		api.GET("/terminals/report", h.DownloadReport)
		api.POST("/terminals/import", h.ImportTerminals)

		// Single record
		api.GET("/terminals/:id", h.GetTerminal)
		api.DELETE("/terminals/:id", h.DeleteTerminal)

		// Lifecycle transitions
		api.POST("/terminals/:id/return", h.ReturnTerminal)
		api.POST("/terminals/:id/reactivate", h.ReactivateTerminal)
	}
}

// maxUploadBytes caps the request body on the workbook import endpoint. It
// leaves headroom above the 10 MiB file limit for the multipart envelope.
const maxUploadBytes = 12 << 20

// limitBody returns a Gin middleware that caps the request body size using
// http.MaxBytesReader. Most endpoints get maxBytes; the import endpoint gets
// uploadBytes so multipart workbooks fit. Requests exceeding the cap cause
// downstream body reads to error.
func limitBody(maxBytes, uploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if strings.HasSuffix(c.FullPath(), "/terminals/import") {
			limit = uploadBytes
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
