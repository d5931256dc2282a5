package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"

	contextKeyRequestID = "requestId"
)

// operationalPaths are answered without access logs, spans or request metrics
var operationalPaths = map[string]bool{"/health": true, "/ready": true, "/metrics": true}

// Options selects the cross-cutting middleware installed by Setup
type Options struct {
	Service string
	Logger  *logging.Logger
	// Metrics enables request metrics and the /metrics endpoint
	Metrics *metrics.Metrics
	// Tracing starts a server span per request
	Tracing bool
	// AllowedOrigins restricts CORS to the listed origins. Empty allows all.
	AllowedOrigins []string
	// Ready backs /ready. Nil always reports ready.
	Ready func() error
}

// Setup installs the middleware chain and the operational endpoints
func Setup(router *gin.Engine, opts Options) {
	InitValidator()
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	router.Use(Recovery(logger), RequestIDs(), AccessLog(logger), InputSanitizer(), CORS(opts.AllowedOrigins), ContentType())
	if opts.Metrics != nil {
		router.Use(RequestMetrics(opts.Metrics))
	}
	if opts.Tracing {
		router.Use(Tracing(opts.Service))
	}

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "ROUTE_NOT_FOUND", "no such resource", nil)
	})
	router.NoMethod(func(c *gin.Context) {
		writeError(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not supported for this resource", nil)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": opts.Service})
	})
	router.GET("/ready", func(c *gin.Context) {
		if opts.Ready != nil {
			if err := opts.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": opts.Service, "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": opts.Service})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
}

// RequestIDs assigns request and correlation ids, echoing them back and
// placing them on the request context for logs and CloudEvents
func RequestIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		correlationID := c.GetHeader(HeaderCorrelationID)
		if correlationID == "" {
			correlationID = requestID
		}

		c.Set(contextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderCorrelationID, correlationID)

		ctx := logging.ContextWithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(logging.ContextWithCorrelationID(ctx, correlationID))
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestIDs
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}

// AccessLog writes one line per request, at warn for 4xx and error for 5xx
func AccessLog(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if operationalPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.HTTPRequest(c.Request.Context(), c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start), c.ClientIP(), c.Request.UserAgent())
	}
}

// Recovery turns a handler panic into a 500 response
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Panic(c.Request.Context(), recovered)
				AbortWithAppError(c, errors.ErrInternal(""))
			}
		}()
		c.Next()
	}
}

// RequestMetrics records request count, latency and in-flight requests per route
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// CORS answers preflight requests and stamps the CORS headers for the
// browser client. An empty origins list allows every origin.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"Idempotency-Key", HeaderRequestID, HeaderCorrelationID,
		},
		ExposeHeaders: []string{
			"Content-Length", HeaderRequestID, HeaderCorrelationID, "Idempotent-Replayed",
		},
		MaxAge: 24 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
