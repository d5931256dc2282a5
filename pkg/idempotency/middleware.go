package idempotency

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

const (
	// HeaderKey carries the client chosen key
	HeaderKey = "Idempotency-Key"
	// HeaderReplayed marks a response served from the store
	HeaderReplayed = "Idempotent-Replayed"
)

// Options configures Middleware
type Options struct {
	Service string
	Store   Store
	Logger  *logging.Logger

	// RequireKey rejects mutating requests without a key
	RequireKey bool
	// UserID scopes logging to the caller when set
	UserID func(*gin.Context) string

	MaxKeyLength    int
	LockTimeout     time.Duration
	Retention       time.Duration
	MaxResponseSize int
}

// NewOptions returns options with a one day retention and a one minute lock
func NewOptions(service string, store Store, logger *logging.Logger) *Options {
	return &Options{
		Service: service,
		Store:   store,
		Logger:  logger,
		UserID: func(c *gin.Context) string {
			return logging.UserIDFromContext(c.Request.Context())
		},
		MaxKeyLength:    255,
		LockTimeout:     time.Minute,
		Retention:       24 * time.Hour,
		MaxResponseSize: 1 << 20,
	}
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware answers a repeated mutating request with the stored response
// of the first one. A key reused with a different request is rejected.
func Middleware(opts *Options) gin.HandlerFunc {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("idempotency")

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader(HeaderKey))
		if key == "" && !opts.RequireKey {
			c.Next()
			return
		}
		if err := ValidateKey(key, opts.MaxKeyLength); err != nil {
			middleware.AbortWithAppError(c, errors.ErrValidation(err.Error()))
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		now := time.Now().UTC()
		rec := &Record{
			ID:          uuid.NewString(),
			Service:     opts.Service,
			Key:         key,
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Fingerprint: Fingerprint(c.Request.Method, c.Request.URL.Path, body),
			ReservedAt:  now,
			ExpiresAt:   now.Add(opts.Retention),
		}
		if opts.UserID != nil {
			rec.UserID = opts.UserID(c)
		}
		log := logger.WithFields(map[string]any{"key": key, "path": rec.Path})

		held, inserted, err := opts.Store.Reserve(c.Request.Context(), rec)
		if err != nil {
			log.WithError(err).Error("Idempotency store unavailable")
			middleware.AbortWithAppError(c, errors.ErrServiceUnavailable("idempotency store"))
			return
		}

		if !inserted {
			switch {
			case held.Fingerprint != rec.Fingerprint:
				log.Warn("Idempotency key reused with a different request")
				middleware.AbortWithAppError(c, errors.ErrUnprocessable("IDEMPOTENCY_PARAMETER_MISMATCH",
					"idempotency key was already used with a different request"))
				return
			case held.Completed():
				replay(c, held.Response)
				return
			case held.InFlight(now, opts.LockTimeout):
				middleware.AbortWithAppError(c, errors.ErrConflict("a request with this idempotency key is in progress"))
				return
			}
			log.Info("Taking over stale idempotency key")
		}

		run(c, opts, log, held.ID)
	}
}

func replay(c *gin.Context, resp *Response) {
	if resp.Location != "" {
		c.Header("Location", resp.Location)
	}
	c.Header(HeaderReplayed, "true")
	c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
	c.Abort()
}

func run(c *gin.Context, opts *Options, log *logging.Logger, id string) {
	writer := &recordingWriter{ResponseWriter: c.Writer}
	c.Writer = writer
	c.Next()

	ctx := c.Request.Context()
	status := writer.Status()
	if status >= http.StatusInternalServerError {
		if err := opts.Store.Release(ctx, id); err != nil {
			log.WithError(err).Error("Failed to release idempotency key")
		}
		return
	}

	resp := Response{Status: status, Location: writer.Header().Get("Location")}
	if writer.body.Len() <= opts.MaxResponseSize {
		resp.Body = writer.body.Bytes()
	} else {
		log.Warn("Response too large to replay", "size", writer.body.Len())
	}
	if err := opts.Store.Complete(ctx, id, resp); err != nil {
		log.WithError(err).Error("Failed to store idempotent response")
	}
}
