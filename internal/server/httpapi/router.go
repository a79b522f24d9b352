// Package httpapi exposes the object and user operations over HTTP.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/server/metrics"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
	"github.com/dmitrijs2005/sharebox/internal/server/services"
)

// ObjectService is the object side of the API.
type ObjectService interface {
	CreateObject(ctx context.Context, owner, displayName string, r io.Reader) (*models.Object, error)
	ListObjects(ctx context.Context, owner string) ([]*models.Object, error)
	GetMetadata(ctx context.Context, id, requester string) (*models.Object, error)
	SetPermission(ctx context.Context, id, requester, visibility string, credential *string) (string, error)
	ResolveAndFetch(ctx context.Context, linkID string, credential *string) (*services.Download, error)
	OpenOwned(ctx context.Context, id, requester string) (*services.Download, error)
	DeleteObject(ctx context.Context, id, requester string) error
}

// UserService is the identity side of the API.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(accessToken string) (string, error)
}

const (
	defaultTimeout = 60 * time.Second
	// room for multipart headers around the file part
	multipartOverhead = 1 << 20
)

type Options struct {
	MaxUploadBytes    int64
	DownloadRateLimit float64
	DownloadBurst     int
	Timeout           time.Duration
	// TrustProxyHeaders rewrites the client address from X-Forwarded-For /
	// X-Real-IP. Without it rate limits key on the TCP peer.
	TrustProxyHeaders bool
}

type handler struct {
	objects   ObjectService
	users     UserService
	metrics   *metrics.Metrics
	logger    logging.Logger
	maxUpload int64
}

// NewRouter builds the chi router with shared middleware and all routes.
func NewRouter(objects ObjectService, users UserService, mx *metrics.Metrics, logger logging.Logger, opts Options) http.Handler {
	h := &handler{
		objects:   objects,
		users:     users,
		metrics:   mx,
		logger:    logger.With("module", "http"),
		maxUpload: opts.MaxUploadBytes,
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := newClientLimiter(opts.DownloadRateLimit, opts.DownloadBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(
		h.instrument,
		middleware.Recoverer,
		middleware.Timeout(timeout),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeMessage(w, http.StatusNotFound, "no route for "+req.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method "+req.Method+" not allowed")
	})

	r.Get("/ping", h.ping)
	r.Method(http.MethodGet, "/metrics", mx.Handler())

	download := limiter.Middleware(http.HandlerFunc(h.download))
	r.Method(http.MethodGet, "/download/{linkId}", download)

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", h.register)
		api.Post("/login", h.login)
		api.Post("/refresh", h.refresh)
		api.Method(http.MethodGet, "/download/{linkId}", download)

		api.Group(func(priv chi.Router) {
			priv.Use(h.requireAuth)
			priv.Post("/upload", h.upload)
			priv.Get("/files", h.listFiles)
			priv.Get("/files/{id}", h.getFile)
			priv.Get("/files/{id}/content", h.fileContent)
			priv.Put("/files/{id}/permission", h.setPermission)
			priv.Delete("/files/{id}", h.deleteFile)
		})
	})

	return r
}

// instrument logs every request and records it in the request metrics
// under its route pattern.
func (h *handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		h.metrics.ObserveRequest(route, r.Method, strconv.Itoa(status), elapsed)
		h.logger.Info(r.Context(), "request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
		)
	})
}

func (h *handler) ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Object Storage API is running!")
}
