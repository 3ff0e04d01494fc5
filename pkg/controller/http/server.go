package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/seamark-lab/quartermaster/pkg/usecase"
	"github.com/seamark-lab/quartermaster/pkg/utils/logging"
	"github.com/seamark-lab/quartermaster/pkg/utils/safe"
)

// Server routes the action protocol endpoints. All /v1/actions routes sit
// behind the auth middleware; /v1/health does not.
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	authUC usecase.Authenticator
}

type Options func(*Server)

// WithAuth installs the bearer-token authenticator. Without it every request
// runs as the anonymous development identity.
func WithAuth(authUC usecase.Authenticator) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/v1/health", healthHandler)

	r.Route("/v1/actions", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Get("/", listActionsHandler(s.uc))
		r.Post("/execute", executeHandler(s.uc))
		r.Post("/{action_id}/preview", previewHandler(s.uc))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
