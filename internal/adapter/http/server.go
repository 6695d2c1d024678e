package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/couchcryptid/solarsite-service/internal/observability"
	"github.com/couchcryptid/solarsite-service/internal/session"
	"github.com/couchcryptid/solarsite-service/internal/web"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LeadQueue accepts leads for asynchronous publishing. Enqueue must not block.
type LeadQueue interface {
	Enqueue(lead domain.Lead) error
}

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Ready       sharedobs.ReadinessChecker
	Sessions    *session.Store
	Predictor   domain.Predictor
	Limiter     *session.RateLimiter
	Leads       LeadQueue
	Pages       *web.Renderer
	Seed        []domain.Location
	CORSOrigins []string
	Metrics     *observability.Metrics
	Logger      *slog.Logger
}

// Server serves the site pages, the JSON API and the health, readiness and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics

	sessions  *session.Store
	predictor domain.Predictor
	limiter   *session.RateLimiter
	leads     LeadQueue
	pages     *web.Renderer
	seed      []domain.Location
}

// NewServer wires every route onto a single ServeMux.
func NewServer(addr string, d Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:    d.Logger,
		metrics:   d.Metrics,
		sessions:  d.Sessions,
		predictor: d.Predictor,
		limiter:   d.Limiter,
		leads:     d.Leads,
		pages:     d.Pages,
		seed:      d.Seed,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Long enough for a prediction round trip.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(d.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /about", s.handleAbout)
	mux.HandleFunc("GET /contact", s.handleContactPage)
	mux.HandleFunc("POST /contact", s.handleContactForm)
	mux.HandleFunc("GET /auth", s.handleAuthPage)
	mux.HandleFunc("POST /auth/signin", s.handleSignInForm)
	mux.HandleFunc("POST /auth/signup", s.handleSignUpForm)
	mux.HandleFunc("GET /locations", s.handleLocationsPage)
	mux.HandleFunc("POST /locations/search", s.handleSearchForm)
	mux.HandleFunc("POST /locations/select", s.handleSelectForm)
	mux.HandleFunc("POST /locations/all", s.handleShowAllForm)
	mux.HandleFunc("POST /locations/predict", s.handlePredictForm)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/locations", s.apiLocations)
	api.HandleFunc("GET /api/locations/top", s.apiTopLocations)
	api.HandleFunc("GET /api/session", s.apiSession)
	api.HandleFunc("POST /api/session/search", s.apiSearch)
	api.HandleFunc("POST /api/session/select", s.apiSelect)
	api.HandleFunc("POST /api/session/all", s.apiShowAll)
	api.HandleFunc("DELETE /api/session", s.apiResetSession)
	api.HandleFunc("POST /api/predict", s.apiPredict)
	api.HandleFunc("POST /api/contact", s.apiContact)
	api.HandleFunc("POST /api/auth/signin", s.apiSignIn)
	api.HandleFunc("POST /api/auth/signup", s.apiSignUp)
	mux.Handle("/api/", newCORS(d.CORSOrigins).Handler(api))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// browser returns the caller's session, issuing a cookie for new sessions.
func (s *Server) browser(w http.ResponseWriter, r *http.Request) *domain.Browser {
	var id string
	if c, err := r.Cookie(session.CookieName); err == nil {
		id = c.Value
	}
	sid, b, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	return b
}

// predict runs a prediction for the session, logging failures other than a
// blank place name.
func (s *Server) predict(ctx context.Context, b *domain.Browser, place string) (domain.View, error) {
	v, err := b.Predict(ctx, s.predictor, place)
	switch {
	case err == nil:
		s.logger.Debug("prediction applied", "place", place, "results", len(v.Locations))
	case errors.Is(err, domain.ErrEmptyPlace):
		s.logger.Debug("prediction skipped", "reason", err)
	default:
		s.logger.Warn("prediction failed", "place", place, "error", err)
	}
	return v, err
}

// enqueueLead hands a lead to the publishing pipeline.
func (s *Server) enqueueLead(lead domain.Lead) error {
	if err := s.leads.Enqueue(lead); err != nil {
		s.metrics.LeadsDropped.Inc()
		s.logger.Warn("lead dropped", "lead_id", lead.ID, "kind", lead.Kind, "error", err)
		return err
	}
	s.metrics.LeadsAccepted.WithLabelValues(string(lead.Kind)).Inc()
	s.logger.Info("lead accepted", "lead_id", lead.ID, "kind", lead.Kind)
	return nil
}
