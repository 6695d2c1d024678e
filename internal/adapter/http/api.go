package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/couchcryptid/solarsite-service/internal/session"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxJSONBytes = 64 << 10

type errorResponse struct {
	Error  string             `json:"error"`
	Fields domain.FieldErrors `json:"fields,omitempty"`
}

type locationsResponse struct {
	Locations []domain.Location `json:"locations"`
	Total     int               `json:"total"`
}

type searchRequest struct {
	Query    string   `json:"query"`
	MinScore *float64 `json:"minScore"`
}

type selectRequest struct {
	ID string `json:"id"`
}

type predictRequest struct {
	Place string `json:"place"`
}

type leadResponse struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// apiLocations filters the seed set without touching any session.
func (s *Server) apiLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var minScore float64
	if raw := q.Get("min_score"); raw != "" {
		score, err := parseMinScore(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		minScore = score
	}
	locs := domain.Filter(s.seed, q.Get("q"), minScore)
	sharedobs.WriteJSON(w, http.StatusOK, locationsResponse{Locations: locs, Total: len(locs)})
}

// apiTopLocations ranks the seed set.
func (s *Server) apiTopLocations(w http.ResponseWriter, r *http.Request) {
	n := domain.TopFive
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = v
	}
	locs := domain.TopN(s.seed, n)
	sharedobs.WriteJSON(w, http.StatusOK, locationsResponse{Locations: locs, Total: len(locs)})
}

func (s *Server) apiSession(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.browser(w, r).View())
}

// apiResetSession drops the caller's browsing state. The next request starts a
// fresh session on the seed set.
func (s *Server) apiResetSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(session.CookieName); err == nil {
		s.sessions.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.MinScore != nil && !(*req.MinScore >= 0 && *req.MinScore <= 100) {
		writeError(w, http.StatusBadRequest, errInvalidMinScore.Error())
		return
	}

	b := s.browser(w, r)
	v := b.Search(req.Query)
	if req.MinScore != nil {
		v = b.SetMinScore(*req.MinScore)
	}
	sharedobs.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) apiSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := s.browser(w, r).Select(req.ID)
	if errors.Is(err, domain.ErrUnknownLocation) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) apiShowAll(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.browser(w, r).ShowAll())
}

func (s *Server) apiPredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b := s.browser(w, r)
	if !s.allowPredict(r) {
		writeError(w, http.StatusTooManyRequests, msgRateLimited)
		return
	}

	v, err := s.predict(r.Context(), b, req.Place)
	switch {
	case errors.Is(err, domain.ErrEmptyPlace):
		writeError(w, http.StatusBadRequest, domain.UserMessage(err))
	case err != nil:
		writeError(w, http.StatusBadGateway, domain.UserMessage(err))
	default:
		sharedobs.WriteJSON(w, http.StatusOK, v)
	}
}

func (s *Server) apiContact(w http.ResponseWriter, r *http.Request) {
	var form domain.ContactMessage
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.Validate(); err != nil {
		writeInvalid(w, err)
		return
	}
	lead := domain.NewContactLead(form)
	if err := s.enqueueLead(lead); err != nil {
		writeError(w, http.StatusServiceUnavailable, noticeBusy)
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, leadResponse{ID: lead.ID, Message: noticeContactSent})
}

func (s *Server) apiSignIn(w http.ResponseWriter, r *http.Request) {
	var form domain.SignInForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.Validate(); err != nil {
		writeInvalid(w, err)
		return
	}
	s.logger.Info("sign-in received", "remember_me", form.RememberMe, "request_id", RequestID(r.Context()))
	sharedobs.WriteJSON(w, http.StatusOK, leadResponse{Message: noticeSignedIn})
}

func (s *Server) apiSignUp(w http.ResponseWriter, r *http.Request) {
	var form domain.SignUpForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.Validate(); err != nil {
		writeInvalid(w, err)
		return
	}
	lead := domain.NewSignUpLead(form)
	if err := s.enqueueLead(lead); err != nil {
		writeError(w, http.StatusServiceUnavailable, noticeBusy)
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, leadResponse{ID: lead.ID, Message: noticeSignedUp})
}

// decodeJSON reads a single size-limited JSON object into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeInvalid(w http.ResponseWriter, err error) {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		sharedobs.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid form", Fields: fe})
		return
	}
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, errorResponse{Error: msg})
}
