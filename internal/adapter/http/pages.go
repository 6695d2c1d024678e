package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/couchcryptid/solarsite-service/internal/web"
)

const maxFormBytes = 64 << 10

// Notices shown after a successful form submission.
const (
	noticeContactSent = "Message Sent! Thank you for reaching out. We'll get back to you as soon as possible."
	noticeSignedIn    = "Thanks for signing in. Accounts are not open yet, we will email you when they are."
	noticeSignedUp    = "Thanks for signing up! We'll be in touch to activate your account."
	noticeBusy        = "We could not accept your submission right now. Please try again shortly."
	msgRateLimited    = "Too many prediction requests. Please wait a moment and try again."
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, web.PageHome, web.Data{})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, web.PageAbout, web.Data{})
}

func (s *Server) handleContactPage(w http.ResponseWriter, r *http.Request) {
	data := web.Data{}
	if r.URL.Query().Get("sent") == "1" {
		data.Notice = noticeContactSent
	}
	s.render(w, http.StatusOK, web.PageContact, data)
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := domain.ContactMessage{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}
	if err := form.Validate(); err != nil {
		s.renderInvalid(w, web.PageContact, web.Data{ContactForm: &form}, err)
		return
	}
	if err := s.enqueueLead(domain.NewContactLead(form)); err != nil {
		s.render(w, http.StatusServiceUnavailable, web.PageContact, web.Data{ContactForm: &form, Notice: noticeBusy})
		return
	}
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := web.Data{Tab: authTab(q.Get("tab"))}
	switch q.Get("done") {
	case "signin":
		data.Notice = noticeSignedIn
	case "signup":
		data.Notice = noticeSignedUp
	}
	s.render(w, http.StatusOK, web.PageAuth, data)
}

func (s *Server) handleSignInForm(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	remember, _ := strconv.ParseBool(r.PostFormValue("rememberMe"))
	form := domain.SignInForm{
		Email:      r.PostFormValue("email"),
		Password:   r.PostFormValue("password"),
		RememberMe: remember,
	}
	if err := form.Validate(); err != nil {
		form.Password = ""
		s.renderInvalid(w, web.PageAuth, web.Data{Tab: "signin", SignIn: &form}, err)
		return
	}
	s.logger.Info("sign-in received", "remember_me", form.RememberMe, "request_id", RequestID(r.Context()))
	http.Redirect(w, r, "/auth?"+url.Values{"tab": {"signin"}, "done": {"signin"}}.Encode(), http.StatusSeeOther)
}

func (s *Server) handleSignUpForm(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := domain.SignUpForm{
		FullName:        r.PostFormValue("fullName"),
		Email:           r.PostFormValue("email"),
		OrganizationID:  r.PostFormValue("organizationId"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	if err := form.Validate(); err != nil {
		form.Password, form.ConfirmPassword = "", ""
		s.renderInvalid(w, web.PageAuth, web.Data{Tab: "signup", SignUp: &form}, err)
		return
	}
	if err := s.enqueueLead(domain.NewSignUpLead(form)); err != nil {
		form.Password, form.ConfirmPassword = "", ""
		s.render(w, http.StatusServiceUnavailable, web.PageAuth, web.Data{Tab: "signup", SignUp: &form, Notice: noticeBusy})
		return
	}
	http.Redirect(w, r, "/auth?"+url.Values{"tab": {"signup"}, "done": {"signup"}}.Encode(), http.StatusSeeOther)
}

func (s *Server) handleLocationsPage(w http.ResponseWriter, r *http.Request) {
	v := s.browser(w, r).View()
	s.render(w, http.StatusOK, web.PageLocations, web.Data{View: &v})
}

func (s *Server) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	b := s.browser(w, r)
	raw := r.PostFormValue("min_score")
	var score float64
	if raw != "" {
		var err error
		if score, err = parseMinScore(raw); err != nil {
			v := b.View()
			v.Error = err.Error()
			s.render(w, http.StatusBadRequest, web.PageLocations, web.Data{View: &v})
			return
		}
	}
	b.Search(r.PostFormValue("q"))
	if raw != "" {
		b.SetMinScore(score)
	}
	http.Redirect(w, r, "/locations", http.StatusSeeOther)
}

func (s *Server) handleSelectForm(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	v, err := s.browser(w, r).Select(r.PostFormValue("id"))
	if err != nil {
		v.Error = msgUnknownLocation
		s.render(w, http.StatusNotFound, web.PageLocations, web.Data{View: &v})
		return
	}
	http.Redirect(w, r, "/locations#selected", http.StatusSeeOther)
}

func (s *Server) handleShowAllForm(w http.ResponseWriter, r *http.Request) {
	s.browser(w, r).ShowAll()
	http.Redirect(w, r, "/locations", http.StatusSeeOther)
}

func (s *Server) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	b := s.browser(w, r)
	if !s.allowPredict(r) {
		v := b.View()
		v.Error = msgRateLimited
		s.render(w, http.StatusTooManyRequests, web.PageLocations, web.Data{View: &v})
		return
	}
	s.predict(r.Context(), b, r.PostFormValue("place")) //nolint:errcheck // outcome is stored in the session view
	http.Redirect(w, r, "/locations", http.StatusSeeOther)
}

// render writes a full page. The page is rendered before any header is sent so
// a template failure still produces a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, page string, data web.Data) {
	var buf bytes.Buffer
	if err := s.pages.Render(&buf, page, data); err != nil {
		s.logger.Error("render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w) //nolint:errcheck // client went away
}

// renderInvalid re-renders a form page with its field errors.
func (s *Server) renderInvalid(w http.ResponseWriter, page string, data web.Data, err error) {
	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		s.logger.Error("validate form", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data.Errors = fe
	s.render(w, http.StatusUnprocessableEntity, page, data)
}

// parseForm reads a size-limited form body, answering 400 on failure.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return false
	}
	return true
}

func authTab(tab string) string {
	if tab == "signup" {
		return tab
	}
	return "signin"
}

// parseMinScore accepts a threshold in [0, 100].
func parseMinScore(raw string) (float64, error) {
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(score >= 0 && score <= 100) {
		return 0, errInvalidMinScore
	}
	return score, nil
}

var errInvalidMinScore = errors.New("min_score must be a number between 0 and 100")

const msgUnknownLocation = "That location is not in the list. Please choose another."
