package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/couchcryptid/solarsite-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type apiLocations struct {
	Locations []domain.Location `json:"locations"`
	Total     int               `json:"total"`
}

type apiLead struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), body)
	return v
}

func ids(locs []domain.Location) []string {
	out := make([]string, 0, len(locs))
	for _, l := range locs {
		out = append(out, l.ID)
	}
	return out
}

func TestAPI_Locations(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/locations?q=gujarat", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decode[apiLocations](t, rec.Body.String())
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, []string{"1", "14"}, ids(got.Locations))
}

func TestAPI_LocationsIncludesDisplayBands(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/locations?q=Kutch", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Locations []map[string]any `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Locations, 1)
	assert.Equal(t, "excellent", body.Locations[0]["suitability"])
	assert.Equal(t, "5-6 kWh/m²/day", body.Locations[0]["energyPotential"])
}

func TestAPI_LocationsInvalidMinScore(t *testing.T) {
	env := newTestEnv(t)

	for _, v := range []string{"abc", "-1", "101"} {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/locations?min_score="+v, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, v)
		assert.Contains(t, decode[apiError](t, rec.Body.String()).Error, "min_score")
	}
}

func TestAPI_TopLocations(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/locations/top", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"1", "18", "2", "13", "3"}, ids(decode[apiLocations](t, rec.Body.String()).Locations))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/locations/top?n=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"1", "18"}, ids(decode[apiLocations](t, rec.Body.String()).Locations))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/locations/top?n=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_SessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	c, base := env.client(t)

	status, body := get(t, c, base+"/api/session")
	require.Equal(t, http.StatusOK, status)
	v := decode[domain.View](t, body)
	assert.Equal(t, 18, v.Total)
	assert.False(t, v.TopFive)

	status, body = postJSON(t, c, base+"/api/session/search", `{"query":"Gujarat","minScore":90}`)
	require.Equal(t, http.StatusOK, status)
	v = decode[domain.View](t, body)
	assert.Equal(t, "Gujarat", v.Query)
	assert.InDelta(t, 90, v.MinScore, 0)
	assert.Equal(t, []string{"1"}, ids(v.Locations))

	status, body = postJSON(t, c, base+"/api/session/select", `{"id":"1"}`)
	require.Equal(t, http.StatusOK, status)
	v = decode[domain.View](t, body)
	assert.True(t, v.TopFive)
	require.NotNil(t, v.Selected)
	assert.Equal(t, "Kutch", v.Selected.City)
	assert.Equal(t, 1, v.Ranking)
	assert.Len(t, v.Locations, 5)

	status, body = postJSON(t, c, base+"/api/session/select", `{"id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "unknown location", decode[apiError](t, body).Error)

	status, body = postJSON(t, c, base+"/api/session/all", ``)
	require.Equal(t, http.StatusOK, status)
	v = decode[domain.View](t, body)
	assert.False(t, v.TopFive)
	assert.Nil(t, v.Selected)
	assert.Equal(t, []string{"1"}, ids(v.Locations))
}

func TestAPI_ResponsesAreJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/locations?q=Kerala", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/locations?min_score=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, decode[apiError](t, rec.Body.String()).Error)
}

func TestAPI_ResetSession(t *testing.T) {
	env := newTestEnv(t)
	c, base := env.client(t)

	status, _ := postJSON(t, c, base+"/api/session/search", `{"query":"Gujarat"}`)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.ActiveSessions), 0)

	req, err := http.NewRequest(http.MethodDelete, base+"/api/session", nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.InDelta(t, 0, testutil.ToFloat64(env.metrics.ActiveSessions), 0)

	status, body := get(t, c, base+"/api/session")
	require.Equal(t, http.StatusOK, status)
	v := decode[domain.View](t, body)
	assert.Empty(t, v.Query)
	assert.Len(t, v.Locations, 18)
}

func TestAPI_SearchRejectsBadBodies(t *testing.T) {
	env := newTestEnv(t)
	c, base := env.client(t)

	for _, body := range []string{`{"query":`, `{"q":"Gujarat"}`, `{"minScore":150}`} {
		status, _ := postJSON(t, c, base+"/api/session/search", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
	}
}

func TestAPI_Predict(t *testing.T) {
	env := newTestEnv(t)
	env.predictor.cands = []domain.Candidate{{Lat: 26.91, Lon: 70.9, PredictedScore: 81.5}}
	c, base := env.client(t)

	status, body := postJSON(t, c, base+"/api/predict", `{"place":"Jaisalmer"}`)

	require.Equal(t, http.StatusOK, status)
	v := decode[domain.View](t, body)
	assert.True(t, v.TopFive)
	assert.False(t, v.Loading)
	require.Len(t, v.Locations, 1)
	loc := v.Locations[0]
	assert.Equal(t, "ml-0", loc.ID)
	assert.Equal(t, "Jaisalmer", loc.City)
	assert.Equal(t, "Score: 82%", loc.State)
	require.NotNil(t, loc.Details)
	assert.Equal(t, 82, loc.Details.PredictedScore)
	assert.Equal(t, "26.9100", loc.Details.Latitude)
	assert.Equal(t, "Jaisalmer, Rajasthan", loc.Details.NearestSite)

	status, body = get(t, c, base+"/api/session")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decode[domain.View](t, body).Total)
}

func TestAPI_PredictErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		place      string
		wantStatus int
		wantError  string
	}{
		{name: "service message", err: &domain.PredictError{StatusCode: 404, Message: "Location not found"}, place: "Atlantis", wantStatus: http.StatusBadGateway, wantError: "Location not found"},
		{name: "transport failure", err: errors.New("dial tcp: refused"), place: "Kutch", wantStatus: http.StatusBadGateway, wantError: domain.GenericPredictMessage},
		{name: "blank place", place: "  ", wantStatus: http.StatusBadRequest, wantError: "Please enter a location name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.predictor.err = tt.err
			c, base := env.client(t)

			body, err := json.Marshal(map[string]string{"place": tt.place})
			require.NoError(t, err)
			status, resp := postJSON(t, c, base+"/api/predict", string(body))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantError, decode[apiError](t, resp).Error)

			_, sess := get(t, c, base+"/api/session")
			assert.Equal(t, tt.wantError, decode[domain.View](t, sess).Error)
		})
	}
}

func TestAPI_PredictRateLimited(t *testing.T) {
	env := newTestEnv(t, withPredictLimit(2))
	c, base := env.client(t)

	for range 2 {
		status, _ := postJSON(t, c, base+"/api/predict", `{"place":"Kutch"}`)
		require.Equal(t, http.StatusOK, status)
	}
	status, body := postJSON(t, c, base+"/api/predict", `{"place":"Kutch"}`)

	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Contains(t, decode[apiError](t, body).Error, "Too many prediction requests")
	assert.Len(t, env.predictor.calls(), 2)
}

func TestAPI_Contact(t *testing.T) {
	env := newTestEnv(t)
	c, base := env.client(t)

	status, body := postJSON(t, c, base+"/api/contact", `{"name":"","email":"asha@example","message":"Need a demo please"}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	e := decode[apiError](t, body)
	assert.Equal(t, "invalid form", e.Error)
	assert.Equal(t, map[string]string{"name": "Name is required", "email": "Invalid email address"}, e.Fields)

	status, body = postJSON(t, c, base+"/api/contact", `{"name":"Asha","email":"asha@example.com","message":"Need a demo please"}`)
	require.Equal(t, http.StatusAccepted, status)
	lead := decode[apiLead](t, body)

	leads := env.queue.snapshot()
	require.Len(t, leads, 1)
	assert.Equal(t, leads[0].ID, lead.ID)
	assert.Equal(t, "Need a demo please", leads[0].Message)
}

func TestAPI_ContactQueueFull(t *testing.T) {
	env := newTestEnv(t)
	env.queue.err = pipeline.ErrQueueFull
	c, base := env.client(t)

	status, _ := postJSON(t, c, base+"/api/contact", `{"name":"Asha","email":"asha@example.com","message":"Need a demo please"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestAPI_SignIn(t *testing.T) {
	env := newTestEnv(t)
	c, base := env.client(t)

	status, body := postJSON(t, c, base+"/api/auth/signin", `{"email":"ravi@example.com","password":"short"}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Password must be at least 8 characters", decode[apiError](t, body).Fields["password"])

	status, _ = postJSON(t, c, base+"/api/auth/signin", `{"email":"ravi@example.com","password":"correct-horse","rememberMe":true}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, env.queue.snapshot())
}

func TestAPI_SignUp(t *testing.T) {
	env := newTestEnv(t)
	c, base := env.client(t)

	status, body := postJSON(t, c, base+"/api/auth/signup", `{"fullName":"Ravi Kumar","email":"ravi@example.com","organizationId":"ORG-42","password":"correct-horse","confirmPassword":"correct-horse"}`)

	require.Equal(t, http.StatusAccepted, status)
	assert.NotEmpty(t, decode[apiLead](t, body).ID)
	leads := env.queue.snapshot()
	require.Len(t, leads, 1)
	assert.Equal(t, domain.LeadSignUp, leads[0].Kind)
	assert.Equal(t, "ORG-42", leads[0].Organization)
}
