package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/couchcryptid/solarsite-service/internal/observability"
)

// maxBodyBytes bounds how much of a prediction response is read.
const maxBodyBytes = 1 << 20

var errInvalidResponse = errors.New("invalid response format from server")

// Client implements domain.Predictor against the prediction service's
// POST /predict endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a prediction client. baseURL has no trailing slash.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Predict asks the service for the best sites around place. An empty result
// list is not an error.
func (c *Client) Predict(ctx context.Context, place string) ([]domain.Candidate, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, domain.ErrEmptyPlace
	}

	start := time.Now()
	cands, err := c.doRequest(ctx, place)
	c.metrics.PredictDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.PredictRequests.WithLabelValues("error").Inc()
		c.logger.Warn("prediction failed", "place", place, "error", err)
	case len(cands) == 0:
		c.metrics.PredictRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("prediction returned no results", "place", place)
	default:
		c.metrics.PredictRequests.WithLabelValues("success").Inc()
		c.logger.Debug("prediction served", "place", place, "results", len(cands))
	}
	return cands, err
}

func (c *Client) doRequest(ctx context.Context, place string) ([]domain.Candidate, error) {
	body, err := json.Marshal(request{Location: place})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, &domain.PredictError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.PredictError{Err: fmt.Errorf("predict request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.PredictError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(data, &e)
		return nil, &domain.PredictError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(e.Error)}
	}

	var pr response
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, &domain.PredictError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if pr.Results == nil {
		return nil, &domain.PredictError{StatusCode: resp.StatusCode, Err: errInvalidResponse}
	}

	cands := make([]domain.Candidate, 0, len(*pr.Results))
	for i, r := range *pr.Results {
		if r == nil || r.Lat == nil || r.Lon == nil || r.PredictedScore == nil {
			return nil, &domain.PredictError{
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("result %d: %w", i, errInvalidResponse),
			}
		}
		cands = append(cands, domain.Candidate{Lat: *r.Lat, Lon: *r.Lon, PredictedScore: *r.PredictedScore})
	}
	return cands, nil
}

// Prediction service wire types.

type request struct {
	Location string `json:"location"`
}

type response struct {
	Results *[]*result `json:"results"`
}

// result fields are pointers so a missing field is distinguishable from zero.
type result struct {
	Lat            *float64 `json:"lat"`
	Lon            *float64 `json:"lon"`
	PredictedScore *float64 `json:"predicted_score"`
}

type errorResponse struct {
	Error string `json:"error"`
}
