package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s2"
)

// GenericPredictMessage is shown when a prediction fails without a message
// from the prediction service.
const GenericPredictMessage = "Failed to get prediction. Please try again."

const earthRadiusKm = 6371.0088

// ErrEmptyPlace is returned for a blank place name; no request is made.
var ErrEmptyPlace = errors.New("Please enter a location name") //nolint:staticcheck // shown to users as-is

// Candidate is one scored point returned by the prediction service.
type Candidate struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	PredictedScore float64 `json:"predicted_score"`
}

// Predictor asks the external prediction service for the best sites around a
// named place.
type Predictor interface {
	Predict(ctx context.Context, place string) ([]Candidate, error)
}

// PredictError is a failed prediction. Message, when set, came from the
// prediction service and is safe to show to the user verbatim.
type PredictError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *PredictError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("prediction failed: status %d: %s", e.StatusCode, e.Message)
	case e.Message != "":
		return "prediction failed: " + e.Message
	case e.Err != nil:
		return "prediction failed: " + e.Err.Error()
	default:
		return fmt.Sprintf("prediction failed: status %d", e.StatusCode)
	}
}

func (e *PredictError) Unwrap() error { return e.Err }

// UserMessage converts a prediction error into the text shown next to the
// search form.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyPlace) {
		return ErrEmptyPlace.Error()
	}
	var pe *PredictError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return GenericPredictMessage
}

// FromCandidates turns a prediction response into displayable records, one per
// candidate and in response order. Each record is labelled with the place that
// was searched and, when sites is non-empty, annotated with the closest known
// site.
func FromCandidates(place string, cands []Candidate, sites []Location) []Location {
	place = strings.TrimSpace(place)
	out := make([]Location, 0, len(cands))
	for i, c := range cands {
		score := roundHalfUp(c.PredictedScore)
		loc := Location{
			ID:               fmt.Sprintf("ml-%d", i),
			City:             place,
			State:            fmt.Sprintf("Score: %d%%", score),
			SuitabilityScore: float64(score),
			Coordinates:      Coordinates{c.Lon, c.Lat},
			Details: &Details{
				Latitude:       fmt.Sprintf("%.4f", c.Lat),
				Longitude:      fmt.Sprintf("%.4f", c.Lon),
				PredictedScore: score,
			},
		}
		if site, km, ok := NearestSite(c.Lat, c.Lon, sites); ok {
			loc.Details.NearestSite = site.Label()
			loc.Details.DistanceKm = math.Round(km*10) / 10
		}
		out = append(out, loc)
	}
	return out
}

// NearestSite finds the record closest to (lat, lon) by great-circle distance.
func NearestSite(lat, lon float64, sites []Location) (Location, float64, bool) {
	if len(sites) == 0 {
		return Location{}, 0, false
	}
	p := s2.LatLngFromDegrees(lat, lon)
	best, bestKm := 0, math.Inf(1)
	for i, s := range sites {
		q := s2.LatLngFromDegrees(s.Coordinates.Lat(), s.Coordinates.Lon())
		if km := p.Distance(q).Radians() * earthRadiusKm; km < bestKm {
			best, bestKm = i, km
		}
	}
	return sites[best], bestKm, true
}

// roundHalfUp rounds .5 towards positive infinity, the way the score labels
// have always been rounded.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
