package domain

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownLocation is returned when a selection names a record that is not
// currently loaded.
var ErrUnknownLocation = errors.New("unknown location")

// View is a point-in-time snapshot of a Browser for rendering.
type View struct {
	Query     string     `json:"query"`
	MinScore  float64    `json:"minScore"`
	TopFive   bool       `json:"topFive"`
	Loading   bool       `json:"loading"`
	Selected  *Location  `json:"selected,omitempty"`
	Ranking   int        `json:"ranking,omitempty"` // 1-based position of Selected in Locations, 0 outside top-5 mode
	Locations []Location `json:"locations"`
	Total     int        `json:"total"` // number of loaded records
	Error     string     `json:"error,omitempty"`
}

// Browser holds one visitor's location-browsing state: the query, the score
// threshold, the display mode and the records currently loaded. Seed records
// are shared and never modified; prediction records belong to the browser and
// are dropped by the next search.
//
// All methods are safe for concurrent use. Prediction responses are applied
// only if no later prediction has started, so a slow response can never
// overwrite a newer one.
type Browser struct {
	mu sync.Mutex

	seed      []Location
	loaded    []Location
	displayed []Location

	query    string
	minScore float64
	topFive  bool
	selected *Location
	loading  bool
	errMsg   string
	ticket   uint64
}

// NewBrowser starts a browser showing every seed record.
func NewBrowser(seed []Location) *Browser {
	b := &Browser{seed: seed}
	b.refilter()
	return b
}

// Search sets the free-text query and leaves top-5 mode.
func (b *Browser) Search(query string) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.query = query
	b.topFive = false
	b.refilter()
	return b.viewLocked()
}

// SetMinScore sets the score threshold and leaves top-5 mode.
func (b *Browser) SetMinScore(score float64) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.minScore = score
	b.topFive = false
	b.refilter()
	return b.viewLocked()
}

// ShowAll leaves top-5 mode, clears the selection and reapplies the current
// query and threshold to the seed set.
func (b *Browser) ShowAll() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.topFive = false
	b.selected = nil
	b.refilter()
	return b.viewLocked()
}

// Select marks a displayed or loaded record and switches to the top-5 ranking
// of the loaded records.
func (b *Browser) Select(id string) (View, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	loc, ok := FindByID(b.displayed, id)
	if !ok {
		loc, ok = FindByID(b.loaded, id)
	}
	if !ok {
		return b.viewLocked(), ErrUnknownLocation
	}

	b.supersede()
	b.selected = &loc
	b.topFive = true
	b.displayed = TopN(b.loaded, TopFive)
	return b.viewLocked(), nil
}

// BeginPredict validates the place name and marks a prediction as in flight.
// The returned ticket must be passed to CompletePredict.
func (b *Browser) BeginPredict(place string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if strings.TrimSpace(place) == "" {
		b.errMsg = ErrEmptyPlace.Error()
		return 0, ErrEmptyPlace
	}

	b.ticket++
	b.loading = true
	b.errMsg = ""
	b.selected = nil
	b.topFive = true
	return b.ticket, nil
}

// CompletePredict applies a prediction outcome. On error the displayed set is
// cleared and the user-facing message is stored; otherwise exactly records
// are displayed. It reports false, and changes nothing, when a newer
// prediction has been started since ticket was issued.
func (b *Browser) CompletePredict(ticket uint64, records []Location, err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ticket != b.ticket {
		return false
	}

	b.loading = false
	if err != nil {
		b.loaded = nil
		b.displayed = nil
		b.errMsg = UserMessage(err)
		return true
	}

	b.loaded = slices.Clone(records)
	b.displayed = slices.Clone(records)
	return true
}

// Predict runs a full prediction round trip against p. The lock is not held
// while the request is in flight. The returned error is for logging; the
// user-facing outcome is already recorded in the browser.
func (b *Browser) Predict(ctx context.Context, p Predictor, place string) (View, error) {
	ticket, err := b.BeginPredict(place)
	if err != nil {
		return b.View(), err
	}

	cands, err := p.Predict(ctx, place)
	var records []Location
	if err == nil {
		records = FromCandidates(place, cands, b.seed)
	}
	b.CompletePredict(ticket, records, err)
	return b.View(), err
}

// View returns a snapshot of the current state.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// refilter reloads the seed set, dropping prediction records and any pending
// prediction, and applies the query and threshold. Callers hold b.mu.
func (b *Browser) refilter() {
	b.supersede()
	b.errMsg = ""
	b.loaded = b.seed
	b.displayed = Filter(b.seed, b.query, b.minScore)
}

// supersede invalidates the in-flight prediction, if any.
func (b *Browser) supersede() {
	if b.loading {
		b.ticket++
		b.loading = false
	}
}

func (b *Browser) viewLocked() View {
	v := View{
		Query:     b.query,
		MinScore:  b.minScore,
		TopFive:   b.topFive,
		Loading:   b.loading,
		Locations: slices.Clone(b.displayed),
		Total:     len(b.loaded),
		Error:     b.errMsg,
	}
	if v.Locations == nil {
		v.Locations = []Location{}
	}
	if b.selected != nil {
		sel := *b.selected
		v.Selected = &sel
		if b.topFive {
			v.Ranking = Rank(b.displayed, sel.ID)
		}
	}
	return v
}
