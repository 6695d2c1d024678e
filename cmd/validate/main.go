// Command validate performs integrity checks on a seed file before it is
// shipped through SEED_FILE or embedded: schema and score ranges, geographic
// bounds, duplicate sites, and (optionally) parity with the embedded seed.
//
// Usage:
//
//	go run ./cmd/validate -seed data/locations.json
//	go run ./cmd/validate -seed data/locations.json -compare-embedded
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/solarsite-service/internal/domain"
)

// Bounding box for sites in India, with a margin for offshore candidates.
const (
	minLat, maxLat = 6.0, 37.5
	minLon, maxLon = 68.0, 97.5

	// Two records closer than this are treated as the same site.
	duplicateSiteKm = 1.0
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	seedPath := flag.String("seed", "", "path to the seed JSON file")
	compare := flag.Bool("compare-embedded", false, "also require the file to match the embedded seed")
	flag.Parse()

	if *seedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read seed: %v\n", err)
		os.Exit(1)
	}
	if code := run(os.Stdout, data, *compare); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, data []byte, compare bool) int {
	fmt.Fprintln(w, "=== Seed Integrity Validation ===")
	fmt.Fprintln(w)

	var locs []domain.Location
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&locs); err != nil {
		fmt.Fprintf(w, "FATAL: decode seed: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSchema(locs),
		validateBounds(locs),
		validateDuplicates(locs),
	}
	if compare {
		phases = append(phases, validateEmbeddedParity(locs, domain.SeedLocations()))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d\n", len(locs))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// validateSchema applies the checks the service runs at startup.
func validateSchema(locs []domain.Location) *phase {
	p := &phase{name: "Schema and score ranges"}
	err := domain.ValidateSeed(locs)
	if err == nil {
		return p
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			p.errorf("%v", e)
		}
		return p
	}
	p.errorf("%v", err)
	return p
}

func validateBounds(locs []domain.Location) *phase {
	p := &phase{name: "Geographic bounds"}
	for _, l := range locs {
		lat, lon := l.Coordinates.Lat(), l.Coordinates.Lon()
		if lat < minLat || lat > maxLat || lon < minLon || lon > maxLon {
			p.errorf("%s (%s): [%.4f, %.4f] outside the service area; coordinates must be [lon, lat]", l.ID, l.Label(), lon, lat)
		}
	}
	return p
}

func validateDuplicates(locs []domain.Location) *phase {
	p := &phase{name: "Duplicate sites"}
	names := map[string]string{}
	for i, l := range locs {
		key := strings.ToLower(l.Label())
		if prev, ok := names[key]; ok {
			p.errorf("%s and %s are both %q", prev, l.ID, l.Label())
		}
		names[key] = l.ID

		if site, km, ok := domain.NearestSite(l.Coordinates.Lat(), l.Coordinates.Lon(), locs[:i]); ok && km < duplicateSiteKm {
			p.errorf("%s (%s) is %.2f km from %s (%s)", l.ID, l.Label(), km, site.ID, site.Label())
		}
	}
	return p
}

func validateEmbeddedParity(locs, embedded []domain.Location) *phase {
	p := &phase{name: "Embedded seed parity"}
	if len(locs) != len(embedded) {
		p.errorf("record count: file=%d embedded=%d", len(locs), len(embedded))
	}
	byID := make(map[string]domain.Location, len(locs))
	for _, l := range locs {
		byID[l.ID] = l
	}
	for _, want := range embedded {
		got, ok := byID[want.ID]
		if !ok {
			p.errorf("%s (%s): missing from file", want.ID, want.Label())
			continue
		}
		if got.Label() != want.Label() {
			p.errorf("%s: name %q, embedded %q", want.ID, got.Label(), want.Label())
		}
		if got.SuitabilityScore != want.SuitabilityScore {
			p.errorf("%s: suitabilityScore %.1f, embedded %.1f", want.ID, got.SuitabilityScore, want.SuitabilityScore)
		}
		if got.Coordinates != want.Coordinates {
			p.errorf("%s: coordinates %v, embedded %v", want.ID, got.Coordinates, want.Coordinates)
		}
	}
	return p
}
