package domain

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

//go:embed seed/locations.json
var embeddedSeed []byte

// SeedLocations returns a fresh copy of the built-in seed set.
func SeedLocations() []Location {
	locs, err := LoadSeed(bytes.NewReader(embeddedSeed))
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return locs
}

// LoadSeed decodes a JSON array of locations and checks it with ValidateSeed.
func LoadSeed(r io.Reader) ([]Location, error) {
	var locs []Location
	if err := json.NewDecoder(r).Decode(&locs); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := ValidateSeed(locs); err != nil {
		return nil, err
	}
	return locs, nil
}

// ValidateSeed reports every problem in a seed set: missing or duplicate ids,
// empty names, scores outside [0, 100] and out-of-range coordinates. Seed
// records must not carry prediction details.
func ValidateSeed(locs []Location) error {
	if len(locs) == 0 {
		return errors.New("seed: no locations")
	}

	var errs []error
	seen := make(map[string]bool, len(locs))
	for i, l := range locs {
		switch {
		case l.ID == "":
			errs = append(errs, fmt.Errorf("seed[%d]: missing id", i))
		case seen[l.ID]:
			errs = append(errs, fmt.Errorf("seed[%d]: duplicate id %q", i, l.ID))
		}
		seen[l.ID] = true

		if l.City == "" || l.State == "" {
			errs = append(errs, fmt.Errorf("seed[%d] %q: city and state are required", i, l.ID))
		}
		scores := map[string]float64{
			"suitabilityScore": l.SuitabilityScore,
			"solarRadiation":   l.SolarRadiation,
			"landAvailability": l.LandAvailability,
			"windSpeed":        l.WindSpeed,
		}
		for _, name := range slices.Sorted(maps.Keys(scores)) {
			if v := scores[name]; v < 0 || v > 100 {
				errs = append(errs, fmt.Errorf("seed[%d] %q: %s %.1f outside [0,100]", i, l.ID, name, v))
			}
		}
		if !l.Coordinates.Valid() {
			errs = append(errs, fmt.Errorf("seed[%d] %q: coordinates %v out of range", i, l.ID, l.Coordinates))
		}
		if l.Details != nil {
			errs = append(errs, fmt.Errorf("seed[%d] %q: seed records cannot carry prediction details", i, l.ID))
		}
	}
	return errors.Join(errs...)
}
