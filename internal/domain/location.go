package domain

import (
	"encoding/json"
	"fmt"
)

// Coordinates is a WGS-84 position stored in [lon, lat] order, matching the
// map layer and the seed data files.
type Coordinates [2]float64

// Lon returns the longitude component.
func (c Coordinates) Lon() float64 { return c[0] }

// Lat returns the latitude component.
func (c Coordinates) Lat() float64 { return c[1] }

// Valid reports whether both components are inside WGS-84 bounds.
func (c Coordinates) Valid() bool {
	return c.Lon() >= -180 && c.Lon() <= 180 && c.Lat() >= -90 && c.Lat() <= 90
}

// Details is attached to records synthesized from a prediction response.
type Details struct {
	Latitude       string  `json:"latitude"`  // 4 decimal places
	Longitude      string  `json:"longitude"` // 4 decimal places
	PredictedScore int     `json:"predictedScore"`
	NearestSite    string  `json:"nearestSite,omitempty"`
	DistanceKm     float64 `json:"distanceKm,omitempty"`
}

// Location is a candidate site shown in the location browser.
type Location struct {
	ID               string      `json:"id"`
	City             string      `json:"city"`
	State            string      `json:"state"`
	SuitabilityScore float64     `json:"suitabilityScore"`
	SolarRadiation   float64     `json:"solarRadiation"`
	LandAvailability float64     `json:"landAvailability"`
	WindSpeed        float64     `json:"windSpeed"`
	Coordinates      Coordinates `json:"coordinates"`
	Details          *Details    `json:"details,omitempty"`
}

// Ephemeral reports whether the record was synthesized from a prediction.
func (l Location) Ephemeral() bool {
	return l.Details != nil
}

// Label renders "City, State" for headings and log lines.
func (l Location) Label() string {
	return fmt.Sprintf("%s, %s", l.City, l.State)
}

// MarshalJSON adds the derived display fields so API clients do not have to
// reimplement the score bands.
func (l Location) MarshalJSON() ([]byte, error) {
	type plain Location
	return json.Marshal(struct {
		plain
		Suitability     string `json:"suitability"`
		Level           string `json:"level"`
		LandType        string `json:"landType"`
		EnergyPotential string `json:"energyPotential"`
	}{
		plain:           plain(l),
		Suitability:     SuitabilityText(l.SuitabilityScore),
		Level:           SuitabilityLevel(l.SuitabilityScore),
		LandType:        LandType(l.SuitabilityScore),
		EnergyPotential: EnergyPotential(l.SuitabilityScore),
	})
}
