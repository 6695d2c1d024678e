// Package domain models the SolarSite location browser and lead capture.
//
// # Locations
//
// A [Location] is a candidate site for a solar plant. The suitability score and
// the three sub-scores (solar radiation, land availability, wind speed) are on a
// 0-100 scale. Coordinates are stored [lon, lat], the order used by the map
// layer and by the seed file:
//
//	{"id": "1", "state": "Gujarat", "city": "Kutch", "suitabilityScore": 92,
//	 "solarRadiation": 90, "landAvailability": 85, "windSpeed": 75,
//	 "coordinates": [70.5, 23.5]}
//
// Seed records are loaded once at startup (the embedded set from
// seed/locations.json, or a file given by SEED_FILE) and shared read-only by
// every session.
//
// # Predictions
//
// The prediction service answers a place name with scored points:
//
//	{"results": [{"lat": 12.97, "lon": 77.59, "predicted_score": 81.6}]}
//
// [FromCandidates] turns each point into an ephemeral record with id "ml-<n>",
// the searched place as its city, "Score: N%" as its state and the score rounded
// half up. Ephemeral records carry [Details] with 4-decimal coordinate strings and
// the closest seed site.
//
// # Display bands
//
// Scores are clamped to [0, 100] only when choosing a band:
//
//	>= 80  excellent  green   5-6 kWh/m²/day
//	>= 60  very good  yellow  4-5 kWh/m²/day
//	>= 40  good       orange  3-4 kWh/m²/day
//	 < 40  suitable   red     2-3 kWh/m²/day
//
// # Browsing
//
// A [Browser] is one visitor's query state. Typing a query or moving the
// score slider filters the seed set; selecting a record switches to the top-5
// ranking; a prediction replaces the loaded set with its ephemeral records.
// Only the most recently started prediction may update the browser.
package domain
