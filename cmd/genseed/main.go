// Command genseed converts a spreadsheet export of candidate sites into the
// seed JSON the service embeds or loads through SEED_FILE. The output is
// checked with the same validation the service applies at startup.
//
// Usage:
//
//	go run ./cmd/genseed \
//	  -csv sites.csv \
//	  -out internal/domain/seed/locations.json
//
// The CSV needs a header row with the columns id, state, city,
// suitability_score, solar_radiation, land_availability, wind_speed, lon, lat.
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/solarsite-service/internal/domain"
)

var requiredColumns = []string{
	"id", "state", "city",
	"suitability_score", "solar_radiation", "land_availability", "wind_speed",
	"lon", "lat",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "input CSV of candidate sites")
	out := flag.String("out", "", "output path for the seed JSON")
	flag.Parse()

	if *csvPath == "" || *out == "" {
		flag.Usage()
		return errors.New("missing required flags: -csv, -out")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	locs, err := readLocations(f)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *csvPath, err)
	}
	if err := domain.ValidateSeed(locs); err != nil {
		return fmt.Errorf("generated seed is invalid: %w", err)
	}
	log.Printf("read %d locations", len(locs))

	if err := writeJSON(*out, locs); err != nil {
		return fmt.Errorf("writing seed: %w", err)
	}
	log.Printf("wrote seed: %s", *out)

	printStats(os.Stdout, locs)
	return nil
}

// readLocations parses CSV rows into seed records, matching columns by header.
func readLocations(r io.Reader) ([]domain.Location, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, errors.New("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	locs := make([]domain.Location, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		nums := map[string]float64{}
		for _, c := range requiredColumns[3:] {
			v, err := strconv.ParseFloat(get(row, colIdx, c), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, c, err)
			}
			nums[c] = v
		}
		locs = append(locs, domain.Location{
			ID:               get(row, colIdx, "id"),
			State:            get(row, colIdx, "state"),
			City:             get(row, colIdx, "city"),
			SuitabilityScore: nums["suitability_score"],
			SolarRadiation:   nums["solar_radiation"],
			LandAvailability: nums["land_availability"],
			WindSpeed:        nums["wind_speed"],
			Coordinates:      domain.Coordinates{nums["lon"], nums["lat"]},
		})
	}
	return locs, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// seedRecord is the on-disk shape: the derived display fields that
// Location.MarshalJSON adds for API clients are left out.
type seedRecord struct {
	ID               string             `json:"id"`
	State            string             `json:"state"`
	City             string             `json:"city"`
	SuitabilityScore float64            `json:"suitabilityScore"`
	SolarRadiation   float64            `json:"solarRadiation"`
	LandAvailability float64            `json:"landAvailability"`
	WindSpeed        float64            `json:"windSpeed"`
	Coordinates      domain.Coordinates `json:"coordinates"`
}

func writeJSON(path string, locs []domain.Location) error {
	recs := make([]seedRecord, len(locs))
	for i, l := range locs {
		recs[i] = seedRecord{
			ID:               l.ID,
			State:            l.State,
			City:             l.City,
			SuitabilityScore: l.SuitabilityScore,
			SolarRadiation:   l.SolarRadiation,
			LandAvailability: l.LandAvailability,
			WindSpeed:        l.WindSpeed,
			Coordinates:      l.Coordinates,
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(w io.Writer, locs []domain.Location) {
	levels := map[string]int{}
	for _, l := range locs {
		levels[domain.SuitabilityLevel(l.SuitabilityScore)]++
	}

	fmt.Fprintln(w, "\n=== Seed stats ===")
	fmt.Fprintf(w, "Total: %d\n", len(locs))
	fmt.Fprintf(w, "By level: green=%d, yellow=%d, orange=%d, red=%d\n",
		levels["green"], levels["yellow"], levels["orange"], levels["red"])
	fmt.Fprint(w, "Top 5:")
	for i, l := range domain.TopN(locs, domain.TopFive) {
		fmt.Fprintf(w, " %d.%s(%.0f)", i+1, l.Label(), l.SuitabilityScore)
	}
	fmt.Fprintln(w)
}
