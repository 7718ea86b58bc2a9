// Command genfires generates synthetic fires CSV and province boundary
// GeoJSON fixtures for local development. Output is deterministic for a
// given seed, and the CSV mirrors the real datos.gob.es export:
// semicolon separated, no province name column, and the occasional
// blank or junk cell.
//
// Usage:
//
//	go run ./cmd/genfires -out-dir data/mock -rows 500 -seed 42
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/LoreEMF/spain-wildfires/internal/adapter/geofile"
	"github.com/LoreEMF/spain-wildfires/internal/domain"
	"github.com/LoreEMF/spain-wildfires/internal/geo"
)

type province struct {
	code int
	name string
	lon  float64
	lat  float64
}

var provinces = []province{
	{15, "A Coruña", -8.4, 43.2},
	{27, "Lugo", -7.5, 43.0},
	{32, "Ourense", -7.9, 42.3},
	{36, "Pontevedra", -8.6, 42.4},
	{33, "Asturias", -5.8, 43.4},
	{24, "León", -5.6, 42.6},
	{49, "Zamora", -5.7, 41.5},
	{10, "Cáceres", -6.4, 39.5},
	{6, "Badajoz", -6.9, 38.9},
	{21, "Huelva", -6.9, 37.3},
	{41, "Sevilla", -5.9, 37.4},
	{29, "Málaga", -4.4, 36.7},
	{46, "Valencia", -0.4, 39.5},
	{12, "Castellón", -0.2, 40.0},
	{44, "Teruel", -1.1, 40.3},
	{50, "Zaragoza", -0.9, 41.6},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/mock", "output directory")
	rows := flag.Int("rows", 500, "number of fire records")
	seed := flag.Int64("seed", 42, "random seed")
	fromYear := flag.Int("from", 2001, "first year")
	toYear := flag.Int("to", 2015, "last year")
	flag.Parse()

	if *toYear < *fromYear {
		return fmt.Errorf("-to %d is before -from %d", *toYear, *fromYear)
	}

	rng := rand.New(rand.NewSource(*seed))

	raw := generateTable(rng, *rows, *fromYear, *toYear)
	csvPath := filepath.Join(*outDir, "fires.csv")
	if err := writeCSV(csvPath, raw); err != nil {
		return fmt.Errorf("write fires csv: %w", err)
	}
	log.Printf("wrote %s: %d rows", csvPath, len(raw.Rows))

	fc := generateBoundaries()
	geoPath := filepath.Join(*outDir, "provinces.geojson")
	if err := geofile.NewWriter(geoPath).WriteBoundaries(fc); err != nil {
		return fmt.Errorf("write boundaries: %w", err)
	}
	log.Printf("wrote %s: %d features", geoPath, len(fc.Features))

	printStats(domain.Prepare(raw))
	return nil
}

// generateTable builds raw rows in source-file shape. The province name
// column is deliberately absent: the loader resolves names from the
// boundary file, exactly like with the real export.
func generateTable(rng *rand.Rand, rows, fromYear, toYear int) domain.RawTable {
	columns := []string{
		domain.ColYear, domain.ColDangerID, domain.ColProvinceID,
		domain.ColPersonnel, domain.ColHeavy, domain.ColAir,
		domain.ColBurnedArea, domain.ColCause,
	}

	span := toYear - fromYear + 1
	out := make([][]string, rows)
	for i := range out {
		p := provinces[rng.Intn(len(provinces))]

		year := strconv.Itoa(fromYear + rng.Intn(span))
		danger := strconv.Itoa(1 + rng.Intn(3))
		if rng.Float64() < 0.02 {
			danger = "desconocido"
		}
		provinceID := strconv.Itoa(p.code)
		if rng.Float64() < 0.01 {
			provinceID = ""
		}

		personnel := strconv.Itoa(rng.Intn(40))
		heavy := strconv.Itoa(rng.Intn(8))
		air := strconv.Itoa(rng.Intn(5))
		if rng.Float64() < 0.03 {
			personnel = ""
		}

		var burned string
		switch roll := rng.Float64(); {
		case roll < 0.70:
			burned = strconv.FormatFloat(rng.Float64()*400, 'f', 2, 64)
		case roll < 0.95:
			burned = ""
		default:
			burned = "0"
		}

		var cause string
		switch roll := rng.Float64(); {
		case roll < 0.30:
			cause = strconv.Itoa(400 + rng.Intn(100))
		case roll < 0.90:
			cause = strconv.Itoa(100 + rng.Intn(300))
		default:
			cause = ""
		}

		out[i] = []string{year, danger, provinceID, personnel, heavy, air, burned, cause}
	}

	return domain.RawTable{Columns: columns, Rows: out}
}

func writeCSV(path string, raw domain.RawTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(raw.Columns); err != nil {
		return err
	}
	for _, row := range raw.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func generateBoundaries() *geo.FeatureCollection {
	features := make([]geo.Feature, len(provinces))
	for i, p := range provinces {
		features[i] = geo.Feature{
			Type: "Feature",
			Properties: map[string]any{
				"cod_prov": p.code,
				"name":     p.name,
			},
			Geometry: boxPolygon(p.lon, p.lat),
		}
	}
	return &geo.FeatureCollection{Type: "FeatureCollection", Name: "provincias", Features: features}
}

// boxPolygon draws a small square around the province centroid. Good
// enough for chart and map smoke tests.
func boxPolygon(lon, lat float64) json.RawMessage {
	const d = 0.4
	ring := [][]float64{
		{lon - d, lat - d}, {lon + d, lat - d}, {lon + d, lat + d},
		{lon - d, lat + d}, {lon - d, lat - d},
	}
	geom := map[string]any{"type": "Polygon", "coordinates": [][][]float64{ring}}
	b, err := json.Marshal(geom)
	if err != nil {
		panic(err)
	}
	return b
}

func printStats(table domain.Table) {
	intentional := 0
	missingBurned := 0
	for _, r := range table.Records {
		if r.Intentional {
			intentional++
		}
		if r.BurnedArea == nil {
			missingBurned++
		}
	}

	fmt.Printf("records:             %d\n", len(table.Records))
	fmt.Printf("years:               %d\n", len(table.Years()))
	fmt.Printf("intentional:         %d (%.1f%%)\n", intentional, pct(intentional, len(table.Records)))
	fmt.Printf("missing burned area: %d (%.1f%%)\n", missingBurned, pct(missingBurned, len(table.Records)))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
