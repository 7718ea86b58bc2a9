// Command validate performs integrity checks across the fires data
// sources: the CSV export, the province boundary GeoJSON, and the
// prepared table the dashboard would serve. It verifies schema
// presence, cleaning invariants, boundary completeness, and
// cross-source consistency.
//
// Usage:
//
//	go run ./cmd/validate -data data/fires.csv -geo data/provinces.geojson
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/LoreEMF/spain-wildfires/internal/adapter/csvfile"
	"github.com/LoreEMF/spain-wildfires/internal/adapter/geofile"
	"github.com/LoreEMF/spain-wildfires/internal/domain"
	"github.com/LoreEMF/spain-wildfires/internal/geo"
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
	dataPath := flag.String("data", "", "path to the fires CSV export")
	geoPath := flag.String("geo", "", "path to the province boundary GeoJSON")
	sep := flag.String("sep", ";", "CSV field separator")
	codeKey := flag.String("code-key", "cod_prov", "boundary property holding the province code")
	nameKey := flag.String("name-key", "name", "boundary property holding the province name")
	flag.Parse()

	if *dataPath == "" || *geoPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	if len([]rune(*sep)) != 1 {
		fmt.Fprintln(os.Stderr, "FATAL: -sep must be a single character")
		os.Exit(1)
	}

	if code := run(*dataPath, *geoPath, []rune(*sep)[0], *codeKey, *nameKey); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath, geoPath string, sep rune, codeKey, nameKey string) int {
	fmt.Println("=== Fires Data Integrity Validation ===")
	fmt.Println()

	ctx := context.Background()

	raw, err := csvfile.NewReader(dataPath, sep).ReadTable(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fires CSV: %v\n", err)
		return 1
	}

	boundaries, err := geofile.NewReader(geoPath).ReadBoundaries(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load boundaries: %v\n", err)
		return 1
	}

	table := domain.Prepare(raw)
	lookup := geo.ProvinceLookup(boundaries, codeKey, nameKey)
	resolved := domain.ResolveProvinceNames(table, lookup)

	phases := []*phase{
		validateSchema(raw),
		validatePreparedValues(table),
		validateBoundaries(boundaries, codeKey, nameKey, lookup),
		validateCrossSource(resolved, lookup),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d CSV rows, %d prepared, %d boundary features, %d codes in lookup\n",
		len(raw.Rows), len(table.Records), len(boundaries.Features), len(lookup))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Schema ──
// The CSV must carry every column the dashboard views depend on. The
// province name column is allowed to be absent: the loader resolves
// names from the boundary file.

func validateSchema(raw domain.RawTable) *phase {
	p := &phase{name: "Phase 1: Schema (CSV columns)"}

	required := []string{
		domain.ColYear, domain.ColDangerID, domain.ColProvinceID,
		domain.ColPersonnel, domain.ColHeavy, domain.ColAir,
		domain.ColBurnedArea, domain.ColCause,
	}
	for _, c := range required {
		if !raw.HasColumn(c) {
			p.errorf("missing column %q", c)
		}
	}

	if len(raw.Rows) == 0 {
		p.errorf("no data rows")
	}
	return p
}

// ── Phase 2: Prepared values ──
// Cleaning invariants: the intent flag must agree with the cause code,
// and the burned-area alias must mirror its source column.

func validatePreparedValues(table domain.Table) *phase {
	p := &phase{name: "Phase 2: Prepared values (cleaning)"}

	badYears := 0
	for i, r := range table.Records {
		if r.Year == -1 {
			badYears++
		}

		if r.Intentional {
			if r.Cause == nil {
				p.errorf("row %d: flagged intentional without a readable cause", i+1)
			} else if *r.Cause < domain.IntentionalCauseLower || *r.Cause > domain.IntentionalCauseUpper {
				p.errorf("row %d: flagged intentional with cause %d outside 400-499", i+1, *r.Cause)
			}
		}

		switch {
		case r.BurnedArea == nil && r.BurnedAreaAlias != 0:
			p.errorf("row %d: missing burned area but alias is %v", i+1, r.BurnedAreaAlias)
		case r.BurnedArea != nil && r.BurnedAreaAlias != *r.BurnedArea:
			p.errorf("row %d: alias %v does not match source %v", i+1, r.BurnedAreaAlias, *r.BurnedArea)
		}
	}

	if badYears == len(table.Records) && len(table.Records) > 0 {
		p.errorf("every row has an unreadable year")
	} else if badYears > 0 {
		p.errorf("%d rows with unreadable year", badYears)
	}
	return p
}

// ── Phase 3: Boundaries ──

func validateBoundaries(fc *geo.FeatureCollection, codeKey, nameKey string, lookup map[int]string) *phase {
	p := &phase{name: "Phase 3: Boundaries (GeoJSON)"}

	if len(fc.Features) == 0 {
		p.errorf("no boundary features")
		return p
	}

	for i, f := range fc.Features {
		props := f.Properties
		if props == nil {
			p.errorf("feature %d: no properties", i)
			continue
		}
		if _, ok := props[nameKey]; !ok {
			p.errorf("feature %d: missing %q property", i, nameKey)
		}
		if _, ok := props[codeKey]; !ok {
			p.errorf("feature %d: missing %q property", i, codeKey)
		}
	}

	if len(lookup) == 0 {
		p.errorf("no usable province codes in %q", codeKey)
	}

	// Per-feature lookups count how many features claim each code; the
	// combined lookup keeps only the last.
	counts := make(map[int]int)
	for _, f := range fc.Features {
		sub := geo.ProvinceLookup(&geo.FeatureCollection{Features: []geo.Feature{f}}, codeKey, nameKey)
		for code := range sub {
			counts[code]++
		}
	}
	dupes := make([]int, 0)
	for code, n := range counts {
		if n > 1 {
			dupes = append(dupes, code)
		}
	}
	sort.Ints(dupes)
	for _, code := range dupes {
		p.errorf("province code %d appears in %d features (last one wins)", code, counts[code])
	}

	return p
}

// ── Phase 4: Cross-source ──
// Every province code in the table should have a boundary feature, or
// its rows will show an empty name and drop off the map view.

func validateCrossSource(table domain.Table, lookup map[int]string) *phase {
	p := &phase{name: "Phase 4: Cross-source (CSV vs GeoJSON)"}

	orphaned := make(map[int]int)
	for _, r := range table.Records {
		if r.ProvinceCode < 0 {
			continue
		}
		if _, ok := lookup[r.ProvinceCode]; !ok {
			orphaned[r.ProvinceCode]++
		}
	}

	codes := make([]int, 0, len(orphaned))
	for code := range orphaned {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		p.errorf("province code %d has no boundary feature (%d rows)", code, orphaned[code])
	}

	unresolved := 0
	for _, r := range table.Records {
		if r.ProvinceCode >= 0 && r.ProvinceName == "" {
			unresolved++
		}
	}
	if unresolved > 0 {
		p.errorf("%d rows with a province code but no resolved name", unresolved)
	}

	return p
}
