package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/LoreEMF/spain-wildfires/internal/domain"
)

// Writer exports a prepared table as a comma-separated file, one row per
// record. Missing burned-area and cause values export as empty cells.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting path. Parent directories are
// created on demand.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteTable writes the table's present columns in canonical order.
func (w *Writer) WriteTable(t domain.Table) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	columns := exportColumns(t)
	cw := csv.NewWriter(f)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range t.Records {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = cellValue(r, c)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}
	return f.Close()
}

// exportColumns lists the table's columns in canonical order, with
// total_medios last when present.
func exportColumns(t domain.Table) []string {
	columns := make([]string, 0, len(t.Columns))
	for _, c := range domain.PreparedColumns {
		if t.Has(c) {
			columns = append(columns, c)
		}
	}
	if t.Has(domain.ColTotalResources) {
		columns = append(columns, domain.ColTotalResources)
	}
	return columns
}

func cellValue(r domain.Record, column string) string {
	switch column {
	case domain.ColYear:
		return strconv.Itoa(r.Year)
	case domain.ColDangerID:
		return strconv.Itoa(r.DangerID)
	case domain.ColProvinceID:
		return strconv.Itoa(r.ProvinceCode)
	case domain.ColProvinceName:
		return r.ProvinceName
	case domain.ColPersonnel:
		return formatFloat(r.Personnel)
	case domain.ColHeavy:
		return formatFloat(r.Heavy)
	case domain.ColAir:
		return formatFloat(r.Air)
	case domain.ColBurnedArea:
		if r.BurnedArea == nil {
			return ""
		}
		return formatFloat(*r.BurnedArea)
	case domain.ColCause:
		if r.Cause == nil {
			return ""
		}
		return strconv.Itoa(*r.Cause)
	case domain.ColIntentional:
		return strconv.FormatBool(r.Intentional)
	case domain.ColBurnedAreaAlias:
		return formatFloat(r.BurnedAreaAlias)
	case domain.ColTotalResources:
		return formatFloat(r.Total)
	default:
		return ""
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
