// Package parquetfile exports the prepared fires table as a Parquet
// file for downstream analytics.
package parquetfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/LoreEMF/spain-wildfires/internal/domain"
)

// fireRow is the Parquet schema for one record. Burned area and cause
// are optional so missing source values stay distinguishable from zero.
type fireRow struct {
	Year            int32    `parquet:"anio"`
	DangerID        int32    `parquet:"idpeligro"`
	ProvinceCode    int32    `parquet:"idprovincia"`
	ProvinceName    string   `parquet:"provincia"`
	Personnel       float64  `parquet:"numeromediospersonal"`
	Heavy           float64  `parquet:"numeromediospesados"`
	Air             float64  `parquet:"numeromediosaereos"`
	BurnedArea      *float64 `parquet:"perdidassuperficiales,optional"`
	Cause           *int32   `parquet:"idcausa,optional"`
	Intentional     bool     `parquet:"intencionado"`
	BurnedAreaAlias float64  `parquet:"hectareas_quemadas"`
	Total           float64  `parquet:"total_medios"`
}

// Writer exports tables to a Parquet file.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting path. Parent directories are
// created on demand.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteTable writes one row per record.
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

	pw := parquet.NewGenericWriter[fireRow](f)
	rows := make([]fireRow, len(t.Records))
	for i, r := range t.Records {
		rows[i] = toRow(r)
	}

	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

func toRow(r domain.Record) fireRow {
	row := fireRow{
		Year:            int32(r.Year),
		DangerID:        int32(r.DangerID),
		ProvinceCode:    int32(r.ProvinceCode),
		ProvinceName:    r.ProvinceName,
		Personnel:       r.Personnel,
		Heavy:           r.Heavy,
		Air:             r.Air,
		BurnedArea:      r.BurnedArea,
		Intentional:     r.Intentional,
		BurnedAreaAlias: r.BurnedAreaAlias,
		Total:           r.Total,
	}
	if r.Cause != nil {
		cause := int32(*r.Cause)
		row.Cause = &cause
	}
	return row
}
