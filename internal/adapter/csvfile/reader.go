// Package csvfile reads and writes the fires table as delimited files.
// The source files from datos.gob.es are semicolon separated; exports
// use commas.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/LoreEMF/spain-wildfires/internal/domain"
)

// Reader loads a raw table from a delimited file. The first row is the
// header; a UTF-8 BOM on the first header cell is stripped.
type Reader struct {
	path string
	sep  rune
}

// NewReader creates a reader for the file at path using the given field
// separator.
func NewReader(path string, sep rune) *Reader {
	return &Reader{path: path, sep: sep}
}

// ReadTable implements dataset.TableSource.
func (r *Reader) ReadTable(_ context.Context) (domain.RawTable, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = r.sep
	// Source exports occasionally carry ragged rows; short rows read as
	// blank cells instead of failing the whole file.
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read data file %s: %w", r.path, err)
	}
	if len(rows) == 0 {
		return domain.RawTable{}, errors.New("data file has no header row")
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	return domain.RawTable{Columns: header, Rows: rows[1:]}, nil
}
