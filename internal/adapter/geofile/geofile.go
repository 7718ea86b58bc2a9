// Package geofile reads and writes province boundary collections as
// GeoJSON files.
package geofile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LoreEMF/spain-wildfires/internal/geo"
)

// Reader loads a feature collection from a GeoJSON file.
type Reader struct {
	path string
}

// NewReader creates a reader for the file at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// ReadBoundaries implements dataset.BoundarySource.
func (r *Reader) ReadBoundaries(_ context.Context) (*geo.FeatureCollection, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read boundary file: %w", err)
	}

	var fc geo.FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse boundary file %s: %w", r.path, err)
	}
	return &fc, nil
}

// Writer stores a feature collection as indented GeoJSON, used by the
// map export.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting path. Parent directories are
// created on demand.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteBoundaries marshals and writes the collection.
func (w *Writer) WriteBoundaries(fc *geo.FeatureCollection) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	b, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal boundaries: %w", err)
	}
	if err := os.WriteFile(w.path, b, 0o644); err != nil {
		return fmt.Errorf("write boundary file: %w", err)
	}
	return nil
}
