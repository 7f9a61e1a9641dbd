// Package export renders a manifest's annotations into reports.
package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"LaneLabeller/internal/persist"
	"LaneLabeller/internal/state"
)

// Format selects the report encoding.
type Format int

const (
	PDF Format = iota
	XLSX
)

var ErrUnknownFormat = errors.New("unknown export format")

func (f Format) String() string {
	switch f {
	case PDF:
		return "pdf"
	case XLSX:
		return "xlsx"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// FormatFor picks the format from the output file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDF, nil
	case ".xlsx":
		return XLSX, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// ImageLoader decodes the pixels drawn behind annotations.
type ImageLoader interface {
	Load(path string) (image.Image, error)
}

// Entry is one image together with its saved points.
type Entry struct {
	Image  string
	Points []state.Point
}

// Counts returns the number of points per category.
func (e Entry) Counts() map[state.Category]int {
	counts := make(map[state.Category]int, len(state.Categories()))
	for _, p := range e.Points {
		counts[p.Category]++
	}
	return counts
}

// Collect reads the saved annotation of every image.
func Collect(images []string, store *persist.Store) ([]Entry, error) {
	entries := make([]Entry, 0, len(images))
	for _, img := range images {
		points, err := store.Load(img)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", img, err)
		}
		entries = append(entries, Entry{Image: img, Points: points})
	}
	return entries, nil
}

// Write encodes entries in the given format. The loader is only used for PDF.
func Write(w io.Writer, format Format, entries []Entry, loader ImageLoader) error {
	switch format {
	case PDF:
		return WritePDF(w, entries, loader)
	case XLSX:
		return WriteXLSX(w, entries)
	}
	return ErrUnknownFormat
}
