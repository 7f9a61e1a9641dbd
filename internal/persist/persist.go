// Package persist stores one annotation file per image.
//
// A file holds three CSV records of equal length: x coordinates,
// y coordinates and category tokens. It is named after the image's base
// name without extension, so images are keyed by stem.
package persist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"LaneLabeller/internal/logging"
	"LaneLabeller/internal/state"
)

// Ext is the annotation file extension.
const Ext = ".csv"

// ErrMalformed is wrapped by Load and Decode for files they cannot parse.
var ErrMalformed = errors.New("malformed annotation file")

// Store reads and writes annotation files in one directory.
type Store struct {
	dir string
	log *zap.Logger
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string, log *zap.Logger) *Store {
	return &Store{dir: dir, log: logging.OrNop(log).Named("persist")}
}

// Dir returns the save directory.
func (s *Store) Dir() string { return s.dir }

// Stem returns the image base name without its extension.
func Stem(imagePath string) string {
	base := filepath.Base(imagePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Path returns the annotation file path for an image.
func (s *Store) Path(imagePath string) string {
	return filepath.Join(s.dir, Stem(imagePath)+Ext)
}

// Exists reports whether an annotation file exists for the image.
func (s *Store) Exists(imagePath string) bool {
	info, err := os.Stat(s.Path(imagePath))
	return err == nil && !info.IsDir()
}

// Save writes the points for an image. An empty set is not written and an
// existing file is left untouched; use Delete to drop an annotation.
func (s *Store) Save(imagePath string, points []state.Point) (bool, error) {
	if len(points) == 0 {
		s.log.Debug("nothing to save", zap.String("image", imagePath))
		return false, nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false, fmt.Errorf("create save dir: %w", err)
	}

	path := s.Path(imagePath)
	tmp, err := os.CreateTemp(s.dir, "."+Stem(imagePath)+"-*"+Ext)
	if err != nil {
		return false, fmt.Errorf("save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, points); err != nil {
		tmp.Close()
		return false, fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("save %s: %w", path, err)
	}

	s.log.Info("annotation saved", zap.String("file", path), zap.Int("points", len(points)))
	return true, nil
}

// Load reads the points for an image. A missing file yields an empty set.
func (s *Store) Load(imagePath string) ([]state.Point, error) {
	path := s.Path(imagePath)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	points, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	s.log.Debug("annotation loaded", zap.String("file", path), zap.Int("points", len(points)))
	return points, nil
}

// Delete removes the annotation file of an image. It reports whether a file
// was removed; a missing file is not an error.
func (s *Store) Delete(imagePath string) (bool, error) {
	path := s.Path(imagePath)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete %s: %w", path, err)
	}
	s.log.Info("annotation deleted", zap.String("file", path))
	return true, nil
}

// Encode writes points as three CSV records.
func Encode(w io.Writer, points []state.Point) error {
	xs := make([]string, len(points))
	ys := make([]string, len(points))
	cats := make([]string, len(points))
	for i, p := range points {
		xs[i] = strconv.FormatFloat(p.X, 'g', -1, 64)
		ys[i] = strconv.FormatFloat(p.Y, 'g', -1, 64)
		cats[i] = p.Category.Token()
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll([][]string{xs, ys, cats}); err != nil {
		return err
	}
	return cw.Error()
}

// Decode parses three CSV records back into points with fresh ids.
func Decode(r io.Reader) ([]state.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) != 3 {
		return nil, fmt.Errorf("%w: want 3 rows, got %d", ErrMalformed, len(records))
	}
	xs, ys, cats := records[0], records[1], records[2]
	if len(xs) != len(ys) || len(xs) != len(cats) {
		return nil, fmt.Errorf("%w: row lengths %d/%d/%d differ", ErrMalformed, len(xs), len(ys), len(cats))
	}

	points := make([]state.Point, len(xs))
	for i := range xs {
		x, err := strconv.ParseFloat(strings.TrimSpace(xs[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: x[%d]: %v", ErrMalformed, i, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: y[%d]: %v", ErrMalformed, i, err)
		}
		c, err := state.ParseCategory(strings.TrimSpace(cats[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: category[%d]: %v", ErrMalformed, i, err)
		}
		points[i] = state.NewPoint(x, y, c)
	}
	return points, nil
}
