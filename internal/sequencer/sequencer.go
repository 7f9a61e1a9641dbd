// Package sequencer walks the images of a manifest, saving the annotation
// of the image being left and loading the one of the image arrived at.
package sequencer

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"LaneLabeller/internal/logging"
	"LaneLabeller/internal/persist"
	"LaneLabeller/internal/state"
)

var (
	ErrEmptyManifest = errors.New("manifest lists no images")
	ErrNoImage       = errors.New("no image loaded")

	// ErrImageUnavailable wraps decode failures. The annotation of such an
	// image is still loaded and editable.
	ErrImageUnavailable = errors.New("image unavailable")
)

// ImageLoader decodes image pixels for display.
type ImageLoader interface {
	Load(path string) (image.Image, error)
}

// Sequencer owns the position in a fixed list of images.
type Sequencer struct {
	session *state.Session
	store   *persist.Store
	loader  ImageLoader
	log     *zap.Logger

	manifest string
	images   []string
	index    int
	pixels   image.Image

	// OnArrive is called after every arrival with the new image pixels, or
	// nil pixels and the decode error.
	OnArrive func(path string, img image.Image, err error)
	// OnReset is called when the image list is replaced, before any arrival.
	OnReset func()
}

// New creates a sequencer with no images.
func New(session *state.Session, store *persist.Store, loader ImageLoader, log *zap.Logger) *Sequencer {
	return &Sequencer{
		session: session,
		store:   store,
		loader:  loader,
		log:     logging.OrNop(log).Named("sequencer"),
		index:   -1,
	}
}

// Open loads a manifest and arrives at its first image. The annotation of
// the image currently shown, if any, is saved first.
func (q *Sequencer) Open(manifestPath string) error {
	images, err := ReadManifest(manifestPath)
	if err != nil {
		return err
	}
	if err := q.SetImages(images); err != nil {
		return fmt.Errorf("%s: %w", manifestPath, err)
	}
	q.manifest = manifestPath
	q.log.Info("manifest opened", zap.String("path", manifestPath), zap.Int("images", len(images)))
	return q.arrive(0)
}

// SetImages replaces the image list without arriving anywhere.
func (q *Sequencer) SetImages(images []string) error {
	if len(images) == 0 {
		return ErrEmptyManifest
	}
	if _, err := q.Save(); err != nil && !errors.Is(err, ErrNoImage) {
		return err
	}
	q.images = append([]string(nil), images...)
	q.index = -1
	q.pixels = nil
	q.session.Load(nil)
	if q.OnReset != nil {
		q.OnReset()
	}
	return nil
}

// Manifest returns the path of the open manifest.
func (q *Sequencer) Manifest() string { return q.manifest }

// Images returns the image list.
func (q *Sequencer) Images() []string { return append([]string(nil), q.images...) }

// Len returns the number of images.
func (q *Sequencer) Len() int { return len(q.images) }

// Index returns the position of the current image, or -1.
func (q *Sequencer) Index() int { return q.index }

// Current returns the path of the image on screen.
func (q *Sequencer) Current() (string, bool) {
	if q.index < 0 || q.index >= len(q.images) {
		return "", false
	}
	return q.images[q.index], true
}

// Image returns the decoded pixels of the current image, nil if they could
// not be loaded.
func (q *Sequencer) Image() image.Image { return q.pixels }

// Advance moves to the next image, wrapping at the end.
func (q *Sequencer) Advance() error {
	return q.step(1)
}

// Previous moves to the previous image, wrapping at the start.
func (q *Sequencer) Previous() error {
	return q.step(-1)
}

// Goto moves to image i, taken modulo the list length.
func (q *Sequencer) Goto(i int) error {
	if len(q.images) == 0 {
		return ErrNoImage
	}
	if _, err := q.Save(); err != nil && !errors.Is(err, ErrNoImage) {
		return err
	}
	q.session.ResetTransient()
	n := len(q.images)
	return q.arrive(((i % n) + n) % n)
}

func (q *Sequencer) step(delta int) error {
	if len(q.images) == 0 {
		return ErrNoImage
	}
	return q.Goto(q.index + delta)
}

// Save writes the current annotation. It reports whether a file was written;
// an empty annotation writes nothing.
func (q *Sequencer) Save() (bool, error) {
	path, ok := q.Current()
	if !ok {
		return false, ErrNoImage
	}
	written, err := q.store.Save(path, q.session.Points())
	if err != nil {
		return false, err
	}
	q.session.MarkSaved()
	return written, nil
}

// ClearAnnotation removes every point of the current image and deletes its
// annotation file.
func (q *Sequencer) ClearAnnotation() error {
	path, ok := q.Current()
	if !ok {
		return ErrNoImage
	}
	if _, err := q.store.Delete(path); err != nil {
		return err
	}
	q.session.Clear()
	q.session.MarkSaved()
	return nil
}

func (q *Sequencer) arrive(i int) error {
	q.index = i
	path := q.images[i]

	img, imgErr := q.loader.Load(path)
	if imgErr != nil {
		q.log.Warn("image not loaded", zap.String("image", path), zap.Error(imgErr))
		img = nil
		imgErr = fmt.Errorf("%w: %w", ErrImageUnavailable, imgErr)
	}
	q.pixels = img

	points, loadErr := q.store.Load(path)
	if loadErr != nil {
		q.log.Warn("annotation not loaded", zap.String("image", path), zap.Error(loadErr))
		points = nil
	}
	q.session.Load(points)
	q.log.Debug("arrived", zap.Int("index", i), zap.String("image", path), zap.Int("points", len(points)))

	if q.OnArrive != nil {
		q.OnArrive(path, img, imgErr)
	}
	return errors.Join(loadErr, imgErr)
}
