// Package ui is the desktop front end: one window with a toolbar, the
// annotation canvas and a status line.
package ui

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"LaneLabeller/internal/config"
	"LaneLabeller/internal/imagefile"
	"LaneLabeller/internal/logging"
	"LaneLabeller/internal/persist"
	"LaneLabeller/internal/sequencer"
	"LaneLabeller/internal/state"
)

// App wires the session, the image sequencer and the window together.
type App struct {
	fyneApp fyne.App
	win     fyne.Window
	cfg     *config.Config
	cfgPath string
	log     *zap.Logger

	session *state.Session
	store   *persist.Store
	loader  imagefile.Loader
	seq     *sequencer.Sequencer

	board    *AnnotatorWidget
	swatches []*categorySwatch
	status   *widget.Label
	closed   bool
}

// New builds the main window. cfgPath may be empty, in which case the
// configuration is not written back on exit.
func New(fyneApp fyne.App, cfg *config.Config, cfgPath string, log *zap.Logger) *App {
	log = logging.OrNop(log)
	a := &App{
		fyneApp: fyneApp,
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     log.Named("ui"),
		session: state.NewSession(cfg.TolerancePx),
		store:   persist.New(cfg.SaveDir, log),
		status:  widget.NewLabel("Open a manifest to start"),
	}
	a.seq = sequencer.New(a.session, a.store, a.loader, log)
	a.seq.OnArrive = a.arrived
	a.seq.OnReset = a.reset
	a.board = NewAnnotatorWidget(a.session, Style{
		MarkerRadius: cfg.MarkerRadius,
		MarkerAlpha:  cfg.MarkerAlpha,
		LineWidth:    cfg.LineWidth,
	})
	a.session.Subscribe(a.sessionChanged)

	a.win = fyneApp.NewWindow("Lane Labeller")
	a.win.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	a.win.SetContent(container.NewBorder(a.newToolbar(), a.status, nil, nil, a.board))
	a.win.Canvas().SetOnTypedKey(a.typedKey)
	a.win.SetCloseIntercept(func() {
		a.shutdown()
		a.win.Close()
	})
	return a
}

// Window returns the main window.
func (a *App) Window() fyne.Window { return a.win }

// Session returns the live annotation session.
func (a *App) Session() *state.Session { return a.session }

// Board returns the annotation canvas.
func (a *App) Board() *AnnotatorWidget { return a.board }

// Status returns the text of the status line.
func (a *App) Status() string { return a.status.Text }

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	a.win.ShowAndRun()
}

// Open loads a manifest and shows its first image.
func (a *App) Open(manifest string) error {
	err := a.seq.Open(manifest)
	if a.seq.Manifest() == manifest {
		if abs, absErr := filepath.Abs(manifest); absErr == nil {
			a.cfg.LastManifest = abs
		} else {
			a.cfg.LastManifest = manifest
		}
	}
	return err
}

// OpenImages annotates an explicit list of images, starting at the first.
func (a *App) OpenImages(images []string) error {
	if err := a.seq.SetImages(images); err != nil {
		return err
	}
	return a.seq.Goto(0)
}

// Next saves the current annotation and moves to the next image.
func (a *App) Next() error { return a.seq.Advance() }

// Previous saves the current annotation and moves to the previous image.
func (a *App) Previous() error { return a.seq.Previous() }

// SwitchLane cycles the category new points are given.
func (a *App) SwitchLane() {
	a.session.SwitchCategory()
}

// Save writes the current annotation.
func (a *App) Save() error {
	written, err := a.seq.Save()
	if err != nil {
		return err
	}
	if written {
		a.setStatus("Saved " + a.store.Path(a.currentImage()))
	} else {
		a.setStatus("Nothing to save")
	}
	return nil
}

// ClearAnnotation drops every point of the current image and deletes its
// saved file.
func (a *App) ClearAnnotation() error {
	return a.seq.ClearAnnotation()
}

// Quit saves and exits.
func (a *App) Quit() {
	a.shutdown()
	a.fyneApp.Quit()
}

func (a *App) shutdown() {
	if a.closed {
		return
	}
	a.closed = true
	if _, err := a.seq.Save(); err != nil && !errors.Is(err, sequencer.ErrNoImage) {
		a.log.Error("save on exit failed", zap.Error(err))
	}
	if a.cfgPath == "" {
		return
	}
	if err := a.cfg.Save(a.cfgPath); err != nil {
		a.log.Warn("config not saved", zap.String("path", a.cfgPath), zap.Error(err))
	}
}

func (a *App) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace, fyne.KeyL:
		a.SwitchLane()
	case fyne.KeyRight, fyne.KeyN:
		a.report(a.Next())
	case fyne.KeyLeft, fyne.KeyP:
		a.report(a.Previous())
	case fyne.KeyS:
		a.report(a.Save())
	}
}

func (a *App) arrived(_ string, img image.Image, _ error) {
	a.board.SetImage(img)
	a.updateStatus()
}

func (a *App) reset() {
	a.board.Blank()
	a.updateStatus()
}

func (a *App) sessionChanged(e state.Event) {
	if e.Type == state.EventCategory {
		a.syncSwatches()
	}
	a.updateStatus()
}

func (a *App) currentImage() string {
	path, _ := a.seq.Current()
	return path
}

func (a *App) updateStatus() {
	path, ok := a.seq.Current()
	if !ok {
		a.setStatus("Open a manifest to start")
		return
	}
	text := fmt.Sprintf("%d/%d  %s  |  lane: %s  |  points: %d",
		a.seq.Index()+1, a.seq.Len(), filepath.Base(path), a.session.Category().Name(), a.session.Len())
	if a.seq.Image() == nil {
		text += "  |  image not loaded"
	}
	if a.session.Dirty() {
		text += "  *"
	}
	a.setStatus(text)
}

func (a *App) setStatus(text string) {
	a.status.SetText(text)
}

// report shows err to the user. Decode failures only reach the status line.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	a.log.Warn("action failed", zap.Error(err))
	switch {
	case errors.Is(err, sequencer.ErrNoImage):
		a.setStatus("Open a manifest first")
	case errors.Is(err, sequencer.ErrImageUnavailable) && !errors.Is(err, persist.ErrMalformed):
		a.setStatus(fmt.Sprintf("Could not load %s", filepath.Base(a.currentImage())))
	default:
		dialog.ShowError(err, a.win)
	}
}

func (a *App) showOpenManifest() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		a.report(a.Open(reader.URI().Path()))
	}, a.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt", ".lst"}))
	if a.cfg.LastManifest != "" {
		if loc, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(a.cfg.LastManifest))); err == nil {
			fd.SetLocation(loc)
		}
	}
	fd.Show()
}

func (a *App) confirmClear() {
	if _, ok := a.seq.Current(); !ok {
		a.report(sequencer.ErrNoImage)
		return
	}
	dialog.ShowConfirm("Clear annotation",
		fmt.Sprintf("Remove every point of %s and delete its saved file?", filepath.Base(a.currentImage())),
		func(ok bool) {
			if ok {
				a.report(a.ClearAnnotation())
			}
		}, a.win)
}
