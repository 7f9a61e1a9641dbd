package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"go.uber.org/zap"

	"LaneLabeller/internal/export"
	"LaneLabeller/internal/sequencer"
)

// ExportTo saves the current annotation and writes a report of every image
// in the manifest. The format follows the path's extension.
func (a *App) ExportTo(path string, w io.Writer) error {
	format, err := export.FormatFor(path)
	if err != nil {
		return err
	}
	if a.seq.Len() == 0 {
		return sequencer.ErrNoImage
	}
	if _, err := a.seq.Save(); err != nil {
		return err
	}
	entries, err := export.Collect(a.seq.Images(), a.store)
	if err != nil {
		return err
	}
	if err := export.Write(w, format, entries, a.loader); err != nil {
		return err
	}
	a.log.Info("exported", zap.String("path", path), zap.Stringer("format", format), zap.Int("images", len(entries)))
	a.setStatus(fmt.Sprintf("Exported %d images to %s", len(entries), path))
	return nil
}

func (a *App) showExport() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				a.log.Warn("closing export file", zap.Error(err))
			}
		}()
		a.report(a.ExportTo(writer.URI().Path(), writer))
	}, a.win)
	fd.SetFileName("annotations.pdf")
	fd.Show()
}
