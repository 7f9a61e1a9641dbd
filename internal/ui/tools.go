package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LaneLabeller/internal/state"
)

var (
	swatchBorder   = color.Gray{Y: 150}
	swatchSelected = color.White
)

// --- Lane swatches ---
type categorySwatch struct {
	widget.BaseWidget
	Category state.Category
	OnTapped func(state.Category)

	border *canvas.Rectangle
}

func newCategorySwatch(c state.Category, tapped func(state.Category)) *categorySwatch {
	s := &categorySwatch{Category: c, OnTapped: tapped, border: canvas.NewRectangle(color.Transparent)}
	s.border.StrokeColor = swatchBorder
	s.border.StrokeWidth = 1
	s.ExtendBaseWidget(s)
	return s
}

func (s *categorySwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Category.Color())
	rect.SetMinSize(fyne.NewSize(32, 32))
	return widget.NewSimpleRenderer(container.NewStack(rect, s.border))
}

// SetSelected outlines the swatch of the lane new points go to.
func (s *categorySwatch) SetSelected(on bool) {
	if on {
		s.border.StrokeColor = swatchSelected
		s.border.StrokeWidth = 3
	} else {
		s.border.StrokeColor = swatchBorder
		s.border.StrokeWidth = 1
	}
	s.border.Refresh()
}

func (s *categorySwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Category)
	}
}

// --- The main toolbar ---
func (a *App) newToolbar() fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.showOpenManifest),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { a.report(a.Previous()) }),
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() { a.report(a.Next()) }),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), a.SwitchLane),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { a.report(a.Save()) }),
		widget.NewToolbarAction(theme.DeleteIcon(), a.confirmClear),
		widget.NewToolbarAction(theme.DownloadIcon(), a.showExport),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.LogoutIcon(), a.Quit),
	)

	swatches := container.NewHBox()
	for _, c := range state.Categories() {
		s := newCategorySwatch(c, a.session.SetCategory)
		a.swatches = append(a.swatches, s)
		swatches.Add(s)
	}
	a.syncSwatches()

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Lane:"),
		swatches,
		layout.NewSpacer(),
	)
}

func (a *App) syncSwatches() {
	for _, s := range a.swatches {
		s.SetSelected(s.Category == a.session.Category())
	}
}
