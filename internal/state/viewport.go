package state

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// DrawingArea represents a rectangular area on the canvas
type DrawingArea struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the area, edges included.
func (a DrawingArea) Contains(p r2.Vec) bool {
	return p.X >= a.X && p.X <= a.X+a.Width &&
		p.Y >= a.Y && p.Y <= a.Y+a.Height
}

// Viewport maps image pixel coordinates onto the screen area the image is
// drawn into. The mapping is a uniform scale plus offset.
type Viewport struct {
	ImageWidth  float64
	ImageHeight float64
	Area        DrawingArea
}

// Fit letterboxes an image of the given size into a widget, centred and
// scaled to fit while keeping the aspect ratio.
func Fit(imageW, imageH, widgetW, widgetH float64) Viewport {
	if imageW <= 0 || imageH <= 0 {
		return Viewport{}
	}
	scale := min(widgetW/imageW, widgetH/imageH)
	if scale <= 0 {
		scale = 1
	}
	w, h := imageW*scale, imageH*scale
	return Viewport{
		ImageWidth:  imageW,
		ImageHeight: imageH,
		Area: DrawingArea{
			X:      (widgetW - w) / 2,
			Y:      (widgetH - h) / 2,
			Width:  w,
			Height: h,
		},
	}
}

// Identity maps an image of the given size one-to-one onto the screen.
func Identity(w, h float64) Viewport {
	return Viewport{ImageWidth: w, ImageHeight: h, Area: DrawingArea{Width: w, Height: h}}
}

// Scale returns screen pixels per image pixel.
func (v Viewport) Scale() float64 {
	if v.ImageWidth <= 0 {
		return 1
	}
	return v.Area.Width / v.ImageWidth
}

// Empty reports whether the viewport has no drawable area yet.
func (v Viewport) Empty() bool {
	return v.Area.Width <= 0 || v.Area.Height <= 0
}

// ToScreen converts image coordinates to screen coordinates.
func (v Viewport) ToScreen(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(v.Scale(), p), r2.Vec{X: v.Area.X, Y: v.Area.Y})
}

// ToImage converts screen coordinates to image coordinates.
func (v Viewport) ToImage(p r2.Vec) r2.Vec {
	return r2.Scale(1/v.Scale(), r2.Sub(p, r2.Vec{X: v.Area.X, Y: v.Area.Y}))
}

// Inside reports whether a screen position falls on the image.
func (v Viewport) Inside(p r2.Vec) bool {
	return !v.Empty() && v.Area.Contains(p)
}
