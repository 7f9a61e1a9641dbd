package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"gonum.org/v1/gonum/spatial/r2"

	"LaneLabeller/internal/imagefile"
	"LaneLabeller/internal/state"
)

const (
	pageMargin   = 10.0
	headerHeight = 10.0
	markerRadius = 1.2
	laneWidth    = 0.5
	embedMaxSide = 1600
)

// WritePDF writes one landscape page per entry: the image scaled to the
// page with every lane drawn as a polyline over it.
func WritePDF(w io.Writer, entries []Entry, loader ImageLoader) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.SetTitle("Lane annotations", true)
	p.SetCreator("lanelabel", true)
	pageW, pageH := p.GetPageSize()
	boxW := pageW - 2*pageMargin
	boxH := pageH - 2*pageMargin - headerHeight

	if len(entries) == 0 {
		p.AddPage()
		p.SetFont("Helvetica", "", 11)
		p.Cell(boxW, headerHeight, "No images")
		return p.Output(w)
	}

	for i, e := range entries {
		p.AddPage()
		p.SetFont("Helvetica", "B", 11)
		p.SetTextColor(0, 0, 0)
		p.Cell(boxW, headerHeight-2, fmt.Sprintf("%d/%d  %s  (%d points)", i+1, len(entries), filepath.Base(e.Image), len(e.Points)))

		name := fmt.Sprintf("img%d", i)
		imgW, imgH, embedded := 0.0, 0.0, false
		if loader != nil {
			if img, err := loader.Load(e.Image); err == nil {
				b := img.Bounds()
				imgW, imgH = float64(b.Dx()), float64(b.Dy())
				embedded = registerImage(p, name, img)
			}
		}
		if imgW == 0 || imgH == 0 {
			imgW, imgH = pointExtent(e.Points)
		}

		scale := math.Min(boxW/imgW, boxH/imgH)
		drawW, drawH := imgW*scale, imgH*scale
		origin := r2.Vec{
			X: pageMargin + (boxW-drawW)/2,
			Y: pageMargin + headerHeight + (boxH-drawH)/2,
		}

		if embedded {
			p.ImageOptions(name, origin.X, origin.Y, drawW, drawH, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		} else {
			p.SetDrawColor(160, 160, 160)
			p.SetLineWidth(0.2)
			p.Rect(origin.X, origin.Y, drawW, drawH, "D")
		}

		toPage := func(v r2.Vec) r2.Vec { return r2.Add(r2.Scale(scale, v), origin) }
		for _, c := range state.Categories() {
			drawLane(p, c, toPage, lanePoints(e.Points, c))
		}
		if p.Err() {
			return p.Error()
		}
	}
	return p.Output(w)
}

func registerImage(p *gofpdf.Fpdf, name string, img image.Image) bool {
	var buf bytes.Buffer
	if err := imagefile.EncodePNG(&buf, imagefile.Fit(img, embedMaxSide, embedMaxSide)); err != nil {
		return false
	}
	info := p.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	return info != nil && !p.Err()
}

func drawLane(p *gofpdf.Fpdf, c state.Category, toPage func(r2.Vec) r2.Vec, points []r2.Vec) {
	if len(points) == 0 {
		return
	}
	col := c.Color()
	p.SetDrawColor(int(col.R), int(col.G), int(col.B))
	p.SetFillColor(int(col.R), int(col.G), int(col.B))
	p.SetLineWidth(laneWidth)

	prev := toPage(points[0])
	for _, pt := range points[1:] {
		cur := toPage(pt)
		p.Line(prev.X, prev.Y, cur.X, cur.Y)
		prev = cur
	}
	for _, pt := range points {
		at := toPage(pt)
		p.Circle(at.X, at.Y, markerRadius, "F")
	}
}

func lanePoints(points []state.Point, c state.Category) []r2.Vec {
	var out []r2.Vec
	for _, p := range points {
		if p.Category == c {
			out = append(out, p.Pos())
		}
	}
	return out
}

// pointExtent sizes the frame from the points when the image is unavailable.
func pointExtent(points []state.Point) (float64, float64) {
	w, h := 1.0, 1.0
	for _, p := range points {
		w = math.Max(w, p.X)
		h = math.Max(h, p.Y)
	}
	return w, h
}
