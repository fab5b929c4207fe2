package render

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"go-boom/grid"
	"go-boom/theme"
	"go-boom/widgets"
)

// Options size the snapshot. Zero values pick the defaults.
type Options struct {
	CellWidth  float64
	RowHeight  float64
	LabelWidth float64
	Theme      *theme.Theme
}

func (o Options) withDefaults() Options {
	if o.CellWidth <= 0 {
		o.CellWidth = 14
	}
	if o.RowHeight <= 0 {
		o.RowHeight = 18
	}
	if o.LabelWidth <= 0 {
		o.LabelWidth = 80
	}
	if o.Theme == nil {
		o.Theme = theme.New(nil)
	}
	return o
}

type row struct {
	label string
	pitch int
}

// rows lists drum lanes in use (always including the generated ones) top to
// bottom, or the melodic pitch range highest first
func rows(p grid.Pattern) []row {
	var out []row
	if p.Kind == grid.KindDrum {
		used := map[int]bool{}
		for _, n := range p.Notes {
			used[n.Pitch] = true
		}
		for l := 0; l < grid.NumLanes; l++ {
			if l < grid.GeneratedLanes || used[l] {
				out = append(out, row{label: grid.Lane(l).String(), pitch: l})
			}
		}
		return out
	}
	pitches := p.Pitches()
	if len(pitches) == 0 {
		return []row{{label: "", pitch: -1}}
	}
	for pitch := pitches[len(pitches)-1]; pitch >= pitches[0]; pitch-- {
		out = append(out, row{label: widgets.NoteName(pitch), pitch: pitch})
	}
	return out
}

func setRGB(dc *gg.Context, c theme.RGB) {
	dc.SetRGB255(int(c[0]), int(c[1]), int(c[2]))
}

// Image draws the pattern as a piano roll: one row per lane or pitch, one
// column per step, notes as rectangles shaded by velocity
func Image(p grid.Pattern, opts Options) image.Image {
	opts = opts.withDefaults()
	th := opts.Theme
	rs := rows(p)
	steps := p.TotalSteps()
	w := opts.LabelWidth + float64(steps)*opts.CellWidth
	h := float64(len(rs)) * opts.RowHeight

	dc := gg.NewContext(int(w), int(h))
	setRGB(dc, th.Palette.Lookup(theme.RoleBG))
	dc.Clear()

	if font, err := truetype.Parse(goregular.TTF); err == nil {
		dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: opts.RowHeight * 0.6}))
	}

	index := map[int]int{}
	for i, r := range rs {
		index[r.pitch] = i
		y := float64(i) * opts.RowHeight
		setRGB(dc, th.Palette.Lookup(theme.RoleFG))
		dc.DrawStringAnchored(r.label, 4, y+opts.RowHeight/2, 0, 0.5)
	}

	// step lines, brighter on beats and bars
	for s := 0; s <= steps; s++ {
		x := opts.LabelWidth + float64(s)*opts.CellWidth
		alpha := 0.08
		switch {
		case s%p.StepsPerBar == 0:
			alpha = 0.4
		case s%4 == 0:
			alpha = 0.2
		}
		dc.SetRGBA(1, 1, 1, alpha)
		dc.SetLineWidth(1)
		dc.DrawLine(x, 0, x, h)
		dc.Stroke()
	}

	for _, n := range p.Notes {
		i, ok := index[n.Pitch]
		if !ok {
			continue
		}
		x := opts.LabelWidth + float64(n.Start)/grid.TicksPerStep*opts.CellWidth
		y := float64(i)*opts.RowHeight + 2
		width := max(2, float64(n.Length)/grid.TicksPerStep*opts.CellWidth-1)
		dc.DrawRoundedRectangle(x+1, y, width, opts.RowHeight-4, 3)
		setRGB(dc, th.VelocityRGB(n.Velocity))
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 1)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
	return dc.Image()
}

// PNG encodes the snapshot to w
func PNG(w io.Writer, p grid.Pattern, opts Options) error {
	dc := gg.NewContextForImage(Image(p, opts))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes the snapshot to path, creating parent directories
func SavePNG(path string, p grid.Pattern, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	if err := gg.SavePNG(path, Image(p, opts)); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
