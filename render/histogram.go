package render

import (
	"errors"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DegreeHistogram plots the distribution of point degrees with one bin per
// degree value and writes it to w as PNG.
func DegreeHistogram(w io.Writer, degrees []float64) error {
	if len(degrees) == 0 {
		return errors.New("no degrees to plot")
	}
	bins := int(floats.Max(degrees)-floats.Min(degrees)) + 1
	hist, err := plotter.NewHist(plotter.Values(degrees), bins)
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = "Point degree distribution"
	p.X.Label.Text = "neighbors"
	p.Y.Label.Text = "points"
	p.Add(hist)
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
