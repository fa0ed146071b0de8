package main

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// series is one named cost curve, indexed by epoch or round from 1.
type series struct {
	name   string
	values []float64
}

// savePlot writes the curves as an SVG line chart.
func savePlot(path, title string, curves ...series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "cost"
	p.Y.Min = 0
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, c := range curves {
		pts := make(plotter.XYs, len(c.values))
		for j, v := range c.values {
			pts[j].X = float64(j + 1)
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Width = vg.Points(2)
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(c.name, line)
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
