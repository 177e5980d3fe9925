/*
 * rmsdplot.go, part of rmsdcv.
 *
 * Copyright 2024 The rmsdcv authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package rmsdplot draws RMSD series.
package rmsdplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Series plots rmsds against the frame number, with a dashed line at their mean,
//and saves the plot to filename. The format is given by the extension of
//filename (png, svg, pdf, etc.).
func Series(rmsds []float64, title, filename string) error {
	if len(rmsds) == 0 {
		return fmt.Errorf("rmsdplot: no data to plot")
	}
	pts := make(plotter.XYs, len(rmsds))
	for i, v := range rmsds {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "RMSD"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("rmsdplot: %w", err)
	}
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Color = color.RGBA{B: 200, A: 255}
	p.Add(l)
	mean := stat.Mean(rmsds, nil)
	m := plotter.NewFunction(func(float64) float64 { return mean })
	m.XMin = 1
	m.XMax = float64(len(rmsds))
	m.Color = color.RGBA{R: 255, A: 255}
	m.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(m)
	p.Legend.Add("RMSD", l)
	p.Legend.Add(fmt.Sprintf("mean %.3f", mean), m)
	p.Legend.Top = true
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("rmsdplot: %w", err)
	}
	return nil
}
