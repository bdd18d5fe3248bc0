/*
 * chromat.go, part of biofiles.
 *
 * Copyright 2025 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

//Package chromat draws sequencing chromatograms: the four dye traces
//of an ab1.Trace as one plot, in the colors everyone expects (A
//green, C blue, G black, T red).
package chromat

import (
	"fmt"
	"image/color"
	"io"

	"github.com/rmera/biofiles/ab1"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var bases = [4]string{"G", "A", "T", "C"}

//indexed like ab1.Trace.Channels: G, A, T, C.
var channelColors = [4]color.RGBA{
	{A: 255},
	{G: 160, A: 255},
	{R: 255, A: 255},
	{B: 255, A: 255},
}

func basicTracePlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Signal"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func tracePlot(tr *ab1.Trace) (*plot.Plot, error) {
	if tr == nil || tr.Samples() == 0 {
		return nil, &Error{kind: KMalformedRecord, message: EmptyPayload}
	}
	title := tr.SampleName
	if title == "" {
		title = "trace"
	}
	p := basicTracePlot(title)
	for i, ch := range tr.Channels {
		xys := make(plotter.XYs, len(ch))
		for j, v := range ch {
			xys[j].X = float64(j)
			xys[j].Y = float64(v)
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, &Error{kind: KMalformedRecord, message: fmt.Sprintf("channel %s: %s", bases[i], err.Error())}
		}
		line.LineStyle.Color = channelColors[i]
		line.LineStyle.Width = vg.Points(0.75)
		p.Add(line)
		p.Legend.Add(bases[i], line)
	}
	return p, nil
}

//Plot draws the four channels of tr and writes the drawing to out as
//a PNG. A trace with no samples draws nothing and returns an error.
func Plot(tr *ab1.Trace, out io.Writer) error {
	p, err := tracePlot(tr)
	if err != nil {
		return errDecorate(err, "Plot")
	}
	wt, err := p.WriterTo(25*vg.Centimeter, 8*vg.Centimeter, "png")
	if err != nil {
		return &Error{kind: KMalformedRecord, message: "can't render: " + err.Error(), deco: []string{"Plot"}}
	}
	if _, err := wt.WriteTo(out); err != nil {
		return &Error{kind: KMalformedRecord, message: "can't write drawing: " + err.Error(), deco: []string{"Plot"}}
	}
	return nil
}

//PlotFile draws like Plot into the named file, in the format the
//file's extension asks for (png, svg, pdf and the other formats the
//plotting backend knows).
func PlotFile(name string, tr *ab1.Trace) error {
	p, err := tracePlot(tr)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return errDecorate(err, "PlotFile")
	}
	if err := p.Save(25*vg.Centimeter, 8*vg.Centimeter, name); err != nil {
		return &Error{kind: KMalformedRecord, message: "can't save drawing: " + err.Error(),
			filename: name, deco: []string{"PlotFile"}}
	}
	return nil
}
