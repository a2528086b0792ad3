// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package overlay

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/densitree/layout"
)

// SVG writes a densitree as an SVG file.
// Each tree is drawn as its own group of paths,
// the base layer first,
// so later trees are drawn on top of it.
func (p *Plot) SVG(w io.Writer) error {
	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)

	width, height := p.canvasSize()
	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(height)},
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(width)},
			{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"},
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "stroke-width"}, Value: "2"},
			{Name: xml.Name{Local: "fill"}, Value: "none"},
			{Name: xml.Name{Local: "stroke-linecap"}, Value: "round"},
			{Name: xml.Name{Local: "font-family"}, Value: "Verdana"},
			{Name: xml.Name{Local: "font-size"}, Value: "10"},
		},
	}
	e.EncodeToken(g)

	for i, tab := range p.layers {
		p.drawLayer(e, i, tab)
	}
	if !p.noLabels {
		p.drawLabels(e)
	}

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	if err := e.Flush(); err != nil {
		return err
	}
	return nil
}

func (p *Plot) drawLayer(e *xml.Encoder, i int, tab *layout.Tree) {
	c := p.layerColor(i)
	rgb := fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "stroke"}, Value: rgb},
			{Name: xml.Name{Local: "stroke-opacity"}, Value: "0.5"},
		},
	}
	e.EncodeToken(g)

	for _, ln := range p.polylines(tab) {
		pts := p.transform(ln)
		var d strings.Builder
		for j, pt := range pts {
			if j == 0 {
				fmt.Fprintf(&d, "M%.2f %.2f", pt.x, pt.y)
				continue
			}
			fmt.Fprintf(&d, " L%.2f %.2f", pt.x, pt.y)
		}
		path := xml.StartElement{
			Name: xml.Name{Local: "path"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "d"}, Value: d.String()},
			},
		}
		e.EncodeToken(path)
		e.EncodeToken(path.End())
	}

	e.EncodeToken(g.End())
}

func (p *Plot) drawLabels(e *xml.Encoder) {
	for i, tax := range p.order {
		pt := p.tipPoint(i)
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(int(pt.x))},
				{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(int(pt.y + 5))},
				{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
				{Name: xml.Name{Local: "fill"}, Value: "black"},
				{Name: xml.Name{Local: "font-style"}, Value: "italic"},
			},
		}
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(tax))
		e.EncodeToken(tx.End())
	}
}
