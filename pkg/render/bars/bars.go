// Package bars renders the charger distribution as a horizontal bar chart.
package bars

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/evdash/pkg/render"
)

// Bar is one row of the chart.
type Bar struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Value int    `json:"value"`
}

// Chart keeps the current data of the distribution widget.
type Chart struct {
	width, height float64
	labelWidth    float64
	bars          []Bar
}

type Option func(*Chart)

func WithSize(w, h float64) Option { return func(c *Chart) { c.width, c.height = w, h } }
func WithLabelWidth(w float64) Option { return func(c *Chart) { c.labelWidth = w } }

// New returns a chart showing bars.
func New(bars []Bar, opts ...Option) *Chart {
	c := &Chart{width: 400, height: 300, labelWidth: 120}
	for _, opt := range opts {
		opt(c)
	}
	c.Update(bars)
	return c
}

// Update replaces the chart data.
func (c *Chart) Update(bars []Bar) {
	c.bars = append([]Bar(nil), bars...)
}

// Bars returns the current data.
func (c *Chart) Bars() []Bar { return c.bars }

// Total is the sum of all bar values.
func (c *Chart) Total() int {
	n := 0
	for _, b := range c.bars {
		n += b.Value
	}
	return n
}

const barCSS = `
    .bar-label { font: 12px sans-serif; fill: #333; }
    .bar-value { font: 11px sans-serif; fill: #666; }`

// SVG renders the chart. Bar lengths are linear in value, with the
// largest value filling the available width.
func (c *Chart) SVG() []byte {
	const valueWidth = 50.0
	plotW := c.width - c.labelWidth - valueWidth

	maxV := 0
	for _, b := range c.bars {
		maxV = max(maxV, b.Value)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="chargerDist" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		c.width, c.height, c.width, c.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", barCSS)

	if len(c.bars) > 0 {
		step := c.height / float64(len(c.bars))
		barH := step * 0.7
		for i, b := range c.bars {
			y := float64(i) * step
			w := 0.0
			if maxV > 0 {
				w = plotW * float64(b.Value) / float64(maxV)
			}
			fmt.Fprintf(&buf, `  <g class="bar" data-key="%s">`+"\n", render.EscapeXML(b.Key))
			fmt.Fprintf(&buf, `    <text class="bar-label" x="%.1f" y="%.1f" dy=".35em" text-anchor="end">%s</text>`+"\n",
				c.labelWidth-6, y+barH/2, render.EscapeXML(b.Label))
			fmt.Fprintf(&buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				c.labelWidth, y, w, barH, render.EscapeXML(b.Color))
			fmt.Fprintf(&buf, `    <text class="bar-value" x="%.1f" y="%.1f" dy=".35em">%d</text>`+"\n",
				c.labelWidth+w+4, y+barH/2, b.Value)
			buf.WriteString("  </g>\n")
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
