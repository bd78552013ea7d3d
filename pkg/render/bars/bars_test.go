package bars

import (
	"strings"
	"testing"
)

func sample() []Bar {
	return []Bar{
		{Key: "J1772", Label: "J1772", Color: "#33a02c", Value: 10},
		{Key: "TESLA", Label: "Tesla", Color: "#fdbf6f", Value: 5},
		{Key: "NEMA515", Label: "NEMA 5-15", Color: "#a6cee3", Value: 0},
	}
}

func TestSVG(t *testing.T) {
	c := New(sample())
	svg := string(c.SVG())

	if got := strings.Count(svg, `<g class="bar"`); got != 3 {
		t.Errorf("bars = %d, want 3", got)
	}
	// plot width = 400 - 120 - 50 = 230
	if !strings.Contains(svg, `width="230.0" height="70.0" fill="#33a02c"`) {
		t.Error("largest bar should fill the plot width")
	}
	if !strings.Contains(svg, `width="115.0" height="70.0" fill="#fdbf6f"`) {
		t.Error("half value should be half width")
	}
	if !strings.Contains(svg, `width="0.0" height="70.0"`) {
		t.Error("zero value should render an empty bar")
	}
}

func TestUpdate(t *testing.T) {
	c := New(sample(), WithSize(600, 120), WithLabelWidth(100))
	if c.Total() != 15 {
		t.Errorf("Total = %d, want 15", c.Total())
	}
	c.Update([]Bar{{Key: "TESLA", Label: "Tesla", Value: 3}})
	if c.Total() != 3 || len(c.Bars()) != 1 {
		t.Errorf("after Update: %+v", c.Bars())
	}
	if !strings.Contains(string(c.SVG()), `width="600" height="120"`) {
		t.Error("WithSize not applied")
	}
}

func TestAllZero(t *testing.T) {
	c := New([]Bar{{Key: "A", Label: "A"}})
	if strings.Contains(string(c.SVG()), "NaN") {
		t.Error("all-zero chart should not divide by zero")
	}
	if svg := string(New(nil).SVG()); strings.Contains(svg, "<g") {
		t.Error("empty chart should have no bars")
	}
}
