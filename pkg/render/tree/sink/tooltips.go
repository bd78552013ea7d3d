package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/evdash/pkg/render"
	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
)

const (
	tooltipWidth  = 180.0
	tooltipHeight = 190.0
)

const (
	tooltipCSS = `
    .d3-tip { pointer-events: none; transition: opacity 0.15s ease; }
    .d3-tip[visibility="hidden"] { opacity: 0; }
    .d3-tip[visibility="visible"] { opacity: 1; }
    .d3-tip rect { fill: rgba(0,0,0,0.8); rx: 4; }
    .d3-tip text { font: 12px sans-serif; fill: #fff; }`

	tooltipJS = `
    document.querySelectorAll('.node').forEach(el => {
      const tip = document.querySelector('.d3-tip[data-for="' + el.dataset.id + '"]');
      if (!tip) return;
      el.addEventListener('mouseenter', () => {
        const box = el.getBoundingClientRect();
        const svg = el.ownerSVGElement.getBoundingClientRect();
        const x = box.left - svg.left + box.width/2 - tip.getBBox().width/2;
        const y = box.top - svg.top - tip.getBBox().height - 10;
        tip.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + Math.max(0, y).toFixed(1) + ')');
        tip.setAttribute('visibility', 'visible');
      });
      el.addEventListener('mouseleave', () => tip.setAttribute('visibility', 'hidden'));
    });`
)

// ImageURL returns where the picture of vehicle id is served from.
func ImageURL(base, id string) string {
	return strings.TrimSuffix(base, "/") + "/" + id + ".jpg"
}

func renderTooltips(buf *bytes.Buffer, f reconcile.Frame, imageBase string) {
	for _, n := range f.Settled() {
		v := n.Vehicle
		if v == nil || v.ID == "" {
			continue
		}
		fmt.Fprintf(buf, `  <g class="d3-tip" data-for="%d" visibility="hidden">`+"\n", n.ID)
		fmt.Fprintf(buf, `    <rect width="%g" height="%g"/>`+"\n", tooltipWidth, tooltipHeight)
		fmt.Fprintf(buf, `    <image class="tooltip-img" x="10" y="10" width="%g" height="110" href="%s"/>`+"\n",
			tooltipWidth-20, render.EscapeXML(ImageURL(imageBase, v.ID)))
		fmt.Fprintf(buf, `    <text x="10" y="138">%s</text>`+"\n", render.EscapeXML(v.Model))
		fmt.Fprintf(buf, `    <text x="10" y="156">%s</text>`+"\n", render.EscapeXML(v.ModelYear))
		fmt.Fprintf(buf, `    <text x="10" y="174">$ %s</text>`+"\n", FormatPrice(v.Price))
		buf.WriteString("  </g>\n")
	}
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", tooltipCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", tooltipJS)
}

// FormatPrice prints a price without a fractional part when it has none.
func FormatPrice(p float64) string {
	if p == float64(int64(p)) {
		return fmt.Sprintf("%d", int64(p))
	}
	return fmt.Sprintf("%.2f", p)
}
