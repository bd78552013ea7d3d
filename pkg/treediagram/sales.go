package treediagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/hierarchy"
)

// Radius bounds for sized nodes.
const (
	MinRadius     = 4.0
	MaxRadius     = 16.0
	DefaultRadius = 6.0
)

// Sales maps a vehicle model to the number of units sold.
type Sales map[string]float64

type salesRow struct {
	Model string  `json:"model"`
	Units float64 `json:"units"`
	Sales float64 `json:"sales"`
}

// ParseSales reads either a JSON object of model → units or an array of
// {"model", "units"} rows ("sales" is accepted for "units").
func ParseSales(data []byte) (Sales, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Sales{}, nil
	}
	if data[0] == '[' {
		var rows []salesRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode sales table")
		}
		s := make(Sales, len(rows))
		for _, r := range rows {
			if r.Units == 0 {
				r.Units = r.Sales
			}
			s[r.Model] += r.Units
		}
		return s, nil
	}
	var s Sales
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode sales table")
	}
	return s, nil
}

// LoadSales reads a sales table from path.
func LoadSales(path string) (Sales, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sales %s: %w", path, err)
	}
	return ParseSales(data)
}

// radii computes the radius of every node, indexed by node ID. A leaf
// counts its own units and an internal node the sum of its leaves; radii
// grow with the square root of that total relative to the largest total.
func (s Sales) radii(t *hierarchy.Tree) []float64 {
	totals := make([]float64, t.Len())
	var sum func(n *hierarchy.Node) float64
	sum = func(n *hierarchy.Node) float64 {
		var v float64
		if n.IsLeaf() {
			v = s[n.Model()]
		} else {
			for _, c := range n.AllChildren() {
				v += sum(c)
			}
		}
		totals[n.ID] = v
		return v
	}
	maxTotal := sum(t.Root)

	out := make([]float64, len(totals))
	for id, v := range totals {
		if v <= 0 || maxTotal <= 0 {
			out[id] = DefaultRadius
			continue
		}
		r := MinRadius + (MaxRadius-MinRadius)*math.Sqrt(v/maxTotal)
		out[id] = min(max(r, MinRadius), MaxRadius)
	}
	return out
}
