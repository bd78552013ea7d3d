package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	dasherr "github.com/matzehuels/evdash/pkg/errors"
)

// rawNode is the JSON shape of a hierarchy node. Children may arrive as
// "children", as "values" (d3.nest output) or already stashed as "_children".
type rawNode struct {
	Key          string     `json:"key"`
	Children     []*rawNode `json:"children"`
	Values       []*rawNode `json:"values"`
	Stashed      []*rawNode `json:"_children"`
	ID           flexString `json:"id"`
	Model        flexString `json:"model"`
	ModelYear    flexString `json:"model_year"`
	Price        flexFloat  `json:"price"`
	Fuel         string     `json:"fuel"`
	Manufacturer string     `json:"manufacturer"`
}

func (r *rawNode) kids() ([]*rawNode, bool) {
	switch {
	case len(r.Children) > 0:
		return r.Children, false
	case len(r.Values) > 0:
		return r.Values, false
	case len(r.Stashed) > 0:
		return r.Stashed, true
	}
	return nil, false
}

func (r *rawNode) hasVehicleFields() bool {
	return r.Model != "" || r.ID != "" || r.Fuel != "" || r.Manufacturer != ""
}

func (r *rawNode) node() *Node {
	kids, stashed := r.kids()
	n := &Node{Key: r.Key, state: StateExpanded}
	if stashed {
		n.state = StateCollapsed
	}
	if r.hasVehicleFields() {
		n.Vehicle = &Vehicle{
			ID:           string(r.ID),
			Model:        string(r.Model),
			ModelYear:    string(r.ModelYear),
			Price:        float64(r.Price),
			Fuel:         r.Fuel,
			Manufacturer: r.Manufacturer,
		}
		if len(kids) == 0 {
			n.state = StateLeaf
		}
	}
	n.kids = make([]*Node, 0, len(kids))
	for _, k := range kids {
		if k == nil {
			n.kids = append(n.kids, nil)
			continue
		}
		n.kids = append(n.kids, k.node())
	}
	return n
}

// Decode reads a nested JSON hierarchy from r and returns the validated tree.
func Decode(r io.Reader) (*Tree, error) {
	var root rawNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, dasherr.Wrap(dasherr.ErrCodeInvalidHierarchy, err, "decode hierarchy")
	}
	return New(root.node())
}

// Parse decodes a hierarchy from a byte slice.
func Parse(data []byte) (*Tree, error) {
	return Decode(bytes.NewReader(data))
}

// Load reads a hierarchy JSON file.
func Load(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// flexString accepts JSON strings and numbers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexFloat accepts JSON numbers and numeric strings such as "$29,010".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		v = strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)
		if v == "" {
			return nil
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("price %q: %w", v, err)
		}
		*f = flexFloat(x)
		return nil
	}
	var x float64
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	*f = flexFloat(x)
	return nil
}
