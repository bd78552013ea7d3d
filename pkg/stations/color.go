package stations

import "sync"

// Palette is the default ordinal color range.
var Palette = []string{"#a6cee3", "#1f78b4", "#b2df8a", "#33a02c", "#fb9a99", "#e31a1c", "#fdbf6f", "#ff7f00"}

// ColorScale maps keys to colors by their position in the domain. Keys not
// yet in the domain are appended on first use, and positions past the end
// of the range wrap around.
type ColorScale struct {
	mu     sync.Mutex
	colors []string
	index  map[string]int
	domain []string
}

// NewColorScale returns a scale over domain with the given color range
// ([Palette] when empty).
func NewColorScale(domain []string, colors ...string) *ColorScale {
	if len(colors) == 0 {
		colors = Palette
	}
	s := &ColorScale{colors: colors, index: make(map[string]int)}
	for _, k := range domain {
		s.add(k)
	}
	return s
}

func (s *ColorScale) add(key string) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	i := len(s.domain)
	s.index[key] = i
	s.domain = append(s.domain, key)
	return i
}

// Color returns the color for key.
func (s *ColorScale) Color(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colors[s.add(key)%len(s.colors)]
}

// Domain returns the keys seen so far in order.
func (s *ColorScale) Domain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.domain...)
}
