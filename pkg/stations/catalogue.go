package stations

// ChargerType is a connector standard the map can filter by.
type ChargerType struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Catalogue is the ordered list of charger types.
type Catalogue []ChargerType

// DefaultCatalogue holds the connector types reported by the station API.
var DefaultCatalogue = Catalogue{
	{Key: "NEMA515", Label: "NEMA 5-15"},
	{Key: "NEMA520", Label: "NEMA 5-20"},
	{Key: "NEMA1450", Label: "NEMA 14-50"},
	{Key: "J1772", Label: "J1772"},
	{Key: "CHADEMO", Label: "CHAdeMO"},
	{Key: "J1772COMBO", Label: "SAE J1772 Combo"},
	{Key: "TESLA", Label: "Tesla"},
}

// Keys returns the type keys in order.
func (c Catalogue) Keys() []string {
	keys := make([]string, len(c))
	for i, t := range c {
		keys[i] = t.Key
	}
	return keys
}

// Label returns the display label for key, or key itself when unknown.
func (c Catalogue) Label(key string) string {
	for _, t := range c {
		if t.Key == key {
			return t.Label
		}
	}
	return key
}

// Contains reports whether key is in the catalogue.
func (c Catalogue) Contains(key string) bool {
	for _, t := range c {
		if t.Key == key {
			return true
		}
	}
	return false
}

// FromLabels builds a catalogue from key → label pairs in the given key
// order. Keys without a label use the key.
func FromLabels(keys []string, labels map[string]string) Catalogue {
	c := make(Catalogue, 0, len(keys))
	for _, k := range keys {
		l := labels[k]
		if l == "" {
			l = k
		}
		c = append(c, ChargerType{Key: k, Label: l})
	}
	return c
}
