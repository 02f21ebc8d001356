package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidZone = errors.New("invalid zone")

// Zone is a named location with its price adjustment
type Zone struct {
	Name       string    `json:"name"`
	Multiplier float64   `json:"multiplier"`
	Center     []float64 `json:"center"`
}

// ZoneTable is the closed set of locations the estimator accepts
type ZoneTable struct {
	zones []Zone
	index map[string]int
}

// DefaultZones is the built-in zone table
var DefaultZones = []Zone{
	{Name: "Downtown", Multiplier: 1.35, Center: []float64{47.6062, -122.3321}},
	{Name: "Suburb", Multiplier: 1.00, Center: []float64{47.6101, -122.2015}},
	{Name: "Riverside", Multiplier: 1.15, Center: []float64{47.5480, -122.3060}},
	{Name: "Hills", Multiplier: 1.20, Center: []float64{47.6740, -122.1215}},
	{Name: "Coastal", Multiplier: 1.40, Center: []float64{47.6815, -122.4080}},
	{Name: "Urban", Multiplier: 1.10, Center: []float64{47.6205, -122.3493}},
	{Name: "Rural", Multiplier: 0.80, Center: []float64{47.4502, -121.9570}},
}

// NewZoneTable validates zones and builds a lookup table
func NewZoneTable(zones []Zone) (*ZoneTable, error) {
	if len(zones) == 0 {
		return nil, errors.New("zone table is empty")
	}

	t := &ZoneTable{
		zones: make([]Zone, 0, len(zones)),
		index: make(map[string]int, len(zones)),
	}
	for _, z := range zones {
		key := NormalizeZone(z.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: zone name is empty", ErrInvalidZone)
		}
		if z.Multiplier <= 0 {
			return nil, fmt.Errorf("%w: multiplier of %s must be positive", ErrInvalidZone, z.Name)
		}
		if z.Center != nil && len(z.Center) != 2 {
			return nil, fmt.Errorf("%w: center of %s must be [lat, lng]", ErrInvalidZone, z.Name)
		}
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("%w: duplicate zone %s", ErrInvalidZone, z.Name)
		}
		t.index[key] = len(t.zones)
		t.zones = append(t.zones, z)
	}
	return t, nil
}

// MustDefaultZoneTable returns the built-in table
func MustDefaultZoneTable() *ZoneTable {
	t, err := NewZoneTable(DefaultZones)
	if err != nil {
		panic(err)
	}
	return t
}

// Names returns zone names in table order
func (t *ZoneTable) Names() []string {
	names := make([]string, len(t.zones))
	for i, z := range t.zones {
		names[i] = z.Name
	}
	return names
}

// Zones returns a copy of the zones in table order
func (t *ZoneTable) Zones() []Zone {
	out := make([]Zone, len(t.zones))
	copy(out, t.zones)
	return out
}

// Lookup finds a zone by name, ignoring case and surrounding space
func (t *ZoneTable) Lookup(name string) (Zone, bool) {
	i, ok := t.index[NormalizeZone(name)]
	if !ok {
		return Zone{}, false
	}
	return t.zones[i], true
}

// NormalizeZone lowercases a zone name and collapses inner whitespace to dashes
func NormalizeZone(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
