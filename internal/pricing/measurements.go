package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultWallHeight is the wall height preselected for new walls, in metres.
const DefaultWallHeight = 2.4

// Decimal is a float64 that decodes leniently: JSON numbers, numeric
// strings, and anything unparseable (which becomes 0). Measurement
// documents come from form inputs, so garbage must price as zero rather
// than fail the request.
type Decimal float64

// UnmarshalJSON implements the lenient decoding rules.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*d = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			*d = 0
			return nil
		}
		*d = Decimal(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*d = 0
		return nil
	}
	*d = Decimal(v)
	return nil
}

// Wall is one wall of a room. Area is derived from length and height
// and refreshed by Normalize; the other fields are user input.
type Wall struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Length        Decimal `json:"length"`
	Height        Decimal `json:"height"`
	Area          Decimal `json:"area"`
	SandingLevel  string  `json:"sanding_level,omitempty"`
	PrimingCoats  string  `json:"priming_coats,omitempty"`
	PaintingCoats string  `json:"painting_coats,omitempty"`
}

// NewWall returns a wall with the default height preselected.
func NewWall(name string) Wall {
	return Wall{ID: uuid.NewString(), Name: name, Height: DefaultWallHeight}
}

// ComputedArea is the wall's billable area: length x height, clamped to
// non-negative inputs and rounded to two decimals.
func (w Wall) ComputedArea() float64 {
	return round2(nonNegative(w.Length) * nonNegative(w.Height))
}

// Ceiling is the at-most-one ceiling of a room.
type Ceiling struct {
	Width            Decimal `json:"width"`
	Length           Decimal `json:"length"`
	Area             Decimal `json:"area"`
	PreparationLevel string  `json:"preparation_level,omitempty"`
	PaintingCoats    string  `json:"painting_coats,omitempty"`
}

// ComputedArea is width x length, clamped and rounded to two decimals.
func (c Ceiling) ComputedArea() float64 {
	return round2(nonNegative(c.Width) * nonNegative(c.Length))
}

// OtherSurface is a free-form additional surface within a room.
type OtherSurface struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Area        Decimal `json:"area"`
}

// Room groups the surfaces measured for one room.
type Room struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Walls         []Wall        `json:"walls"`
	Ceiling       *Ceiling      `json:"ceiling,omitempty"`
	OtherSurfaces *OtherSurface `json:"otherSurfaces,omitempty"`
}

// Item is one interior or exterior line entry (a door, a window, ...).
// Cost is derived and refreshed whenever totals are computed.
type Item struct {
	ID          string  `json:"id"`
	Quantity    Decimal `json:"quantity"`
	Description string  `json:"description"`
	Option      string  `json:"option,omitempty"`
	Cost        Decimal `json:"cost"`
}

// NewItem returns an item with quantity preset to one.
func NewItem() Item {
	return Item{ID: uuid.NewString(), Quantity: 1}
}

// Measurements is the full measurement document for one project, the
// shape stored in the project's manual_measurements column and produced
// by floor-plan analysis.
type Measurements struct {
	Rooms         []Room            `json:"rooms"`
	InteriorItems map[string][]Item `json:"interiorItems"`
	ExteriorItems map[string][]Item `json:"exteriorItems"`
	Notes         string            `json:"notes"`
	TotalCost     Decimal           `json:"totalCost"`
}

// Empty reports whether the document has no rooms and no items at all.
func (m Measurements) Empty() bool {
	if len(m.Rooms) > 0 {
		return false
	}
	for _, list := range m.InteriorItems {
		if len(list) > 0 {
			return false
		}
	}
	for _, list := range m.ExteriorItems {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

func nonNegative(d Decimal) float64 {
	v := float64(d)
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
