package pricing

import (
	"encoding/json"
	"fmt"
)

// Category names used by the pricing table and the resolver.
const (
	CategoryWalls    = "walls"
	CategoryCeiling  = "ceiling"
	CategoryInterior = "interior"
	CategoryExterior = "exterior"
)

// Treatment keys for walls and ceilings.
const (
	TreatmentSanding     = "sanding"
	TreatmentPriming     = "priming"
	TreatmentPainting    = "painting"
	TreatmentPreparation = "preparation"
)

// Interior/exterior item type keys.
const (
	ItemDoors          = "doors"
	ItemFixedWindows   = "fixedWindows"
	ItemTurnWindows    = "turnWindows"
	ItemDormerWindows  = "dormerWindows"
	ItemStairs         = "stairs"
	ItemRadiators      = "radiators"
	ItemSkirtingBoards = "skirtingBoards"
	ItemFasciaBoards   = "fasciaBoards"
	ItemRainPipe       = "rainPipe"
	ItemOtherItems     = "otherItems"
)

// Level names across treatments and tiered item types.
const (
	LevelLight      = "light"
	LevelMedium     = "medium"
	LevelHeavy      = "heavy"
	LevelOneCoat    = "one_coat"
	LevelTwoCoat    = "two_coat"
	LevelThreeCoat  = "three_coat"
	LevelEasyPrep   = "easy_prep"
	LevelMediumPrep = "medium_prep"
	LevelHeavyPrep  = "heavy_prep"
	LevelSmall      = "small"
	LevelLarge      = "large"
)

// InteriorItemTypes is the canonical ordering of interior item buckets.
var InteriorItemTypes = []string{
	ItemDoors,
	ItemFixedWindows,
	ItemTurnWindows,
	ItemStairs,
	ItemRadiators,
	ItemSkirtingBoards,
	ItemOtherItems,
}

// ExteriorItemTypes is the canonical ordering of exterior item buckets.
var ExteriorItemTypes = []string{
	ItemDoors,
	ItemFixedWindows,
	ItemTurnWindows,
	ItemDormerWindows,
	ItemFasciaBoards,
	ItemRainPipe,
	ItemOtherItems,
}

// Entry is one priced row of the table.
type Entry struct {
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// UnknownEntry is the zero-priced sentinel returned for any combination
// the table cannot satisfy.
var UnknownEntry = Entry{Price: 0, Description: "Unknown"}

// ItemPricing prices a single interior/exterior item type. Tiered types
// (doors, windows) carry a level→entry map; flat types carry one entry.
// Exactly one of Flat and Tiers is set.
type ItemPricing struct {
	Flat  *Entry
	Tiers map[string]Entry
}

// MarshalJSON writes flat pricing as a single entry object and tiered
// pricing as a level→entry object, matching the stored price book shape.
func (p ItemPricing) MarshalJSON() ([]byte, error) {
	if p.Flat != nil {
		return json.Marshal(p.Flat)
	}
	return json.Marshal(p.Tiers)
}

// UnmarshalJSON distinguishes the two shapes by the presence of a
// top-level "price" key.
func (p *ItemPricing) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("decode item pricing: %w", err)
	}
	if _, ok := probe["price"]; ok {
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("decode flat item pricing: %w", err)
		}
		p.Flat = &e
		p.Tiers = nil
		return nil
	}
	tiers := make(map[string]Entry, len(probe))
	for level, raw := range probe {
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("decode tier %q: %w", level, err)
		}
		tiers[level] = e
	}
	p.Flat = nil
	p.Tiers = tiers
	return nil
}

// Additional holds the flat charges applied outside per-surface pricing.
type Additional struct {
	CleanupFee float64 `json:"cleanup_fee"`
	// MaterialsMarkup is reserved. No aggregation path applies it yet.
	MaterialsMarkup float64 `json:"materials_markup"`
}

// Table is a complete price book. It round-trips losslessly through
// JSON so tenant price books can live in a database column.
type Table struct {
	Walls      map[string]map[string]Entry `json:"walls"`
	Ceiling    map[string]map[string]Entry `json:"ceiling"`
	Interior   map[string]ItemPricing      `json:"interior"`
	Exterior   map[string]ItemPricing      `json:"exterior"`
	Additional Additional                  `json:"additional"`
}

func flat(price float64, description string) ItemPricing {
	return ItemPricing{Flat: &Entry{Price: price, Description: description}}
}

// DefaultTable returns the built-in GBP price book.
func DefaultTable() Table {
	return Table{
		Walls: map[string]map[string]Entry{
			TreatmentSanding: {
				LevelLight:  {Price: 5.00, Description: "Light sanding"},
				LevelMedium: {Price: 8.00, Description: "Medium sanding"},
				LevelHeavy:  {Price: 12.00, Description: "Heavy sanding and filler repair"},
			},
			TreatmentPriming: {
				LevelOneCoat: {Price: 4.50, Description: "Priming, one coat"},
				LevelTwoCoat: {Price: 7.50, Description: "Priming, two coats"},
			},
			TreatmentPainting: {
				LevelOneCoat:   {Price: 6.00, Description: "Painting, one coat"},
				LevelTwoCoat:   {Price: 9.50, Description: "Painting, two coats"},
				LevelThreeCoat: {Price: 13.00, Description: "Painting, three coats"},
			},
		},
		Ceiling: map[string]map[string]Entry{
			TreatmentPreparation: {
				LevelLight:  {Price: 4.00, Description: "Light ceiling preparation"},
				LevelMedium: {Price: 7.00, Description: "Medium ceiling preparation"},
				LevelHeavy:  {Price: 11.00, Description: "Heavy ceiling preparation"},
			},
			TreatmentPainting: {
				LevelOneCoat: {Price: 5.50, Description: "Ceiling painting, one coat"},
				LevelTwoCoat: {Price: 8.50, Description: "Ceiling painting, two coats"},
			},
		},
		Interior: map[string]ItemPricing{
			ItemDoors: {Tiers: map[string]Entry{
				LevelEasyPrep:   {Price: 55.00, Description: "Interior door, easy preparation"},
				LevelMediumPrep: {Price: 85.00, Description: "Interior door, medium preparation"},
				LevelHeavyPrep:  {Price: 120.00, Description: "Interior door, heavy preparation"},
			}},
			ItemFixedWindows: {Tiers: map[string]Entry{
				LevelSmall:  {Price: 35.00, Description: "Fixed window, small"},
				LevelMedium: {Price: 50.00, Description: "Fixed window, medium"},
				LevelLarge:  {Price: 70.00, Description: "Fixed window, large"},
			}},
			ItemTurnWindows: {Tiers: map[string]Entry{
				LevelSmall:  {Price: 45.00, Description: "Turn window, small"},
				LevelMedium: {Price: 65.00, Description: "Turn window, medium"},
				LevelLarge:  {Price: 90.00, Description: "Turn window, large"},
			}},
			ItemStairs:         flat(280.00, "Staircase"),
			ItemRadiators:      flat(45.00, "Radiator"),
			ItemSkirtingBoards: flat(4.50, "Skirting boards"),
			ItemOtherItems:     flat(30.00, "Other interior items"),
		},
		Exterior: map[string]ItemPricing{
			ItemDoors: {Tiers: map[string]Entry{
				LevelEasyPrep:   {Price: 70.00, Description: "Exterior door, easy preparation"},
				LevelMediumPrep: {Price: 110.00, Description: "Exterior door, medium preparation"},
				LevelHeavyPrep:  {Price: 150.00, Description: "Exterior door, heavy preparation"},
			}},
			ItemFixedWindows: {Tiers: map[string]Entry{
				LevelSmall:  {Price: 45.00, Description: "Exterior fixed window, small"},
				LevelMedium: {Price: 65.00, Description: "Exterior fixed window, medium"},
				LevelLarge:  {Price: 90.00, Description: "Exterior fixed window, large"},
			}},
			ItemTurnWindows: {Tiers: map[string]Entry{
				LevelSmall:  {Price: 55.00, Description: "Exterior turn window, small"},
				LevelMedium: {Price: 80.00, Description: "Exterior turn window, medium"},
				LevelLarge:  {Price: 110.00, Description: "Exterior turn window, large"},
			}},
			ItemDormerWindows: {Tiers: map[string]Entry{
				LevelSmall:  {Price: 120.00, Description: "Dormer window, small"},
				LevelMedium: {Price: 160.00, Description: "Dormer window, medium"},
				LevelLarge:  {Price: 220.00, Description: "Dormer window, large"},
			}},
			ItemFasciaBoards: flat(8.50, "Fascia boards"),
			ItemRainPipe:     flat(7.00, "Rain pipe"),
			ItemOtherItems:   flat(40.00, "Other exterior items"),
		},
		Additional: Additional{
			CleanupFee:      150.00,
			MaterialsMarkup: 0.15,
		},
	}
}
