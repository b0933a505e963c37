package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMeasurements is returned when a document yields no billable line
// items at all; such a document must not produce a quote.
var ErrNoMeasurements = errors.New("please add some measurements before generating a quote")

// Units used on generated line items.
const (
	UnitSquareMetre = "m²"
	UnitPiece       = "piece"
	UnitJob         = "job"
)

// LineItem is one invoiceable row of a generated quote. This is the
// externally submitted shape; it carries no internal identifiers.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// GenerateLineItems expands a measurement document into the ordered
// line items of a quote: rooms first (walls in sanding/priming/painting
// order, then ceiling, then other surface), then interior item types,
// then exterior item types, each in canonical order, and finally one
// cleanup line. Zero-area walls and zero-quantity items are skipped.
func (r *Resolver) GenerateLineItems(m Measurements) ([]LineItem, error) {
	var items []LineItem

	for _, room := range m.Rooms {
		items = append(items, r.roomLineItems(room)...)
	}
	for _, itemType := range InteriorItemTypes {
		items = append(items, r.itemLineItems(CategoryInterior, itemType, m.InteriorItems[itemType])...)
	}
	for _, itemType := range ExteriorItemTypes {
		items = append(items, r.itemLineItems(CategoryExterior, itemType, m.ExteriorItems[itemType])...)
	}

	if len(items) == 0 {
		return nil, ErrNoMeasurements
	}

	fee := r.table.Additional.CleanupFee
	items = append(items, LineItem{
		Description: "Cleanup and Site Preparation",
		Quantity:    1,
		Unit:        UnitJob,
		UnitPrice:   fee,
		Total:       fee,
	})

	return items, nil
}

func (r *Resolver) roomLineItems(room Room) []LineItem {
	var items []LineItem

	area := func(desc string, qty, unitPrice float64) LineItem {
		return LineItem{
			Description: desc,
			Quantity:    qty,
			Unit:        UnitSquareMetre,
			UnitPrice:   unitPrice,
			Total:       qty * unitPrice,
		}
	}

	for _, w := range room.Walls {
		wallArea := w.ComputedArea()
		if wallArea <= 0 {
			continue
		}
		if w.SandingLevel != "" {
			e := r.Resolve(CategoryWalls, TreatmentSanding, w.SandingLevel)
			items = append(items, area(
				fmt.Sprintf("%s - %s - Sanding (%s)", room.Name, w.Name, levelLabel(w.SandingLevel)),
				wallArea, e.Price))
		}
		if w.PrimingCoats != "" {
			e := r.Resolve(CategoryWalls, TreatmentPriming, w.PrimingCoats)
			items = append(items, area(
				fmt.Sprintf("%s - %s - Priming (%s)", room.Name, w.Name, levelLabel(w.PrimingCoats)),
				wallArea, e.Price))
		}
		if w.PaintingCoats != "" {
			e := r.Resolve(CategoryWalls, TreatmentPainting, w.PaintingCoats)
			items = append(items, area(
				fmt.Sprintf("%s - %s - Painting (%s)", room.Name, w.Name, levelLabel(w.PaintingCoats)),
				wallArea, e.Price))
		}
	}

	if c := room.Ceiling; c != nil {
		if ceilingArea := c.ComputedArea(); ceilingArea > 0 {
			if c.PreparationLevel != "" {
				e := r.Resolve(CategoryCeiling, TreatmentPreparation, c.PreparationLevel)
				items = append(items, area(
					fmt.Sprintf("%s - Ceiling - Preparation (%s)", room.Name, levelLabel(c.PreparationLevel)),
					ceilingArea, e.Price))
			}
			if c.PaintingCoats != "" {
				e := r.Resolve(CategoryCeiling, TreatmentPainting, c.PaintingCoats)
				items = append(items, area(
					fmt.Sprintf("%s - Ceiling - Painting (%s)", room.Name, levelLabel(c.PaintingCoats)),
					ceilingArea, e.Price))
			}
		}
	}

	if s := room.OtherSurfaces; s != nil {
		if surfaceArea := nonNegative(s.Area); surfaceArea > 0 {
			e := r.Resolve(CategoryInterior, ItemOtherItems, "")
			desc := s.Description
			if desc == "" {
				desc = "Other surface"
			}
			items = append(items, area(fmt.Sprintf("%s - %s", room.Name, desc), surfaceArea, e.Price))
		}
	}

	return items
}

func (r *Resolver) itemLineItems(category, itemType string, list []Item) []LineItem {
	var items []LineItem
	for _, it := range list {
		qty := nonNegative(it.Quantity)
		if qty <= 0 {
			continue
		}
		e := r.Resolve(category, itemType, it.Option)
		desc := it.Description
		if desc == "" {
			desc = e.Description
		}
		if it.Option != "" {
			desc = fmt.Sprintf("%s (%s)", desc, levelLabel(it.Option))
		}
		items = append(items, LineItem{
			Description: desc,
			Quantity:    qty,
			Unit:        UnitPiece,
			UnitPrice:   e.Price,
			Total:       qty * e.Price,
		})
	}
	return items
}

// levelLabel renders a level key for human-readable descriptions,
// e.g. "two_coat" becomes "two coat".
func levelLabel(level string) string {
	return strings.ReplaceAll(level, "_", " ")
}
