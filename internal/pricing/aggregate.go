package pricing

// RoomTotal is one room's contribution to the breakdown. Rooms are keyed
// by ID so two rooms sharing a display name keep separate rows.
type RoomTotal struct {
	RoomID string  `json:"room_id"`
	Name   string  `json:"name"`
	Total  float64 `json:"total"`
}

// Breakdown decomposes a grand total into per-room, interior, exterior
// and cleanup-fee subtotals.
type Breakdown struct {
	RoomTotals    []RoomTotal `json:"room_totals"`
	InteriorTotal float64     `json:"interior_total"`
	ExteriorTotal float64     `json:"exterior_total"`
	CleanupFee    float64     `json:"cleanup_fee"`
}

// Result is the full output of a totals computation.
type Result struct {
	Total     float64   `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
}

// RoomTotal computes one room's cost. Each wall treatment contributes
// independently when its level is set; ceiling and other surfaces
// contribute when present with a positive area. Other surfaces are
// always priced at the interior other-items rate.
func (r *Resolver) RoomTotal(room Room) float64 {
	var total float64

	for _, w := range room.Walls {
		area := w.ComputedArea()
		if w.SandingLevel != "" {
			total += area * r.Resolve(CategoryWalls, TreatmentSanding, w.SandingLevel).Price
		}
		if w.PrimingCoats != "" {
			total += area * r.Resolve(CategoryWalls, TreatmentPriming, w.PrimingCoats).Price
		}
		if w.PaintingCoats != "" {
			total += area * r.Resolve(CategoryWalls, TreatmentPainting, w.PaintingCoats).Price
		}
	}

	if c := room.Ceiling; c != nil {
		if area := c.ComputedArea(); area > 0 {
			if c.PreparationLevel != "" {
				total += area * r.Resolve(CategoryCeiling, TreatmentPreparation, c.PreparationLevel).Price
			}
			if c.PaintingCoats != "" {
				total += area * r.Resolve(CategoryCeiling, TreatmentPainting, c.PaintingCoats).Price
			}
		}
	}

	if s := room.OtherSurfaces; s != nil {
		if area := nonNegative(s.Area); area > 0 {
			total += area * r.Resolve(CategoryInterior, ItemOtherItems, "").Price
		}
	}

	return total
}

// ItemsTotal computes the cost of every item in the given buckets and
// writes each item's derived cost back in place, returning the sum.
func (r *Resolver) ItemsTotal(items map[string][]Item, category string) float64 {
	var total float64
	for itemType, list := range items {
		for i := range list {
			qty := nonNegative(list[i].Quantity)
			cost := qty * r.Resolve(category, itemType, list[i].Option).Price
			list[i].Cost = Decimal(cost)
			total += cost
		}
	}
	return total
}

// ComputeTotal recomputes the grand total and breakdown from scratch.
// The cleanup fee applies once whenever any room or item exists, and
// never when the document is empty. Calling it again on unchanged input
// yields an identical result.
func (r *Resolver) ComputeTotal(m Measurements) Result {
	breakdown := Breakdown{RoomTotals: make([]RoomTotal, 0, len(m.Rooms))}

	var total float64
	for _, room := range m.Rooms {
		rt := r.RoomTotal(room)
		breakdown.RoomTotals = append(breakdown.RoomTotals, RoomTotal{
			RoomID: room.ID,
			Name:   room.Name,
			Total:  rt,
		})
		total += rt
	}

	breakdown.InteriorTotal = r.ItemsTotal(m.InteriorItems, CategoryInterior)
	breakdown.ExteriorTotal = r.ItemsTotal(m.ExteriorItems, CategoryExterior)
	total += breakdown.InteriorTotal + breakdown.ExteriorTotal

	if !m.Empty() {
		breakdown.CleanupFee = r.table.Additional.CleanupFee
		total += breakdown.CleanupFee
	}

	return Result{Total: total, Breakdown: breakdown}
}

// Normalize refreshes every derived field of the document in place:
// wall and ceiling areas, per-item costs, and the stored total. It is
// called on every write so persisted documents always satisfy the
// derived-field invariants, and returns the fresh totals.
func (r *Resolver) Normalize(m *Measurements) Result {
	for ri := range m.Rooms {
		room := &m.Rooms[ri]
		for wi := range room.Walls {
			room.Walls[wi].Area = Decimal(room.Walls[wi].ComputedArea())
		}
		if room.Ceiling != nil {
			room.Ceiling.Area = Decimal(room.Ceiling.ComputedArea())
		}
	}

	result := r.ComputeTotal(*m)
	m.TotalCost = Decimal(result.Total)
	return result
}
