package pricing

// Resolver answers price lookups against an injected price book. It is
// total: every lookup returns a priced entry, falling back to
// UnknownEntry on any miss, so callers never branch on errors in the
// middle of an aggregation.
type Resolver struct {
	table Table
}

// NewResolver returns a Resolver backed by the given table.
func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Table returns the price book the resolver was built from.
func (r *Resolver) Table() Table {
	return r.table
}

// defaultLevels supplies the tier used for tiered item types when the
// caller passes no level.
var defaultLevels = map[string]string{
	ItemDoors:         LevelMediumPrep,
	ItemFixedWindows:  LevelMedium,
	ItemTurnWindows:   LevelMedium,
	ItemDormerWindows: LevelMedium,
}

// Resolve returns the entry for (category, itemType, level). For walls
// and ceilings the level selects a treatment tier. For interior and
// exterior items, tiered types substitute their default level when level
// is empty; flat types ignore the level entirely.
func (r *Resolver) Resolve(category, itemType, level string) Entry {
	switch category {
	case CategoryWalls:
		return treatmentEntry(r.table.Walls, itemType, level)
	case CategoryCeiling:
		return treatmentEntry(r.table.Ceiling, itemType, level)
	case CategoryInterior:
		return itemEntry(r.table.Interior, itemType, level)
	case CategoryExterior:
		return itemEntry(r.table.Exterior, itemType, level)
	}
	return UnknownEntry
}

func treatmentEntry(treatments map[string]map[string]Entry, treatment, level string) Entry {
	if levels, ok := treatments[treatment]; ok {
		if e, ok := levels[level]; ok {
			return e
		}
	}
	return UnknownEntry
}

func itemEntry(items map[string]ItemPricing, itemType, level string) Entry {
	p, ok := items[itemType]
	if !ok {
		return UnknownEntry
	}
	if p.Flat != nil {
		return *p.Flat
	}
	if level == "" {
		level = defaultLevels[itemType]
	}
	if e, ok := p.Tiers[level]; ok {
		return e
	}
	return UnknownEntry
}
