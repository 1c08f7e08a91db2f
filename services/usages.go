package services

import (
	"quotebuilder/model"
)

const (
	defaultBlockName = "Standard Block"
	unitPieces       = "pcs"
	unitBags         = "bags"
	unitCubicMetres  = "m³"
	unitSquareMetres = "m²"
	unitNumber       = "No"
	unitSum          = "Sum"
)

// CollectUsages lists the material usages of every non-degenerate room: the
// walling blocks, the cement and sand of the mortar, and the room's own
// material selections. Usages without a unit price take the price of the
// matching entry in the quote's materials schedule.
func CollectUsages(q model.Quote) []model.MaterialUsage {
	prices := schedulePrices(q)

	var out []model.MaterialUsage
	for _, r := range q.Rooms {
		r.Normalize()
		if r.Degenerate() {
			continue
		}
		for _, u := range roomUsages(r) {
			out = append(out, priced(u, prices))
		}
	}
	return out
}

// schedulePrices maps each quote material key to its unit price.
func schedulePrices(q model.Quote) map[materialKey]float64 {
	prices := make(map[materialKey]float64, len(q.Materials))
	for _, m := range q.Materials {
		prices[keyOf(m.Name, m.Category, m.Unit)] = m.UnitPrice
	}
	return prices
}

// priced fills a missing unit price from the schedule.
func priced(u model.MaterialUsage, prices map[materialKey]float64) model.MaterialUsage {
	if u.UnitPrice != 0 {
		return u
	}
	if p, ok := prices[keyOf(u.Name, u.Category, u.Unit)]; ok {
		return u.WithMatchedPrice(p)
	}
	return u
}

func roomUsages(r model.Room) []model.MaterialUsage {
	var out []model.MaterialUsage
	add := func(name, unit string, qty, cost float64) {
		if qty <= 0 {
			return
		}
		out = append(out, model.MaterialUsage{
			Name:      name,
			Category:  string(model.CategorySuperstructure),
			Unit:      unit,
			Quantity:  qty,
			UnitPrice: cost / qty,
			Room:      r.Name,
			Kind:      model.UsageMaterial,
		})
	}
	add(blockName(r), unitPieces, r.Blocks, r.BlockCost)
	add("Cement", unitBags, r.CementBags, r.CementCost)
	add("Sand", unitCubicMetres, r.SandVolume, r.SandCost)

	for _, m := range r.Materials {
		if m.Room == "" {
			m.Room = r.Name
		}
		if m.Kind == "" {
			m.Kind = model.UsageMaterial
		}
		out = append(out, m)
	}
	return out
}

func blockName(r model.Room) string {
	if _, ok := r.CustomBlock(); ok {
		return "Custom Block"
	}
	if r.BlockType == "" {
		return defaultBlockName
	}
	return r.BlockType
}
