package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"quotebuilder/model"
)

// unitPriceTolerance is the relative difference allowed between the unit
// prices of two usages of the same material.
const unitPriceTolerance = 1e-9

type materialKey struct {
	name     string
	category string
	unit     string
}

func keyOf(name, category, unit string) materialKey {
	return materialKey{name: name, category: category, unit: unit}
}

type materialAcc struct {
	first     model.MaterialUsage
	quantity  decimal.Decimal
	locations []string
	seen      map[string]bool
}

// ConsolidateMaterials merges usages into one Material per exact
// (name, category, unit). Labor usages are skipped. Quantities are summed
// exactly so the result does not depend on input order, and the output is
// sorted by category, name and unit.
func ConsolidateMaterials(usages []model.MaterialUsage) ([]model.Material, error) {
	accs := make(map[materialKey]*materialAcc)
	for _, u := range usages {
		if u.Kind == model.UsageLabor {
			continue
		}
		k := keyOf(u.Name, u.Category, u.Unit)
		acc, ok := accs[k]
		if !ok {
			acc = &materialAcc{first: u, quantity: decimal.Zero, seen: map[string]bool{}}
			accs[k] = acc
		} else if !samePrice(acc.first.UnitPrice, u.UnitPrice) {
			return nil, invalid(ErrInconsistentUnitPrice, u.Name,
				fmt.Sprintf("inconsistent unit price for material %s: %v vs %v", u.Name, acc.first.UnitPrice, u.UnitPrice))
		}
		acc.quantity = acc.quantity.Add(decimal.NewFromFloat(u.Quantity))
		if u.Room != "" && !acc.seen[u.Room] {
			acc.seen[u.Room] = true
			acc.locations = append(acc.locations, u.Room)
		}
	}

	out := make([]model.Material, 0, len(accs))
	for _, acc := range accs {
		price := decimal.NewFromFloat(acc.first.UnitPrice)
		out = append(out, model.Material{
			Name:            acc.first.Name,
			Category:        acc.first.Category,
			Unit:            acc.first.Unit,
			Quantity:        acc.quantity.InexactFloat64(),
			UnitPrice:       acc.first.UnitPrice,
			TotalPrice:      acc.quantity.Mul(price).InexactFloat64(),
			SourceLocations: acc.locations,
		})
	}
	sortMaterials(out)
	return out, nil
}

func samePrice(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= unitPriceTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// sortMaterials orders a schedule by category taxonomy, then name, then unit.
func sortMaterials(ms []model.Material) {
	sort.SliceStable(ms, func(i, j int) bool {
		ri, rj := model.ParseCategory(ms[i].Category).Rank(), model.ParseCategory(ms[j].Category).Rank()
		if ri != rj {
			return ri < rj
		}
		if ms[i].Category != ms[j].Category {
			return ms[i].Category < ms[j].Category
		}
		if ms[i].Name != ms[j].Name {
			return ms[i].Name < ms[j].Name
		}
		return ms[i].Unit < ms[j].Unit
	})
}

// MaterialSchedule is the project-wide materials schedule of q: the
// consolidated room usages followed by the quote's own materials that no
// room refers to. It fails when rooms disagree on a unit price.
func MaterialSchedule(q model.Quote) ([]model.Material, error) {
	usages := CollectUsages(q)
	schedule, err := ConsolidateMaterials(usages)
	if err != nil {
		return nil, err
	}
	used := make(map[materialKey]bool, len(usages))
	for _, u := range usages {
		used[keyOf(u.Name, u.Category, u.Unit)] = true
	}
	for _, m := range q.Materials {
		if used[keyOf(m.Name, m.Category, m.Unit)] {
			continue
		}
		m.TotalPrice = m.Quantity * m.UnitPrice
		m.SourceLocations = append([]string(nil), m.SourceLocations...)
		schedule = append(schedule, m)
	}
	sortMaterials(schedule)
	return schedule, nil
}
