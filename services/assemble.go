package services

import (
	"fmt"
	"strings"

	"quotebuilder/model"
)

// Item number prefixes, one per BOQ group.
const (
	PrefixPreliminaries = "PR"
	PrefixMeasured      = "MW"
	PrefixPrimeCost     = "PC"
	PrefixProvisional   = "PS"
)

const (
	generalHeader    = "General"
	structuresHeader = "Structural Elements"
)

// group is a run of items under one header inside a section.
type group struct {
	header string
	items  []model.BOQItem
}

// sectionBuilder collects groups for one category in first-seen order.
type sectionBuilder struct {
	groups []*group
	index  map[string]*group
}

func (b *sectionBuilder) group(header string) *group {
	if b.index == nil {
		b.index = make(map[string]*group)
	}
	g, ok := b.index[header]
	if !ok {
		g = &group{header: header}
		b.index[header] = g
		b.groups = append(b.groups, g)
	}
	return g
}

type measuredBuilder map[model.Category]*sectionBuilder

func (m measuredBuilder) section(c model.Category) *sectionBuilder {
	b, ok := m[c]
	if !ok {
		b = &sectionBuilder{}
		m[c] = b
	}
	return b
}

func (m measuredBuilder) add(header string, item model.BOQItem) {
	g := m.section(item.Category).group(header)
	g.items = append(g.items, item)
}

// Assemble converts a quote into a sectioned, numbered and totaled BOQ.
// It either returns a complete document or an error, never a partial one.
func Assemble(q model.Quote, tpl Template) (*model.BOQDocument, error) {
	q = q.Clone()
	q.Recompute()

	measured := measuredBuilder{}
	for _, r := range q.Rooms {
		if r.Degenerate() {
			measured.section(model.CategorySuperstructure).group(r.Name)
			continue
		}
		for _, item := range roomItems(q, r) {
			measured.add(r.Name, item)
		}
	}

	for _, item := range generalItems(q) {
		measured.add(generalHeader, item)
	}
	for _, s := range q.Structures {
		measured.add(structuresHeader, structureItem(s))
	}

	doc := &model.BOQDocument{}
	bill := 0
	nextTitle := func(title string) string {
		bill++
		return fmt.Sprintf("BILL NO. %d: %s", bill, title)
	}

	if prelims := prelimItems(q, tpl); len(prelims) > 0 {
		doc.Preliminaries = append(doc.Preliminaries, model.BOQSection{
			Title:    nextTitle(tpl.Title(model.CategoryPreliminaries)),
			Category: model.CategoryPreliminaries,
			Items:    number(prelims, PrefixPreliminaries),
		})
	}

	for _, c := range model.Categories {
		b, ok := measured[c]
		if !ok {
			continue
		}
		var items []model.BOQItem
		for _, g := range b.groups {
			items = append(items, model.NewHeader(g.header, c))
			items = append(items, g.items...)
		}
		doc.MeasuredWorks = append(doc.MeasuredWorks, model.BOQSection{
			Title:    nextTitle(tpl.Title(c)),
			Category: c,
			Items:    number(items, PrefixMeasured),
		})
	}

	primeCost, provisional := allowanceItems(q)
	if len(primeCost) > 0 {
		doc.PrimeCostSums = append(doc.PrimeCostSums, model.BOQSection{
			Title: nextTitle(tpl.PrimeCostTitle),
			Items: number(primeCost, PrefixPrimeCost),
		})
	}
	if len(provisional) > 0 {
		doc.ProvisionalSums = append(doc.ProvisionalSums, model.BOQSection{
			Title: nextTitle(tpl.ProvisionalTitle),
			Items: number(provisional, PrefixProvisional),
		})
	}

	if err := Rollup(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// number assigns PREFIX-001 style numbers to non-header items.
func number(items []model.BOQItem, prefix string) []model.BOQItem {
	n := 0
	for i := range items {
		if items[i].IsHeader {
			items[i].ItemNo = ""
			continue
		}
		n++
		items[i].ItemNo = model.ItemNumber(prefix, n)
	}
	return items
}

// measuredCategory maps a free-form category onto a measured-work bill.
func measuredCategory(s string, fallback model.Category) model.Category {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	c := model.ParseCategory(s)
	if c == model.CategoryPreliminaries {
		return model.CategorySpecial
	}
	return c
}

// measuredItem prices a derived quantity. A cost without a quantity is
// billed as a lump sum; a line with neither is omitted.
func measuredItem(desc, unit string, qty, cost float64, c model.Category, element string) (model.BOQItem, bool) {
	switch {
	case qty > 0:
		return model.NewItem(desc, unit, qty, cost/qty, c, element), true
	case cost > 0:
		return model.NewItem(desc, unitSum, 1, cost, c, element), true
	}
	return model.BOQItem{}, false
}

func roomItems(q model.Quote, r model.Room) []model.BOQItem {
	var items []model.BOQItem
	push := func(item model.BOQItem, ok bool, calculatedFrom string) {
		if !ok {
			return
		}
		item.SourceLocation = r.Name
		item.CalculatedFrom = calculatedFrom
		items = append(items, item)
	}

	walling := blockName(r) + " walling"
	if r.Thickness > 0 {
		walling = fmt.Sprintf("%s walling, %gm thick", blockName(r), r.Thickness.Float())
	}
	item, ok := measuredItem(walling, unitPieces, r.Blocks, r.BlockCost, model.CategorySuperstructure, "Walling")
	item.MaterialType = r.BlockType
	push(item, ok, "netArea")

	item, ok = measuredItem("Mortar for walling", unitCubicMetres, r.Mortar, r.MortarCost, model.CategorySuperstructure, "Mortar")
	item.MaterialBreakdown = mortarBreakdown(r)
	push(item, ok, "blocks")

	plaster := "Plaster to walls"
	if r.Plaster != "" {
		plaster = fmt.Sprintf("Plaster to walls (%s)", r.Plaster)
	}
	item, ok = measuredItem(plaster, unitSquareMetres, r.PlasterArea, r.PlasterCost, model.CategoryFinishes, "Plaster")
	push(item, ok, "plasterArea")

	for _, d := range r.Doors {
		item, ok = openingItem("Door", d)
		push(item, ok, "doors")
	}
	for _, w := range r.Windows {
		item, ok = openingItem("Window", w)
		push(item, ok, "windows")
	}

	prices := schedulePrices(q)
	for _, m := range r.Materials {
		m = priced(m, prices)
		item := model.NewItem(m.Name, m.Unit, m.Quantity, m.UnitPrice, measuredCategory(m.Category, model.CategoryFinishes), "Material")
		if m.Kind == model.UsageLabor {
			item.Element = "Labour"
			item.WorkType = m.Name
		}
		item.WasMatched = m.Matched()
		item.MaterialBreakdown = m.Breakdown
		push(item, true, "materials")
	}

	for _, l := range q.Labor {
		if l.Room != r.Name {
			continue
		}
		push(laborItem(l), true, "labor")
	}
	return items
}

func mortarBreakdown(r model.Room) []model.MaterialBreakdown {
	var out []model.MaterialBreakdown
	if r.CementBags > 0 {
		out = append(out, model.MaterialBreakdown{
			Material: "Cement", Unit: unitBags, Quantity: r.CementBags,
			Category: string(model.CategorySuperstructure), Element: "Mortar", Ratio: 1,
		})
	}
	if r.SandVolume > 0 {
		out = append(out, model.MaterialBreakdown{
			Material: "Sand", Unit: unitCubicMetres, Quantity: r.SandVolume,
			Category: string(model.CategorySuperstructure), Element: "Mortar", Ratio: 4,
		})
	}
	return out
}

func openingItem(kind string, o model.Opening) (model.BOQItem, bool) {
	count := o.Count.Float()
	if count <= 0 {
		return model.BOQItem{}, false
	}
	var details []string
	for _, s := range []string{o.Type, o.Glass, o.StandardSize} {
		if s != "" {
			details = append(details, s)
		}
	}
	desc := kind
	if len(details) > 0 {
		desc = fmt.Sprintf("%s (%s)", kind, strings.Join(details, ", "))
	}
	item := model.NewItem(desc, unitNumber, count, o.Price.Float(), model.CategorySuperstructure, kind)
	item.MaterialType = o.Type
	return item, true
}

func laborItem(l model.Labor) model.BOQItem {
	item := model.NewItem(l.Type+" labour", unitSum, 1, l.Cost, measuredCategory(l.Category, model.CategorySuperstructure), "Labour")
	item.WorkType = l.Type
	return item
}

// generalItems bills quote-level materials that no room uses and labor that
// is not billed under a room: project-wide labor, labor for unknown rooms
// and labor for degenerate rooms.
func generalItems(q model.Quote) []model.BOQItem {
	used := make(map[materialKey]bool)
	for _, u := range CollectUsages(q) {
		used[keyOf(u.Name, u.Category, u.Unit)] = true
	}
	rooms := make(map[string]bool, len(q.Rooms))
	for _, r := range q.Rooms {
		if !r.Degenerate() {
			rooms[r.Name] = true
		}
	}

	var items []model.BOQItem
	for _, m := range q.Materials {
		if used[keyOf(m.Name, m.Category, m.Unit)] {
			continue
		}
		item := model.NewItem(m.Name, m.Unit, m.Quantity, m.UnitPrice, measuredCategory(m.Category, model.CategorySuperstructure), "Material")
		item.SourceLocation = strings.Join(m.SourceLocations, ", ")
		item.CalculatedFrom = "materials"
		items = append(items, item)
	}
	for _, l := range q.Labor {
		if l.Room != "" && rooms[l.Room] {
			continue
		}
		item := laborItem(l)
		item.SourceLocation = l.Room
		item.CalculatedFrom = "labor"
		items = append(items, item)
	}
	return items
}

func structureItem(s model.Structure) model.BOQItem {
	unit := s.Unit
	if unit == "" {
		unit = unitCubicMetres
	}
	desc := s.Name
	if s.Mix != "" {
		desc = fmt.Sprintf("%s (%s)", s.Name, s.Mix)
	}
	item := model.NewItem(desc, unit, s.Volume, s.Rate, s.BOQCategory(), string(s.Element))
	item.CalculatedFrom = "structures"
	item.MaterialType = s.Mix
	return item
}

func lumpSum(desc string, amount float64, element string) model.BOQItem {
	return model.NewItem(desc, unitSum, 1, amount, model.CategoryPreliminaries, element)
}

func prelimItems(q model.Quote, tpl Template) []model.BOQItem {
	var items []model.BOQItem
	for _, line := range tpl.Boilerplate {
		items = append(items, model.NewHeader(line, model.CategoryPreliminaries))
	}

	for _, sec := range q.Preliminaries {
		if sec.Title != "" {
			items = append(items, model.NewHeader(sec.Title, model.CategoryPreliminaries))
		}
		for _, p := range sec.Items {
			if p.IsHeader {
				items = append(items, model.NewHeader(p.Description, model.CategoryPreliminaries))
				continue
			}
			items = append(items, lumpSum(p.Description, p.Amount, "Preliminaries"))
		}
	}

	for _, a := range q.Addons {
		items = append(items, lumpSum(a.Name, a.Price, "Addon"))
	}

	for _, e := range q.Equipment {
		desc := e.Name
		if e.Description != "" {
			desc = fmt.Sprintf("%s: %s", e.Name, e.Description)
		}
		if e.UsageQuantity > 0 && e.RatePerUnit > 0 {
			unit := e.UsageUnit
			if unit == "" {
				unit = unitSum
			}
			items = append(items, model.NewItem(desc, unit, e.UsageQuantity, e.RatePerUnit, model.CategoryPreliminaries, "Equipment"))
			continue
		}
		items = append(items, lumpSum(desc, e.TotalCost, "Equipment"))
	}

	if q.TransportCosts > 0 {
		desc := "Transport of materials to site"
		if q.DistanceKM > 0 {
			desc = fmt.Sprintf("Transport of materials to site (%g km)", q.DistanceKM)
		}
		items = append(items, lumpSum(desc, q.TransportCosts, "Transport"))
	}
	if q.PermitCost > 0 {
		items = append(items, lumpSum(PermitDescription, q.PermitCost, "Permit"))
	}

	for _, it := range items {
		if !it.IsHeader {
			return items
		}
	}
	// Boilerplate alone does not make a bill.
	if len(q.Preliminaries) == 0 {
		return nil
	}
	return items
}

// PermitDescription is the preliminaries line that carries the permit cost.
const PermitDescription = "Statutory permits and approvals"

func allowanceItems(q model.Quote) (primeCost, provisional []model.BOQItem) {
	for _, a := range q.Allowances {
		qty, unit, rate := a.Measure()
		item := model.NewItem(a.Description, unit, qty, rate, measuredCategory(a.Category, model.CategorySpecial), "Allowance")
		item.IsProvision = true
		if a.Kind == model.AllowancePrimeCost {
			primeCost = append(primeCost, item)
			continue
		}
		provisional = append(provisional, item)
	}
	return primeCost, provisional
}
