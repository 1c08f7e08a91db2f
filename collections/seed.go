package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/model"
)

// DemoQuote is a small two-room bungalow used to populate an empty
// installation.
func DemoQuote() model.Quote {
	q := model.Quote{
		Title:        "Demo Bungalow, Ruiru",
		ClientName:   "Demo Client",
		ClientEmail:  "client@example.com",
		Location:     "Ruiru",
		HouseType:    "Bungalow",
		ProjectType:  "residential",
		Region:       "Kiambu",
		ContractType: "full_contract",
		Status:       model.StatusDraft,
		DistanceKM:   25,
		Rooms: []model.Room{
			{
				Name: "Living Room", Length: 6, Width: 4, Height: 3, BlockType: "Standard Block", Thickness: 0.2,
				RoomArea: 60, Openings: 6.3, PlasterArea: 107.4,
				Blocks: 672, BlockCost: 40320,
				Mortar: 1.6, MortarCost: 9600, CementBags: 12, CementCost: 9000, SandVolume: 1.4, SandCost: 3500,
				PlasterCost: 18000, Plaster: "Both Sides",
				Doors:   []model.Opening{{Type: "Flush", StandardSize: "0.9x2.1", Count: 1, Price: 15000}},
				Windows: []model.Opening{{Type: "Casement", Glass: "Clear", Count: 2, Price: 8500}},
			},
			{
				Name: "Bedroom", Length: 4, Width: 3.5, Height: 3, BlockType: "Standard Block", Thickness: 0.2,
				RoomArea: 45, Openings: 3.9, PlasterArea: 82.2,
				Blocks: 514, BlockCost: 30840,
				Mortar: 1.2, MortarCost: 7200, CementBags: 9, CementCost: 6750, SandVolume: 1.1, SandCost: 2750,
				PlasterCost: 13500, Plaster: "Both Sides",
				Doors:   []model.Opening{{Type: "Flush", StandardSize: "0.8x2.1", Count: 1, Price: 13000}},
				Windows: []model.Opening{{Type: "Casement", Glass: "Frosted", Count: 1, Price: 8500}},
			},
		},
		Materials: []model.Material{
			{Name: "Roofing Sheets", Category: "roofing", Unit: "pcs", Quantity: 48, UnitPrice: 1100},
			{Name: "Ridge Cap", Category: "roofing", Unit: "pcs", Quantity: 6, UnitPrice: 850},
		},
		Labor: []model.Labor{
			{Type: "Masonry", Room: "Living Room", Cost: 18000},
			{Type: "Masonry", Room: "Bedroom", Cost: 12000},
			{Type: "Roofing", Cost: 22000},
		},
		Addons:    []model.Addon{{Name: "Site clearance", Price: 12000}},
		Equipment: []model.Equipment{{Name: "Concrete mixer", UsageUnit: "day", UsageQuantity: 4, RatePerUnit: 3000}},
		Structures: []model.Structure{
			{Name: "Strip footing", Element: model.ElementStripFooting, Mix: "1:2:4", Volume: 5.4, Rate: 15500},
		},
		Allowances: []model.Allowance{
			{Description: "Sanitary fittings", Kind: model.AllowancePrimeCost, Amount: 65000},
			{Description: "Unforeseen ground conditions", Kind: model.AllowanceProvisional, Amount: 40000},
		},
		TransportCosts:    15000,
		PermitCost:        25000,
		OverheadAmount:    30000,
		ContingencyAmount: 20000,
		ProfitAmount:      55000,
	}
	q.Recompute()
	return q
}

// Seed inserts the demo quote. It is safe to call on every startup because
// it returns early if any quote records already exist.
func Seed(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId(QuotesCollection)
	if err != nil {
		return fmt.Errorf("seed: could not find quotes collection: %w", err)
	}
	existing, err := app.CountRecords(quotesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query quotes: %w", err)
	}
	if existing > 0 {
		return nil // already seeded
	}

	log.Println("seed: quotes collection is empty – inserting demo quote …")

	record := core.NewRecord(quotesCol)
	if err := ApplyQuote(record, DemoQuote()); err != nil {
		return fmt.Errorf("seed: encode demo quote: %w", err)
	}
	if err := app.Save(record); err != nil {
		return fmt.Errorf("seed: save demo quote: %w", err)
	}

	log.Printf("seed: created demo quote %s\n", record.Id)
	return nil
}
