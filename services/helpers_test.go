package services

import (
	"bytes"
	"math"
	"testing"

	"quotebuilder/model"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= model.PriceTolerance
}

// sampleQuote is a two-room residential quote touching every BOQ group.
func sampleQuote() model.Quote {
	return model.Quote{
		ID:          "q1",
		Title:       "Kamau Residence",
		ClientName:  "J. Kamau",
		Location:    "Nakuru",
		HouseType:   "Bungalow",
		ProjectType: "residential",
		DistanceKM:  42,
		Rooms: []model.Room{
			{
				Name: "Living Room", Length: 5, Width: 4, Height: 3,
				RoomArea: 54, Openings: 4, PlasterArea: 100,
				Blocks: 500, BlockCost: 25000,
				Mortar: 1.5, MortarCost: 6000, CementBags: 10, CementCost: 7500, SandVolume: 1, SandCost: 2500,
				PlasterCost: 8000, Plaster: "Smooth",
				Doors:   []model.Opening{{Type: "Panel", StandardSize: "0.9x2.1", Count: 1, Price: 12000}},
				Windows: []model.Opening{{Type: "Casement", Glass: "Clear", Count: 2, Price: 6000}},
				Materials: []model.MaterialUsage{
					{Name: "Floor Tiles", Category: "finishes", Unit: "m²", Quantity: 20, UnitPrice: 1500},
				},
			},
			{
				Name: "Bedroom", Length: 4, Width: 3, Height: 3,
				RoomArea: 42, Openings: 3,
				Blocks: 300, BlockCost: 15000,
				CementBags: 6, CementCost: 4500,
			},
		},
		Materials: []model.Material{
			{Name: "Roofing Sheets", Category: "roofing", Unit: "pcs", Quantity: 40, UnitPrice: 950},
		},
		Labor: []model.Labor{
			{Type: "Masonry", Room: "Living Room", Cost: 9000},
			{Type: "Site supervision", Cost: 20000},
		},
		Addons:    []model.Addon{{Name: "Site clearance", Price: 15000}},
		Equipment: []model.Equipment{{Name: "Concrete mixer", UsageUnit: "day", UsageQuantity: 3, RatePerUnit: 2500}},
		Structures: []model.Structure{
			{Name: "Strip footing", Element: model.ElementStripFooting, Mix: "1:2:4", Volume: 4, Rate: 14000},
		},
		Allowances: []model.Allowance{
			{Description: "Kitchen fittings", Kind: model.AllowancePrimeCost, Amount: 80000},
			{Description: "Rock excavation", Kind: model.AllowanceProvisional, Unit: "m³", Quantity: 5, Rate: 3000},
			{Description: "Landscaping", Kind: model.AllowanceProvisional},
		},
		TransportCosts:    12000,
		PermitCost:        30000,
		OverheadAmount:    25000,
		ContingencyAmount: 18000,
		ProfitAmount:      40000,
	}
}

// prepared runs the full pipeline or fails the test.
func prepared(t *testing.T, q model.Quote) (model.Quote, *model.BOQDocument) {
	t.Helper()
	out, doc, err := Prepare(q)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return out, doc
}
