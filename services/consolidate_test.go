package services

import (
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"quotebuilder/model"
)

func TestConsolidateMaterials_TwoRoomsCement(t *testing.T) {
	usages := []model.MaterialUsage{
		{Name: "Cement", Category: "superstructure", Unit: "bags", Quantity: 5, UnitPrice: 750, Room: "Kitchen"},
		{Name: "Cement", Category: "superstructure", Unit: "bags", Quantity: 7, UnitPrice: 750, Room: "Bedroom"},
	}

	got, err := ConsolidateMaterials(usages)
	if err != nil {
		t.Fatalf("ConsolidateMaterials() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 material, got %d: %+v", len(got), got)
	}
	m := got[0]
	if m.Quantity != 12 {
		t.Errorf("Quantity = %v, want 12", m.Quantity)
	}
	if m.TotalPrice != 9000 {
		t.Errorf("TotalPrice = %v, want 9000", m.TotalPrice)
	}
	want := []string{"Kitchen", "Bedroom"}
	if !reflect.DeepEqual(m.SourceLocations, want) {
		t.Errorf("SourceLocations = %v, want %v", m.SourceLocations, want)
	}
}

func TestConsolidateMaterials_KeyIsExact(t *testing.T) {
	usages := []model.MaterialUsage{
		{Name: "Cement", Category: "superstructure", Unit: "bags", Quantity: 1, UnitPrice: 10, Room: "A"},
		{Name: "cement", Category: "superstructure", Unit: "bags", Quantity: 1, UnitPrice: 10, Room: "A"},
		{Name: "Cement", Category: "superstructure", Unit: "kg", Quantity: 1, UnitPrice: 0.2, Room: "A"},
		{Name: "Cement", Category: "substructure", Unit: "bags", Quantity: 1, UnitPrice: 10, Room: "A"},
	}
	got, err := ConsolidateMaterials(usages)
	if err != nil {
		t.Fatalf("ConsolidateMaterials() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("expected 4 distinct materials, got %d", len(got))
	}
	if got[0].Category != "substructure" {
		t.Errorf("first material category = %q, want substructure first in taxonomy order", got[0].Category)
	}
}

func TestConsolidateMaterials_InconsistentPrice(t *testing.T) {
	usages := []model.MaterialUsage{
		{Name: "Sand", Category: "superstructure", Unit: "m³", Quantity: 1, UnitPrice: 2500, Room: "A"},
		{Name: "Sand", Category: "superstructure", Unit: "m³", Quantity: 2, UnitPrice: 2600, Room: "B"},
	}
	_, err := ConsolidateMaterials(usages)
	if !errors.Is(err, ErrInconsistentUnitPrice) {
		t.Fatalf("err = %v, want ErrInconsistentUnitPrice", err)
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "Sand" {
		t.Errorf("expected ValidationError for Sand, got %#v", err)
	}
}

func TestConsolidateMaterials_Edges(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		got, err := ConsolidateMaterials(nil)
		if err != nil || len(got) != 0 {
			t.Errorf("got %v, %v; want empty, nil", got, err)
		}
	})
	t.Run("zero quantity retained", func(t *testing.T) {
		got, err := ConsolidateMaterials([]model.MaterialUsage{{Name: "Paint", Unit: "l", UnitPrice: 500, Room: "A"}})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].TotalPrice != 0 {
			t.Errorf("got %+v, want one zero-priced material", got)
		}
	})
	t.Run("labor skipped", func(t *testing.T) {
		got, err := ConsolidateMaterials([]model.MaterialUsage{{Name: "Fundi", Kind: model.UsageLabor, Quantity: 1, UnitPrice: 900}})
		if err != nil || len(got) != 0 {
			t.Errorf("got %v, %v; want labor skipped", got, err)
		}
	})
	t.Run("repeated room listed once", func(t *testing.T) {
		got, err := ConsolidateMaterials([]model.MaterialUsage{
			{Name: "Nails", Unit: "kg", Quantity: 1, UnitPrice: 200, Room: "A"},
			{Name: "Nails", Unit: "kg", Quantity: 2, UnitPrice: 200, Room: "A"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(got[0].SourceLocations) != 1 || got[0].Quantity != 3 {
			t.Errorf("got %+v", got[0])
		}
	})
}

func TestConsolidateMaterials_ShuffleInvariant(t *testing.T) {
	base := []model.MaterialUsage{
		{Name: "Cement", Category: "superstructure", Unit: "bags", Quantity: 0.1, UnitPrice: 750, Room: "A"},
		{Name: "Cement", Category: "superstructure", Unit: "bags", Quantity: 0.2, UnitPrice: 750, Room: "B"},
		{Name: "Cement", Category: "superstructure", Unit: "bags", Quantity: 0.3, UnitPrice: 750, Room: "C"},
		{Name: "Sand", Category: "superstructure", Unit: "m³", Quantity: 1.7, UnitPrice: 2500, Room: "B"},
		{Name: "Tiles", Category: "finishes", Unit: "m²", Quantity: 12.35, UnitPrice: 1400, Room: "A"},
		{Name: "Tiles", Category: "finishes", Unit: "m²", Quantity: 8.65, UnitPrice: 1400, Room: "D"},
		{Name: "Ballast", Category: "substructure", Unit: "m³", Quantity: 3, UnitPrice: 1800, Room: "C"},
	}
	want, err := ConsolidateMaterials(base)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]model.MaterialUsage(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := ConsolidateMaterials(shuffled)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for j := range want {
			if got[j].Name != want[j].Name || got[j].Quantity != want[j].Quantity || got[j].TotalPrice != want[j].TotalPrice {
				t.Fatalf("shuffle %d: material %d = %+v, want %+v", i, j, got[j], want[j])
			}
			if !sameSet(got[j].SourceLocations, want[j].SourceLocations) {
				t.Fatalf("shuffle %d: locations %v, want %v", i, got[j].SourceLocations, want[j].SourceLocations)
			}
		}
	}
}

func sameSet(a, b []string) bool {
	a = append([]string(nil), a...)
	b = append([]string(nil), b...)
	sort.Strings(a)
	sort.Strings(b)
	return reflect.DeepEqual(a, b)
}

func TestCollectUsages(t *testing.T) {
	q := model.Quote{
		Rooms: []model.Room{
			{Name: "Kitchen", RoomArea: 30, Blocks: 100, BlockCost: 5000, CementBags: 4, CementCost: 3000,
				Materials: []model.MaterialUsage{{Name: "Tiles", Category: "finishes", Unit: "m²", Quantity: 10}}},
			{Name: "Void", RoomArea: 2, Openings: 2, Blocks: 10, BlockCost: 500},
		},
		Materials: []model.Material{{Name: "Tiles", Category: "finishes", Unit: "m²", UnitPrice: 1200}},
	}

	got := CollectUsages(q)
	if len(got) != 3 {
		t.Fatalf("expected 3 usages (degenerate room skipped), got %d: %+v", len(got), got)
	}
	if got[0].Name != defaultBlockName || got[0].UnitPrice != 50 {
		t.Errorf("blocks usage = %+v", got[0])
	}
	tiles := got[2]
	if tiles.UnitPrice != 1200 || !tiles.Matched() || tiles.Room != "Kitchen" {
		t.Errorf("tiles usage = %+v, matched=%v", tiles, tiles.Matched())
	}
}

func TestMaterialSchedule_KeepsUnreferencedQuoteMaterials(t *testing.T) {
	q := sampleQuote()
	schedule, err := MaterialSchedule(q)
	if err != nil {
		t.Fatal(err)
	}
	var cement, roofing *model.Material
	for i := range schedule {
		switch schedule[i].Name {
		case "Cement":
			cement = &schedule[i]
		case "Roofing Sheets":
			roofing = &schedule[i]
		}
	}
	if cement == nil || cement.Quantity != 16 {
		t.Fatalf("cement = %+v, want quantity 16", cement)
	}
	if !reflect.DeepEqual(cement.SourceLocations, []string{"Living Room", "Bedroom"}) {
		t.Errorf("cement locations = %v", cement.SourceLocations)
	}
	if roofing == nil || roofing.TotalPrice != 38000 {
		t.Errorf("roofing = %+v, want total 38000", roofing)
	}
}
