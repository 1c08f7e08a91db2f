package services

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"quotebuilder/model"
)

func TestCalcSectionSummary(t *testing.T) {
	tests := []struct {
		name   string
		items  []model.BOQItem
		expect float64
	}{
		{"empty", nil, 0},
		{"headers ignored", []model.BOQItem{
			model.NewHeader("Kitchen", model.CategoryFinishes),
			model.NewItem("Tiles", "m²", 10, 1500, model.CategoryFinishes, "Material"),
		}, 15000},
		{"placeholder ignored", []model.BOQItem{
			{Description: "TBC", IsProvision: true},
			{Description: "Fittings", IsProvision: true, Quantity: 1, Rate: 500, Amount: 500},
		}, 500},
		{"decimal sums", []model.BOQItem{
			model.NewItem("a", "m", 1, 0.1, model.CategorySpecial, ""),
			model.NewItem("b", "m", 1, 0.2, model.CategorySpecial, ""),
		}, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalcSectionSummary(tt.items); got != tt.expect {
				t.Errorf("CalcSectionSummary() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestRollup_Reconciles(t *testing.T) {
	_, doc := prepared(t, sampleQuote())

	if err := CheckReconciliation(doc); err != nil {
		t.Fatalf("CheckReconciliation() = %v", err)
	}

	var sum float64
	for _, s := range doc.Sections() {
		var items float64
		for _, it := range s.Items {
			if it.IsHeader {
				continue
			}
			if !almostEqual(it.Amount, it.Quantity*it.Rate) {
				t.Errorf("%s: amount %v != %v × %v", it.ItemNo, it.Amount, it.Quantity, it.Rate)
			}
			items += it.Amount
		}
		if !almostEqual(s.Total(), items) {
			t.Errorf("%s: summary %v, items sum %v", s.Title, s.Total(), items)
		}
		sum += s.Total()
	}
	if !almostEqual(doc.Summaries.GrandTotal, sum) {
		t.Errorf("GrandTotal = %v, sections sum %v", doc.Summaries.GrandTotal, sum)
	}
	if len(doc.Summaries.SectionSummaries) != len(doc.Sections()) {
		t.Errorf("summaries = %d, sections = %d", len(doc.Summaries.SectionSummaries), len(doc.Sections()))
	}
}

func TestRollup_Idempotent(t *testing.T) {
	_, doc := prepared(t, sampleQuote())

	first, err := json.Marshal(doc.Summaries)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := Rollup(doc); err != nil {
			t.Fatalf("Rollup() = %v", err)
		}
	}
	again, err := json.Marshal(doc.Summaries)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(again) {
		t.Errorf("summaries changed:\n%s\n%s", first, again)
	}
}

func TestRollup_RandomDocuments(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 100; n++ {
		doc := &model.BOQDocument{}
		for s := 0; s < 1+rng.Intn(5); s++ {
			sec := model.BOQSection{Title: "Section " + string(rune('A'+s))}
			for i := 0; i < rng.Intn(12); i++ {
				if rng.Intn(4) == 0 {
					sec.Items = append(sec.Items, model.NewHeader("h", model.CategorySpecial))
					continue
				}
				qty := float64(rng.Intn(10000)) / 100
				rate := float64(rng.Intn(500000)) / 100
				sec.Items = append(sec.Items, model.NewItem("x", "m", qty, rate, model.CategorySpecial, ""))
			}
			doc.MeasuredWorks = append(doc.MeasuredWorks, sec)
		}
		if err := Rollup(doc); err != nil {
			t.Fatalf("Rollup() = %v", err)
		}
		if err := CheckReconciliation(doc); err != nil {
			t.Fatalf("doc %d: %v", n, err)
		}
	}
}

func TestRollup_ValidationLeavesDocumentUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		sections []model.BOQSection
		sentinel error
	}{
		{
			name: "amount mismatch",
			sections: []model.BOQSection{{Title: "A", Items: []model.BOQItem{
				{Description: "bad", Quantity: 2, Rate: 10, Amount: 21},
			}}},
			sentinel: ErrAmountMismatch,
		},
		{
			name: "header with amount",
			sections: []model.BOQSection{{Title: "A", Items: []model.BOQItem{
				{Description: "hdr", IsHeader: true, Amount: 5},
			}}},
			sentinel: ErrHeaderAmount,
		},
		{
			name:     "duplicate titles",
			sections: []model.BOQSection{{Title: "A"}, {Title: "A"}},
			sentinel: ErrDuplicateSection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &model.BOQDocument{MeasuredWorks: tt.sections}
			doc.Summaries.GrandTotal = -1

			err := Rollup(doc)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("err = %v, want %v", err, tt.sentinel)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
			if doc.Summaries.GrandTotal != -1 {
				t.Error("grand total modified on error")
			}
			for _, s := range doc.MeasuredWorks {
				if s.Summary != nil {
					t.Errorf("section %q summary set on error", s.Title)
				}
			}
		})
	}
}

func TestCheckReconciliation_DetectsStaleSummary(t *testing.T) {
	_, doc := prepared(t, sampleQuote())
	doc.MeasuredWorks[0].Items = append(doc.MeasuredWorks[0].Items,
		model.NewItem("late addition", "No", 1, 100, doc.MeasuredWorks[0].Category, ""))

	if err := CheckReconciliation(doc); !errors.Is(err, ErrMissingSummary) {
		t.Errorf("err = %v, want ErrMissingSummary", err)
	}
	if err := Rollup(doc); err != nil {
		t.Fatal(err)
	}
	if err := CheckReconciliation(doc); err != nil {
		t.Errorf("after rollup: %v", err)
	}
}
