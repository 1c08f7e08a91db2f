// Package services turns quotes into priced bills of quantities and renders
// them for clients and contractors.
package services

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"quotebuilder/model"
)

// CalcSectionSummary sums the amounts of the costed items of a section.
// Headers and unpriced provisions are never counted.
func CalcSectionSummary(items []model.BOQItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		if it.IsHeader || it.Placeholder() {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(it.Amount))
	}
	return sum.InexactFloat64()
}

// CalcGrandTotal sums section summaries.
func CalcGrandTotal(summaries model.SectionSummaries) float64 {
	sum := decimal.Zero
	for _, s := range summaries {
		sum = sum.Add(decimal.NewFromFloat(s.Amount))
	}
	return sum.InexactFloat64()
}

// Rollup validates the document and recomputes every section summary and
// the grand total from the items. On error the document is left untouched.
func Rollup(doc *model.BOQDocument) error {
	if err := validateItems(doc); err != nil {
		return err
	}

	sections := doc.Sections()
	totals := make([]float64, len(sections))
	summaries := make(model.SectionSummaries, 0, len(sections))
	for i, s := range sections {
		totals[i] = CalcSectionSummary(s.Items)
		summaries = append(summaries, model.SectionSummary{Title: s.Title, Amount: totals[i]})
	}

	for i, s := range sections {
		v := totals[i]
		s.Summary = &v
	}
	doc.Summaries = model.Summaries{
		SectionSummaries: summaries,
		GrandTotal:       CalcGrandTotal(summaries),
	}
	return nil
}

func validateItems(doc *model.BOQDocument) error {
	titles := make(map[string]bool)
	for _, s := range doc.Sections() {
		if titles[s.Title] {
			return invalid(ErrDuplicateSection, "title", fmt.Sprintf("duplicate section title %q", s.Title))
		}
		titles[s.Title] = true

		for _, it := range s.Items {
			field := s.Title
			if it.ItemNo != "" {
				field = s.Title + " " + it.ItemNo
			}
			if it.IsHeader {
				if it.Amount != 0 {
					return invalid(ErrHeaderAmount, field, fmt.Sprintf("header %q has amount %v", it.Description, it.Amount))
				}
				continue
			}
			if math.Abs(it.Amount-it.Quantity*it.Rate) > model.PriceTolerance {
				return invalid(ErrAmountMismatch, field,
					fmt.Sprintf("%q amount %v != %v × %v", it.Description, it.Amount, it.Quantity, it.Rate))
			}
		}
	}
	return nil
}

// CheckReconciliation verifies that a totaled document is internally
// consistent: item amounts, section summaries and the grand total.
func CheckReconciliation(doc *model.BOQDocument) error {
	if err := validateItems(doc); err != nil {
		return err
	}
	sections := doc.Sections()
	if len(doc.Summaries.SectionSummaries) != len(sections) {
		return invalid(ErrMissingSummary, "summaries",
			fmt.Sprintf("%d summaries for %d sections", len(doc.Summaries.SectionSummaries), len(sections)))
	}
	for i, s := range sections {
		want := CalcSectionSummary(s.Items)
		if s.Summary == nil || *s.Summary != want {
			return invalid(ErrMissingSummary, s.Title, fmt.Sprintf("summary does not equal item total %v", want))
		}
		entry := doc.Summaries.SectionSummaries[i]
		if entry.Title != s.Title || entry.Amount != want {
			return invalid(ErrMissingSummary, s.Title, "section summaries out of order or stale")
		}
	}
	if doc.Summaries.GrandTotal != CalcGrandTotal(doc.Summaries.SectionSummaries) {
		return invalid(ErrMissingSummary, "grandTotal", "grand total does not equal the sum of sections")
	}
	return nil
}

// Prepare recomputes the quote and assembles its BOQ with the template of
// its project type. It fails when the rooms disagree on a material price.
func Prepare(q model.Quote) (model.Quote, *model.BOQDocument, error) {
	q = q.Clone()
	q.Recompute()
	if _, err := MaterialSchedule(q); err != nil {
		return model.Quote{}, nil, err
	}
	doc, err := Assemble(q, TemplateFor(q.ProjectType))
	if err != nil {
		return model.Quote{}, nil, err
	}
	return q, doc, nil
}
