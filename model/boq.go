package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BOQItem is one line of a BOQ section. Header items are grouping labels
// and carry no quantity, rate or amount.
type BOQItem struct {
	ItemNo            string              `json:"itemNo"`
	Description       string              `json:"description"`
	Unit              string              `json:"unit"`
	Quantity          float64             `json:"quantity"`
	Rate              float64             `json:"rate"`
	Amount            float64             `json:"amount"`
	Category          Category            `json:"category"`
	Element           string              `json:"element"`
	CalculatedFrom    string              `json:"calculatedFrom,omitempty"`
	IsHeader          bool                `json:"isHeader"`
	IsProvision       bool                `json:"isProvision,omitempty"`
	IsExisting        bool                `json:"isExisting,omitempty"`
	WasMatched        bool                `json:"wasMatched,omitempty"`
	MaterialType      string              `json:"materialType,omitempty"`
	MaterialBreakdown []MaterialBreakdown `json:"materialBreakdown,omitempty"`
	SourceLocation    string              `json:"sourceLocation,omitempty"`
	WorkType          string              `json:"workType,omitempty"`
}

// NewItem builds a costed item with amount = quantity × rate.
func NewItem(description, unit string, quantity, rate float64, category Category, element string) BOQItem {
	return BOQItem{
		Description: description,
		Unit:        unit,
		Quantity:    quantity,
		Rate:        rate,
		Amount:      quantity * rate,
		Category:    category,
		Element:     element,
	}
}

// NewHeader builds a description-only grouping item.
func NewHeader(description string, category Category) BOQItem {
	return BOQItem{
		Description: description,
		Category:    category,
		Element:     "Header",
		IsHeader:    true,
	}
}

// Placeholder reports whether the item is an allowance still waiting for
// a figure.
func (i BOQItem) Placeholder() bool {
	return i.IsProvision && i.Quantity == 0 && i.Rate == 0
}

// ItemNumber formats an item number as PREFIX-001.
func ItemNumber(prefix string, index int) string {
	return fmt.Sprintf("%s-%03d", prefix, index)
}

// BOQSection is a titled group of items.
type BOQSection struct {
	Title    string    `json:"title"`
	Category Category  `json:"category,omitempty"`
	Items    []BOQItem `json:"items"`
	Summary  *float64  `json:"summary,omitempty"`
}

// Total returns the section summary, or zero before rollup.
func (s BOQSection) Total() float64 {
	if s.Summary == nil {
		return 0
	}
	return *s.Summary
}

// PrelimItem is a lump-sum preliminaries line.
type PrelimItem struct {
	ItemNo      string  `json:"itemNo"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	IsHeader    bool    `json:"isHeader,omitempty"`
}

type PrelimSection struct {
	Title string       `json:"title"`
	Items []PrelimItem `json:"items"`
}

// SectionSummary is the rolled-up amount of one section.
type SectionSummary struct {
	Title  string
	Amount float64
}

// SectionSummaries keeps summaries in display order. It encodes as a JSON
// object whose keys follow that order.
type SectionSummaries []SectionSummary

// Get returns the amount for title.
func (s SectionSummaries) Get(title string) (float64, bool) {
	for _, e := range s {
		if e.Title == title {
			return e.Amount, true
		}
	}
	return 0, false
}

func (s SectionSummaries) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, e := range s {
		m[e.Title] = e.Amount
	}
	return m
}

func (s SectionSummaries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Title)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Amount)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *SectionSummaries) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("section summaries: expected object, got %v", tok)
	}
	var out SectionSummaries
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("section summaries: unexpected key %v", keyTok)
		}
		var amount float64
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("section summaries %q: %w", key, err)
		}
		out = append(out, SectionSummary{Title: key, Amount: amount})
	}
	*s = out
	return nil
}

type Summaries struct {
	SectionSummaries SectionSummaries `json:"sectionSummaries"`
	GrandTotal       float64          `json:"grandTotal"`
}

// BOQDocument is the assembled bill. It is derived from a quote on demand.
type BOQDocument struct {
	Preliminaries   []BOQSection `json:"preliminaries"`
	MeasuredWorks   []BOQSection `json:"measuredWorks"`
	PrimeCostSums   []BOQSection `json:"primeCostSums"`
	ProvisionalSums []BOQSection `json:"provisionalSums"`
	Summaries       Summaries    `json:"summaries"`
}

// Sections returns pointers to every section in display order:
// preliminaries, measured works, prime cost sums, provisional sums.
func (d *BOQDocument) Sections() []*BOQSection {
	var out []*BOQSection
	for _, group := range []*[]BOQSection{&d.Preliminaries, &d.MeasuredWorks, &d.PrimeCostSums, &d.ProvisionalSums} {
		for i := range *group {
			out = append(out, &(*group)[i])
		}
	}
	return out
}

// Clone deep-copies the document.
func (d *BOQDocument) Clone() *BOQDocument {
	c := &BOQDocument{
		Preliminaries:   cloneSections(d.Preliminaries),
		MeasuredWorks:   cloneSections(d.MeasuredWorks),
		PrimeCostSums:   cloneSections(d.PrimeCostSums),
		ProvisionalSums: cloneSections(d.ProvisionalSums),
		Summaries: Summaries{
			SectionSummaries: append(SectionSummaries(nil), d.Summaries.SectionSummaries...),
			GrandTotal:       d.Summaries.GrandTotal,
		},
	}
	return c
}

func cloneSections(in []BOQSection) []BOQSection {
	if in == nil {
		return nil
	}
	out := make([]BOQSection, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Items = append([]BOQItem(nil), s.Items...)
		if s.Summary != nil {
			v := *s.Summary
			out[i].Summary = &v
		}
	}
	return out
}
