package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"quotebuilder/model"
)

// Audience selects which projection of a quote is rendered.
type Audience string

const (
	AudienceClient     Audience = "client"
	AudienceContractor Audience = "contractor"
)

// ParseAudience accepts "client" or "contractor" in any case. An empty
// string selects the client view.
func ParseAudience(s string) (Audience, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AudienceClient):
		return AudienceClient, nil
	case string(AudienceContractor):
		return AudienceContractor, nil
	}
	return "", fmt.Errorf("unknown audience %q", s)
}

// Label is the capitalized audience used in file names.
func (a Audience) Label() string {
	if a == AudienceContractor {
		return "Contractor"
	}
	return "Client"
}

// Sheet names in workbook order.
const (
	SheetSummary   = "Summary"
	SheetBOQ       = "Bill of Quantities"
	SheetMaterials = "Materials Schedule"
	SheetEquipment = "Equipment"
	SheetServices  = "Services"
	SheetTransport = "Transport"
)

// Summary labels of the contractor-only financial rows.
const (
	LabelOverhead    = "Overhead"
	LabelContingency = "Contingency"
	LabelPermit      = "Permit Cost"
	LabelProfit      = "Profit Margin"
)

// Contractor-only grand totals. Next to the client's Total Amount either
// one gives away the summed margins.
const (
	LabelBOQTotal   = "BOQ Total"
	LabelGrandTotal = "GRAND TOTAL"
)

// Column describes one column of a sheet. Money columns format numeric
// cells as currency.
type Column struct {
	Title string
	Width float64
	Money bool
}

// Sheet is a named grid. Cells hold string, float64 or nil for blank.
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

type Workbook struct {
	Name     string
	Audience Audience
	Title    string
	Sheets   []Sheet
}

// FileName returns the workbook name with ext appended.
func (wb Workbook) FileName(ext string) string {
	return wb.Name + ext
}

// Sheet returns the sheet called name.
func (wb Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// QuoteFileName builds <Client|Contractor>_Quote_<title> with every run of
// whitespace in the title replaced by an underscore.
func QuoteFileName(audience Audience, title string) string {
	return audience.Label() + "_Quote_" + whitespaceRun.ReplaceAllString(title, "_")
}

// BuildWorkbook projects a totaled quote and BOQ for an audience. The
// client view keeps the summary and the bill only, with preliminaries
// collapsed to their section total.
func BuildWorkbook(q model.Quote, doc *model.BOQDocument, audience Audience, generated time.Time) (Workbook, error) {
	if audience != AudienceClient && audience != AudienceContractor {
		return Workbook{}, fmt.Errorf("build workbook: unknown audience %q", audience)
	}
	if err := CheckReconciliation(doc); err != nil {
		return Workbook{}, fmt.Errorf("build workbook: %w", err)
	}

	q = q.Clone()
	q.Recompute()

	wb := Workbook{
		Name:     QuoteFileName(audience, q.Title),
		Audience: audience,
		Title:    q.Title,
	}
	wb.Sheets = append(wb.Sheets, summarySheet(q, doc, audience, generated), boqSheet(doc, audience))

	if audience == AudienceContractor {
		schedule, err := MaterialSchedule(q)
		if err != nil {
			return Workbook{}, fmt.Errorf("build workbook: %w", err)
		}
		wb.Sheets = append(wb.Sheets,
			materialsSheet(schedule),
			equipmentSheet(q.Equipment),
			servicesSheet(q.Addons),
			transportSheet(q),
		)
	}
	return wb, nil
}

func summarySheet(q model.Quote, doc *model.BOQDocument, audience Audience, generated time.Time) Sheet {
	s := Sheet{
		Name:    SheetSummary,
		Columns: []Column{{Title: "Item", Width: 28}, {Title: "Value", Width: 40, Money: true}},
		Rows: [][]any{
			{"Project Title", q.Title},
			{"Client Name", q.ClientName},
			{"Location", q.Location},
			{"House Type", q.HouseType},
			{"Date Generated", generated.Format("2006-01-02")},
			{nil, nil},
		},
	}
	if audience == AudienceContractor {
		s.Rows = append(s.Rows,
			[]any{"Materials", q.MaterialsCost},
			[]any{"Labour", q.LaborCost},
			[]any{"Additional Services", q.AdditionalServicesCost},
			[]any{"Equipment", q.EquipmentCost},
			[]any{"Transport", q.TransportCosts},
			[]any{LabelPermit, q.PermitCost},
			[]any{LabelOverhead, q.OverheadAmount},
			[]any{LabelContingency, q.ContingencyAmount},
			[]any{LabelProfit, q.ProfitAmount},
			[]any{nil, nil},
			[]any{LabelBOQTotal, doc.Summaries.GrandTotal},
		)
	}
	s.Rows = append(s.Rows, []any{"Total Amount", q.TotalAmount})
	return s
}

func boqSheet(doc *model.BOQDocument, audience Audience) Sheet {
	s := Sheet{
		Name: SheetBOQ,
		Columns: []Column{
			{Title: "Section", Width: 30},
			{Title: "Item", Width: 10},
			{Title: "Description", Width: 48},
			{Title: "Unit", Width: 8},
			{Title: "Quantity", Width: 10},
			{Title: "Rate", Width: 16, Money: true},
			{Title: "Amount", Width: 18, Money: true},
			{Title: "Source", Width: 18},
		},
	}
	for _, sec := range doc.Sections() {
		s.Rows = append(s.Rows, []any{sec.Title, nil, nil, nil, nil, nil, nil, nil})

		if audience == AudienceClient && sec.Category == model.CategoryPreliminaries {
			total := sec.Total()
			s.Rows = append(s.Rows, []any{nil, model.ItemNumber(PrefixPreliminaries, 1),
				"Preliminaries and general items", unitSum, 1.0, total, total, nil})
		} else {
			for _, it := range sec.Items {
				if it.IsHeader {
					s.Rows = append(s.Rows, []any{nil, nil, it.Description, nil, nil, nil, nil, nil})
					continue
				}
				s.Rows = append(s.Rows, []any{nil, it.ItemNo, it.Description, it.Unit,
					it.Quantity, it.Rate, it.Amount, it.SourceLocation})
			}
		}
		s.Rows = append(s.Rows, []any{nil, nil, "Total carried to summary", nil, nil, nil, sec.Total(), nil})
	}
	if audience == AudienceContractor {
		s.Rows = append(s.Rows, []any{nil, nil, LabelGrandTotal, nil, nil, nil, doc.Summaries.GrandTotal, nil})
	}
	return s
}

func materialsSheet(schedule []model.Material) Sheet {
	s := Sheet{
		Name: SheetMaterials,
		Columns: []Column{
			{Title: "Material", Width: 30},
			{Title: "Category", Width: 16},
			{Title: "Unit", Width: 8},
			{Title: "Quantity", Width: 10},
			{Title: "Unit Price", Width: 16, Money: true},
			{Title: "Total Price", Width: 18, Money: true},
			{Title: "Locations", Width: 36},
		},
	}
	for _, m := range schedule {
		s.Rows = append(s.Rows, []any{m.Name, m.Category, m.Unit, m.Quantity, m.UnitPrice, m.TotalPrice,
			strings.Join(m.SourceLocations, ", ")})
	}
	return s
}

func equipmentSheet(equipment []model.Equipment) Sheet {
	s := Sheet{
		Name: SheetEquipment,
		Columns: []Column{
			{Title: "Equipment", Width: 28},
			{Title: "Description", Width: 36},
			{Title: "Usage Unit", Width: 12},
			{Title: "Quantity", Width: 10},
			{Title: "Rate", Width: 16, Money: true},
			{Title: "Total Cost", Width: 18, Money: true},
		},
	}
	for _, e := range equipment {
		s.Rows = append(s.Rows, []any{e.Name, e.Description, e.UsageUnit, e.UsageQuantity, e.RatePerUnit, e.TotalCost})
	}
	return s
}

func servicesSheet(addons []model.Addon) Sheet {
	s := Sheet{
		Name:    SheetServices,
		Columns: []Column{{Title: "Service", Width: 36}, {Title: "Price", Width: 18, Money: true}},
	}
	for _, a := range addons {
		s.Rows = append(s.Rows, []any{a.Name, a.Price})
	}
	return s
}

func transportSheet(q model.Quote) Sheet {
	return Sheet{
		Name:    SheetTransport,
		Columns: []Column{{Title: "Item", Width: 28}, {Title: "Value", Width: 18}},
		Rows: [][]any{
			{"Location", q.Location},
			{"Distance (km)", q.DistanceKM},
			{"Transport Cost", FormatKES(q.TransportCosts)},
		},
	}
}

var restrictedSheets = []string{SheetMaterials, SheetEquipment, SheetServices, SheetTransport}

var restrictedLabels = []string{LabelOverhead, LabelContingency, LabelPermit, LabelProfit, PermitDescription,
	LabelBOQTotal, LabelGrandTotal}

// CheckConfidential fails when a client workbook carries a contractor-only
// sheet, any of the margin and permit rows, or a BOQ grand total that could
// be set against the Total Amount.
func CheckConfidential(wb Workbook) error {
	if wb.Audience != AudienceClient {
		return nil
	}
	for _, s := range wb.Sheets {
		for _, name := range restrictedSheets {
			if s.Name == name {
				return invalid(ErrConfidentialLeak, "sheet", fmt.Sprintf("client workbook contains sheet %q", name))
			}
		}
		for _, row := range s.Rows {
			for _, cell := range row {
				text, ok := cell.(string)
				if !ok {
					continue
				}
				for _, label := range restrictedLabels {
					if strings.EqualFold(strings.TrimSpace(text), label) {
						return invalid(ErrConfidentialLeak, s.Name, fmt.Sprintf("client workbook contains %q", label))
					}
				}
			}
		}
	}
	return nil
}
