package model

import "math"

// PriceTolerance is the absolute tolerance used when checking that a stored
// amount equals quantity × rate.
const PriceTolerance = 1e-6

// UsageKind separates material takeoff lines from labor lines.
type UsageKind string

const (
	UsageMaterial UsageKind = "material"
	UsageLabor    UsageKind = "labor"
)

// Material is one entry of the consolidated materials schedule.
type Material struct {
	Name            string   `json:"name"`
	Category        string   `json:"category,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	Quantity        float64  `json:"quantity"`
	UnitPrice       float64  `json:"unit_price"`
	TotalPrice      float64  `json:"total_price"`
	ProfitMargin    float64  `json:"profit_margin,omitempty"`
	SourceLocations []string `json:"sourceLocations,omitempty"`
}

// Reconciled reports whether TotalPrice equals Quantity × UnitPrice.
func (m Material) Reconciled() bool {
	return math.Abs(m.TotalPrice-m.Quantity*m.UnitPrice) <= PriceTolerance
}

// MaterialUsage is one room's use of a material or labor element.
type MaterialUsage struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Unit      string    `json:"unit"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Room      string    `json:"room,omitempty"`
	Kind      UsageKind `json:"kind,omitempty"`

	// Breakdown optionally explains the constituent materials of the line.
	Breakdown []MaterialBreakdown `json:"breakdown,omitempty"`

	matched bool
}

func (u MaterialUsage) Amount() float64 {
	return u.Quantity * u.UnitPrice
}

// Matched reports whether the unit price was taken from the quote schedule.
func (u MaterialUsage) Matched() bool {
	return u.matched
}

// WithMatchedPrice returns a copy priced from the schedule.
func (u MaterialUsage) WithMatchedPrice(price float64) MaterialUsage {
	u.UnitPrice = price
	u.matched = true
	return u
}

// Labor is a labor cost line. Room is empty for project-wide labor.
type Labor struct {
	Type       string  `json:"type"`
	Category   string  `json:"category,omitempty"`
	Room       string  `json:"room,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
	Cost       float64 `json:"cost"`
}

// Addon is an additional service billed as a lump sum.
type Addon struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Equipment is plant hired for the project.
type Equipment struct {
	Name          string  `json:"name"`
	Description   string  `json:"desc,omitempty"`
	UsageUnit     string  `json:"usage_unit,omitempty"`
	UsageQuantity float64 `json:"usage_quantity,omitempty"`
	RatePerUnit   float64 `json:"rate_per_unit,omitempty"`
	TotalCost     float64 `json:"total_cost"`
}

// Normalize derives TotalCost from usage × rate when both are present.
func (e *Equipment) Normalize() {
	if e.UsageQuantity > 0 && e.RatePerUnit > 0 {
		e.TotalCost = e.UsageQuantity * e.RatePerUnit
	}
}

// AllowanceKind distinguishes prime cost sums from provisional sums.
type AllowanceKind string

const (
	AllowancePrimeCost   AllowanceKind = "prime_cost"
	AllowanceProvisional AllowanceKind = "provisional"
)

// Allowance is a budgeted sum for work not fully specified at estimate time.
// A lump-sum allowance sets Amount only; a measured one sets Quantity and
// Rate. An allowance with neither is a placeholder.
type Allowance struct {
	Description string        `json:"description"`
	Kind        AllowanceKind `json:"kind"`
	Category    string        `json:"category,omitempty"`
	Unit        string        `json:"unit,omitempty"`
	Quantity    float64       `json:"quantity,omitempty"`
	Rate        float64       `json:"rate,omitempty"`
	Amount      float64       `json:"amount,omitempty"`
}

// Measure returns the quantity, unit and rate the allowance is billed at.
func (a Allowance) Measure() (qty float64, unit string, rate float64) {
	switch {
	case a.Quantity != 0 || a.Rate != 0:
		unit = a.Unit
		if unit == "" {
			unit = "Item"
		}
		return a.Quantity, unit, a.Rate
	case a.Amount != 0:
		return 1, "Sum", a.Amount
	default:
		return 0, "Sum", 0
	}
}
