package model

import (
	"encoding/json"
	"time"
)

// Common workflow tags. Status is free-form; any string is accepted.
const (
	StatusDraft     = "draft"
	StatusPlanning  = "planning"
	StatusStarted   = "started"
	StatusSent      = "sent"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Quote is one construction estimate, the system of record for a BOQ.
type Quote struct {
	ID           string  `json:"id,omitempty"`
	OwnerID      string  `json:"user_id,omitempty"`
	Title        string  `json:"title"`
	ClientName   string  `json:"client_name"`
	ClientEmail  string  `json:"client_email,omitempty"`
	Location     string  `json:"location"`
	HouseType    string  `json:"house_type,omitempty"`
	ProjectType  string  `json:"project_type,omitempty"`
	Region       string  `json:"region,omitempty"`
	CustomSpecs  string  `json:"custom_specs,omitempty"`
	ContractType string  `json:"contract_type,omitempty"`
	Status       string  `json:"status,omitempty"`
	DistanceKM   float64 `json:"distance_km,omitempty"`

	Rooms []Room `json:"rooms"`

	MaterialsCost          float64 `json:"materials_cost"`
	LaborCost              float64 `json:"labor_cost"`
	AdditionalServicesCost float64 `json:"additional_services_cost"`
	TransportCosts         float64 `json:"transport_costs"`
	EquipmentCost          float64 `json:"equipment_cost"`
	PermitCost             float64 `json:"permit_cost"`
	OverheadAmount         float64 `json:"overhead_amount"`
	ContingencyAmount      float64 `json:"contingency_amount"`
	ProfitAmount           float64 `json:"profit_amount"`
	TotalAmount            float64 `json:"total_amount"`

	Materials     []Material      `json:"materials"`
	Labor         []Labor         `json:"labor"`
	Addons        []Addon         `json:"addons"`
	Equipment     []Equipment     `json:"equipment"`
	Structures    []Structure     `json:"structures,omitempty"`
	Allowances    []Allowance     `json:"allowances,omitempty"`
	Preliminaries []PrelimSection `json:"preliminaries,omitempty"`

	Extensions Extensions `json:"-"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// SumParts returns the sum of the nine cost components.
func (q Quote) SumParts() float64 {
	return q.MaterialsCost + q.LaborCost + q.AdditionalServicesCost + q.TransportCosts +
		q.EquipmentCost + q.PermitCost + q.OverheadAmount + q.ContingencyAmount + q.ProfitAmount
}

// Recompute normalizes rooms and line lists and re-derives the cost
// components from their lists when the lists are non-empty. TotalAmount
// is always the sum of the components; a stored total is never kept.
func (q *Quote) Recompute() {
	for i := range q.Rooms {
		q.Rooms[i].Normalize()
	}
	for i := range q.Equipment {
		q.Equipment[i].Normalize()
	}
	for i := range q.Materials {
		m := &q.Materials[i]
		m.TotalPrice = m.Quantity * m.UnitPrice
	}

	if len(q.Materials) > 0 {
		q.MaterialsCost = 0
		for _, m := range q.Materials {
			q.MaterialsCost += m.TotalPrice
		}
	}
	if len(q.Labor) > 0 {
		q.LaborCost = 0
		for _, l := range q.Labor {
			q.LaborCost += l.Cost
		}
	}
	if len(q.Addons) > 0 {
		q.AdditionalServicesCost = 0
		for _, a := range q.Addons {
			q.AdditionalServicesCost += a.Price
		}
	}
	if len(q.Equipment) > 0 {
		q.EquipmentCost = 0
		for _, e := range q.Equipment {
			q.EquipmentCost += e.TotalCost
		}
	}
	q.TotalAmount = q.SumParts()
}

// Clone returns a deep copy.
func (q Quote) Clone() Quote {
	c := q
	if q.Rooms != nil {
		c.Rooms = make([]Room, len(q.Rooms))
		for i, r := range q.Rooms {
			c.Rooms[i] = r.clone()
		}
	}
	if q.Materials != nil {
		c.Materials = make([]Material, len(q.Materials))
		for i, m := range q.Materials {
			m.SourceLocations = append([]string(nil), m.SourceLocations...)
			c.Materials[i] = m
		}
	}
	c.Labor = cloneSlice(q.Labor)
	c.Addons = cloneSlice(q.Addons)
	c.Equipment = cloneSlice(q.Equipment)
	c.Structures = cloneSlice(q.Structures)
	c.Allowances = cloneSlice(q.Allowances)
	if q.Preliminaries != nil {
		c.Preliminaries = make([]PrelimSection, len(q.Preliminaries))
		for i, p := range q.Preliminaries {
			p.Items = append([]PrelimItem(nil), p.Items...)
			c.Preliminaries[i] = p
		}
	}
	if q.Extensions != nil {
		c.Extensions = make(Extensions, len(q.Extensions))
		for k, v := range q.Extensions {
			if raw, ok := v.Raw(); ok {
				v.raw = append(json.RawMessage(nil), raw...)
			}
			c.Extensions[k] = v
		}
	}
	return c
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append([]T(nil), in...)
}

type quoteAlias Quote

func (q Quote) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(quoteAlias(q))
	if err != nil {
		return nil, err
	}
	if len(q.Extensions) == 0 {
		return b, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k, v := range q.Extensions {
		if IsQuoteField(k) {
			continue
		}
		raw, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

func (q *Quote) UnmarshalJSON(b []byte) error {
	var alias quoteAlias
	if err := json.Unmarshal(b, &alias); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*q = Quote(alias)
	for k, raw := range fields {
		if IsQuoteField(k) {
			continue
		}
		var v ExtensionValue
		if err := v.UnmarshalJSON(raw); err != nil {
			return err
		}
		if q.Extensions == nil {
			q.Extensions = Extensions{}
		}
		q.Extensions[k] = v
	}
	return nil
}
