package collections

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"quotebuilder/model"
)

// QuotesCollection holds one record per quote.
const QuotesCollection = "quotes"

const (
	FieldOwner      = "user_id"
	FieldTotal      = "total_amount"
	FieldExtensions = "extensions"
)

var textFields = []string{
	"client_name", "client_email", "location", "house_type", "project_type",
	"region", "custom_specs", "contract_type", "status",
}

var numberFields = []string{
	"distance_km",
	"materials_cost", "labor_cost", "additional_services_cost", "transport_costs",
	"equipment_cost", "permit_cost", "overhead_amount", "contingency_amount",
	"profit_amount", FieldTotal,
}

var jsonFields = []string{
	"rooms", "materials", "labor", "addons", "equipment",
	"structures", "allowances", "preliminaries",
}

// QuoteFromRecord maps a quotes record onto a model.Quote.
func QuoteFromRecord(r *core.Record) (model.Quote, error) {
	q := model.Quote{
		ID:           r.Id,
		OwnerID:      r.GetString(FieldOwner),
		Title:        r.GetString("title"),
		ClientName:   r.GetString("client_name"),
		ClientEmail:  r.GetString("client_email"),
		Location:     r.GetString("location"),
		HouseType:    r.GetString("house_type"),
		ProjectType:  r.GetString("project_type"),
		Region:       r.GetString("region"),
		CustomSpecs:  r.GetString("custom_specs"),
		ContractType: r.GetString("contract_type"),
		Status:       r.GetString("status"),
		DistanceKM:   r.GetFloat("distance_km"),

		MaterialsCost:          r.GetFloat("materials_cost"),
		LaborCost:              r.GetFloat("labor_cost"),
		AdditionalServicesCost: r.GetFloat("additional_services_cost"),
		TransportCosts:         r.GetFloat("transport_costs"),
		EquipmentCost:          r.GetFloat("equipment_cost"),
		PermitCost:             r.GetFloat("permit_cost"),
		OverheadAmount:         r.GetFloat("overhead_amount"),
		ContingencyAmount:      r.GetFloat("contingency_amount"),
		ProfitAmount:           r.GetFloat("profit_amount"),
		TotalAmount:            r.GetFloat(FieldTotal),

		CreatedAt: r.GetDateTime("created").Time(),
		UpdatedAt: r.GetDateTime("updated").Time(),
	}

	targets := map[string]any{
		"rooms":         &q.Rooms,
		"materials":     &q.Materials,
		"labor":         &q.Labor,
		"addons":        &q.Addons,
		"equipment":     &q.Equipment,
		"structures":    &q.Structures,
		"allowances":    &q.Allowances,
		"preliminaries": &q.Preliminaries,
		FieldExtensions: &q.Extensions,
	}
	for name, dst := range targets {
		if err := decodeJSONField(r, name, dst); err != nil {
			return model.Quote{}, fmt.Errorf("quote %s: %w", r.Id, err)
		}
	}
	return q, nil
}

// ApplyQuote copies every persisted field of q onto r. The record id and
// autodate fields are left alone.
func ApplyQuote(r *core.Record, q model.Quote) error {
	r.Set(FieldOwner, q.OwnerID)
	r.Set("title", q.Title)
	r.Set("client_name", q.ClientName)
	r.Set("client_email", q.ClientEmail)
	r.Set("location", q.Location)
	r.Set("house_type", q.HouseType)
	r.Set("project_type", q.ProjectType)
	r.Set("region", q.Region)
	r.Set("custom_specs", q.CustomSpecs)
	r.Set("contract_type", q.ContractType)
	r.Set("status", q.Status)
	r.Set("distance_km", q.DistanceKM)

	r.Set("materials_cost", q.MaterialsCost)
	r.Set("labor_cost", q.LaborCost)
	r.Set("additional_services_cost", q.AdditionalServicesCost)
	r.Set("transport_costs", q.TransportCosts)
	r.Set("equipment_cost", q.EquipmentCost)
	r.Set("permit_cost", q.PermitCost)
	r.Set("overhead_amount", q.OverheadAmount)
	r.Set("contingency_amount", q.ContingencyAmount)
	r.Set("profit_amount", q.ProfitAmount)
	r.Set(FieldTotal, q.TotalAmount)

	values := map[string]any{
		"rooms":         q.Rooms,
		"materials":     q.Materials,
		"labor":         q.Labor,
		"addons":        q.Addons,
		"equipment":     q.Equipment,
		"structures":    q.Structures,
		"allowances":    q.Allowances,
		"preliminaries": q.Preliminaries,
		FieldExtensions: q.Extensions,
	}
	for name, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		r.Set(name, types.JSONRaw(b))
	}
	return nil
}

func decodeJSONField(r *core.Record, name string, dst any) error {
	raw := r.GetString(name)
	if raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
