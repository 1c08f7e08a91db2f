package model

import (
	"encoding/json"
	"math"
)

// BlockTypeCustom marks a wall built from a user-specified block.
const BlockTypeCustom = "custom"

// Opening is a door or window schedule line within a room.
type Opening struct {
	Type         string `json:"type,omitempty"`
	Glass        string `json:"glass,omitempty"`
	StandardSize string `json:"standardSize,omitempty"`
	Count        Number `json:"count"`
	Price        Number `json:"price"`
}

// Cost is count × price.
func (o Opening) Cost() float64 {
	return o.Count.Float() * o.Price.Float()
}

// CustomBlock describes a block that is not in the standard catalogue.
type CustomBlock struct {
	Price     Number `json:"price"`
	Height    Number `json:"height"`
	Length    Number `json:"length"`
	Thickness Number `json:"thickness"`
}

// Room is one physical space of a quote. Dimensions are user input; the
// remaining numeric fields are produced by the upstream takeoff and filled
// in by Normalize where they are pure arithmetic over other fields.
type Room struct {
	Name      string    `json:"room_name"`
	Length    Number    `json:"length"`
	Width     Number    `json:"width"`
	Height    Number    `json:"height"`
	Doors     []Opening `json:"doors,omitempty"`
	Windows   []Opening `json:"windows,omitempty"`
	BlockType string    `json:"blockType,omitempty"`
	Thickness Number    `json:"thickness,omitempty"`
	Plaster   string    `json:"plaster,omitempty"`

	RoomArea    float64 `json:"roomArea"`
	PlasterArea float64 `json:"plasterArea"`
	Openings    float64 `json:"openings"`
	NetArea     float64 `json:"netArea"`
	Blocks      float64 `json:"blocks"`
	Mortar      float64 `json:"mortar"`
	CementBags  float64 `json:"cementBags"`
	CementCost  float64 `json:"cementCost"`
	SandVolume  float64 `json:"sandVolume"`
	SandCost    float64 `json:"sandCost"`
	StoneVolume float64 `json:"stoneVolume"`

	BlockCost    float64 `json:"blockCost"`
	MortarCost   float64 `json:"mortarCost"`
	PlasterCost  float64 `json:"plasterCost"`
	OpeningsCost float64 `json:"openingsCost"`
	TotalCost    float64 `json:"totalCost"`

	Materials []MaterialUsage `json:"materials,omitempty"`

	customBlock *CustomBlock
}

// CustomBlock returns the custom block dimensions. It is only available when the
// wall block type is BlockTypeCustom.
func (r Room) CustomBlock() (CustomBlock, bool) {
	if r.BlockType != BlockTypeCustom || r.customBlock == nil {
		return CustomBlock{}, false
	}
	return *r.customBlock, true
}

// SetCustomBlock switches the wall to a custom block.
func (r *Room) SetCustomBlock(cb CustomBlock) {
	r.BlockType = BlockTypeCustom
	r.customBlock = &cb
}

// Degenerate reports whether the room has no wall area left after openings.
func (r Room) Degenerate() bool {
	return r.NetArea <= 0
}

// Normalize fills the derived fields that are plain arithmetic: net area,
// openings cost when absent and the room total.
func (r *Room) Normalize() {
	r.NetArea = math.Max(r.RoomArea-r.Openings, 0)

	if r.OpeningsCost == 0 {
		for _, o := range r.Doors {
			r.OpeningsCost += o.Cost()
		}
		for _, o := range r.Windows {
			r.OpeningsCost += o.Cost()
		}
	}

	total := r.BlockCost + r.MortarCost + r.PlasterCost + r.OpeningsCost
	for _, m := range r.Materials {
		total += m.Amount()
	}
	r.TotalCost = total
}

func (r Room) clone() Room {
	c := r
	c.Doors = append([]Opening(nil), r.Doors...)
	c.Windows = append([]Opening(nil), r.Windows...)
	c.Materials = append([]MaterialUsage(nil), r.Materials...)
	if r.customBlock != nil {
		cb := *r.customBlock
		c.customBlock = &cb
	}
	return c
}

type roomAlias Room

func (r Room) MarshalJSON() ([]byte, error) {
	aux := struct {
		roomAlias
		CustomBlock *CustomBlock `json:"customBlock,omitempty"`
	}{roomAlias: roomAlias(r)}
	if cb, ok := r.CustomBlock(); ok {
		aux.CustomBlock = &cb
	}
	return json.Marshal(aux)
}

func (r *Room) UnmarshalJSON(b []byte) error {
	aux := struct {
		*roomAlias
		CustomBlock *CustomBlock `json:"customBlock"`
	}{roomAlias: (*roomAlias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.customBlock = nil
	if r.BlockType == BlockTypeCustom && aux.CustomBlock != nil {
		cb := *aux.CustomBlock
		r.customBlock = &cb
	}
	return nil
}
