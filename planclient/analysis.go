package planclient

import (
	"strconv"
	"strings"

	"quotebuilder/model"
)

// Analysis is the plan reading returned by the service.
type Analysis struct {
	Floors      model.Number   `json:"floors,omitempty"`
	ProjectType string         `json:"projectType,omitempty"`
	HouseType   string         `json:"houseType,omitempty"`
	Detected    []AnalyzedRoom `json:"rooms"`
}

// AnalyzedRoom is one room as read from the plan. Numbers may arrive as
// strings.
type AnalyzedRoom struct {
	RoomType    string             `json:"roomType,omitempty"`
	Name        string             `json:"room_name,omitempty"`
	Length      model.Number       `json:"length"`
	Width       model.Number       `json:"width"`
	Height      model.Number       `json:"height"`
	Thickness   model.Number       `json:"thickness"`
	BlockType   string             `json:"blockType,omitempty"`
	Plaster     string             `json:"plaster,omitempty"`
	CustomBlock *model.CustomBlock `json:"customBlock,omitempty"`
	Doors       []AnalyzedOpening  `json:"doors,omitempty"`
	Windows     []AnalyzedOpening  `json:"windows,omitempty"`
}

type AnalyzedOpening struct {
	Type         string       `json:"type,omitempty"`
	SizeType     string       `json:"sizeType,omitempty"`
	StandardSize string       `json:"standardSize,omitempty"`
	Count        model.Number `json:"count"`
	Price        model.Number `json:"price,omitempty"`
	Custom       struct {
		Price model.Number `json:"price"`
	} `json:"custom"`
	Frame struct {
		Type string `json:"type"`
	} `json:"frame"`
}

// Rooms converts the analysis to quote rooms. Rooms without a height get
// defaultHeight. Opening counts default to one.
func (a *Analysis) Rooms(defaultHeight float64) []model.Room {
	rooms := make([]model.Room, 0, len(a.Detected))
	for i, ar := range a.Detected {
		room := model.Room{
			Name:      roomName(ar, i),
			Length:    ar.Length,
			Width:     ar.Width,
			Height:    ar.Height,
			Thickness: ar.Thickness,
			BlockType: ar.BlockType,
			Plaster:   ar.Plaster,
		}
		if room.Height <= 0 {
			room.Height = model.Number(defaultHeight)
		}
		if strings.EqualFold(ar.BlockType, model.BlockTypeCustom) && ar.CustomBlock != nil {
			room.SetCustomBlock(*ar.CustomBlock)
		}
		for _, d := range ar.Doors {
			room.Doors = append(room.Doors, d.opening(d.Type, ""))
		}
		for _, w := range ar.Windows {
			// Windows report the glazing as type and the frame separately.
			room.Windows = append(room.Windows, w.opening(w.Frame.Type, w.Type))
		}
		rooms = append(rooms, room)
	}
	return rooms
}

func (o AnalyzedOpening) opening(kind, glass string) model.Opening {
	count := o.Count
	if count <= 0 {
		count = 1
	}
	price := o.Price
	if strings.EqualFold(o.SizeType, "custom") && o.Custom.Price > 0 {
		price = o.Custom.Price
	}
	return model.Opening{
		Type:         kind,
		Glass:        glass,
		StandardSize: o.StandardSize,
		Count:        count,
		Price:        price,
	}
}

func roomName(ar AnalyzedRoom, i int) string {
	switch {
	case strings.TrimSpace(ar.Name) != "":
		return strings.TrimSpace(ar.Name)
	case strings.TrimSpace(ar.RoomType) != "":
		return strings.TrimSpace(ar.RoomType)
	}
	return "Room " + strconv.Itoa(i+1)
}
