package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDetailsMismatch is returned when element details do not belong to the
// structure's element type.
var ErrDetailsMismatch = errors.New("element details do not match element type")

// ElementType identifies a concrete element.
type ElementType string

const (
	ElementSlab              ElementType = "slab"
	ElementBeam              ElementType = "beam"
	ElementColumn            ElementType = "column"
	ElementFoundation        ElementType = "foundation"
	ElementStripFooting      ElementType = "strip-footing"
	ElementRaftFoundation    ElementType = "raft-foundation"
	ElementPileCap           ElementType = "pile-cap"
	ElementSepticTank        ElementType = "septic-tank"
	ElementUndergroundTank   ElementType = "underground-tank"
	ElementWaterTank         ElementType = "water-tank"
	ElementStaircase         ElementType = "staircase"
	ElementRamp              ElementType = "ramp"
	ElementRetainingWall     ElementType = "retaining-wall"
	ElementCulvert           ElementType = "culvert"
	ElementSwimmingPool      ElementType = "swimming-pool"
	ElementPaving            ElementType = "paving"
	ElementKerb              ElementType = "kerb"
	ElementDrainageChannel   ElementType = "drainage-channel"
	ElementManhole           ElementType = "manhole"
	ElementInspectionChamber ElementType = "inspection-chamber"
)

// IsFoundation reports whether e is a foundation element.
func (e ElementType) IsFoundation() bool {
	switch e {
	case ElementFoundation, ElementStripFooting, ElementRaftFoundation, ElementPileCap:
		return true
	}
	return false
}

// IsTank reports whether e is a tank element.
func (e ElementType) IsTank() bool {
	switch e {
	case ElementSepticTank, ElementUndergroundTank, ElementWaterTank:
		return true
	}
	return false
}

// DefaultCategory is the BOQ category an element is billed under when the
// structure does not name one.
func (e ElementType) DefaultCategory() Category {
	switch {
	case e.IsFoundation():
		return CategorySubstructure
	case e.IsTank(), e == ElementSwimmingPool:
		return CategorySpecial
	}
	switch e {
	case ElementPaving, ElementKerb, ElementDrainageChannel, ElementManhole,
		ElementInspectionChamber, ElementCulvert, ElementRetainingWall:
		return CategoryExternal
	}
	return CategorySuperstructure
}

// ElementDetails is the element-specific part of a structure. The set of
// implementations is closed.
type ElementDetails interface {
	appliesTo(ElementType) bool
}

type StaircaseDetails struct {
	RiserHeight   Number `json:"riserHeight,omitempty"`
	TreadWidth    Number `json:"treadWidth,omitempty"`
	NumberOfSteps int    `json:"numberOfSteps,omitempty"`
	Landing       bool   `json:"landing,omitempty"`
}

func (StaircaseDetails) appliesTo(e ElementType) bool { return e == ElementStaircase }

type TankDetails struct {
	Capacity         Number `json:"capacity,omitempty"`
	WallThickness    Number `json:"wallThickness,omitempty"`
	CoverType        string `json:"coverType,omitempty"`
	NumberOfChambers int    `json:"numberOfChambers,omitempty"`
}

func (TankDetails) appliesTo(e ElementType) bool { return e.IsTank() }

type FoundationDetails struct {
	FoundationType  string `json:"foundationType,omitempty"`
	HasConcreteBed  bool   `json:"hasConcreteBed,omitempty"`
	BedDepth        Number `json:"bedDepth,omitempty"`
	HasAggregateBed bool   `json:"hasAggregateBed,omitempty"`
	AggregateDepth  Number `json:"aggregateDepth,omitempty"`
}

func (FoundationDetails) appliesTo(e ElementType) bool { return e.IsFoundation() }

// Structure is a concrete element whose volume has already been taken off.
type Structure struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Element  ElementType `json:"element"`
	Category string      `json:"category,omitempty"`
	Mix      string      `json:"mix,omitempty"`
	Unit     string      `json:"unit,omitempty"`
	Volume   float64     `json:"volume"`
	Rate     float64     `json:"rate"`

	details ElementDetails
}

// NewStructure builds a structure, rejecting details meant for another
// element type.
func NewStructure(name string, element ElementType, volume, rate float64, details ElementDetails) (Structure, error) {
	s := Structure{Name: name, Element: element, Volume: volume, Rate: rate}
	if err := s.SetDetails(details); err != nil {
		return Structure{}, err
	}
	return s, nil
}

func (s *Structure) SetDetails(d ElementDetails) error {
	if d != nil && !d.appliesTo(s.Element) {
		return fmt.Errorf("%w: %T on %q", ErrDetailsMismatch, d, s.Element)
	}
	s.details = d
	return nil
}

func (s Structure) Details() ElementDetails {
	return s.details
}

func (s Structure) Staircase() (StaircaseDetails, bool) {
	d, ok := s.details.(StaircaseDetails)
	return d, ok && s.Element == ElementStaircase
}

func (s Structure) Tank() (TankDetails, bool) {
	d, ok := s.details.(TankDetails)
	return d, ok && s.Element.IsTank()
}

func (s Structure) Foundation() (FoundationDetails, bool) {
	d, ok := s.details.(FoundationDetails)
	return d, ok && s.Element.IsFoundation()
}

// BOQCategory is the category the structure is billed under.
func (s Structure) BOQCategory() Category {
	if s.Category != "" {
		return ParseCategory(s.Category)
	}
	return s.Element.DefaultCategory()
}

type structureAlias Structure

func (s Structure) MarshalJSON() ([]byte, error) {
	aux := struct {
		structureAlias
		Details ElementDetails `json:"details,omitempty"`
	}{structureAlias: structureAlias(s), Details: s.details}
	return json.Marshal(aux)
}

func (s *Structure) UnmarshalJSON(b []byte) error {
	aux := struct {
		*structureAlias
		Details json.RawMessage `json:"details"`
	}{structureAlias: (*structureAlias)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.details = nil
	if len(aux.Details) == 0 || string(aux.Details) == "null" {
		return nil
	}

	var d ElementDetails
	switch {
	case s.Element == ElementStaircase:
		var v StaircaseDetails
		if err := json.Unmarshal(aux.Details, &v); err != nil {
			return fmt.Errorf("staircase details: %w", err)
		}
		d = v
	case s.Element.IsTank():
		var v TankDetails
		if err := json.Unmarshal(aux.Details, &v); err != nil {
			return fmt.Errorf("tank details: %w", err)
		}
		d = v
	case s.Element.IsFoundation():
		var v FoundationDetails
		if err := json.Unmarshal(aux.Details, &v); err != nil {
			return fmt.Errorf("foundation details: %w", err)
		}
		d = v
	default:
		return fmt.Errorf("%w: %q takes no details", ErrDetailsMismatch, s.Element)
	}
	s.details = d
	return nil
}
