package model

import "strings"

// Category is the construction category an item belongs to.
type Category string

const (
	CategoryPreliminaries  Category = "preliminaries"
	CategoryEarthworks     Category = "earthworks"
	CategorySubstructure   Category = "substructure"
	CategorySuperstructure Category = "superstructure"
	CategoryRoofing        Category = "roofing"
	CategoryFinishes       Category = "finishes"
	CategoryServices       Category = "services"
	CategoryExternal       Category = "external"
	CategorySpecial        Category = "special"
)

// Categories lists the measured-work taxonomy in canonical BOQ order.
var Categories = []Category{
	CategoryEarthworks,
	CategorySubstructure,
	CategorySuperstructure,
	CategoryRoofing,
	CategoryFinishes,
	CategoryServices,
	CategoryExternal,
	CategorySpecial,
}

var categoryTitles = map[Category]string{
	CategoryPreliminaries:  "PRELIMINARIES AND GENERAL ITEMS",
	CategoryEarthworks:     "EARTHWORKS",
	CategorySubstructure:   "SUBSTRUCTURE WORKS",
	CategorySuperstructure: "SUPERSTRUCTURE WORKS",
	CategoryRoofing:        "ROOFING",
	CategoryFinishes:       "FINISHES",
	CategoryServices:       "SERVICES INSTALLATIONS",
	CategoryExternal:       "EXTERNAL WORKS",
	CategorySpecial:        "SPECIAL WORKS",
}

// ParseCategory maps free text onto the taxonomy. Unknown values fall into
// CategorySpecial.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == CategoryPreliminaries || c.Valid() {
		return c
	}
	return CategorySpecial
}

// Valid reports whether c is one of the measured-work categories.
func (c Category) Valid() bool {
	return c.Rank() < len(Categories)
}

// Rank is the position of c in Categories, or len(Categories) when c is not
// a measured-work category.
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

// Title is the default section heading for c.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return strings.ToUpper(string(c))
}
