package services

import (
	"strings"

	"quotebuilder/model"
)

// Template carries the project-type specific wording of a BOQ.
type Template struct {
	Name string
	// Boilerplate lines open the preliminaries bill as description-only items.
	Boilerplate      []string
	SectionTitles    map[model.Category]string
	PrimeCostTitle   string
	ProvisionalTitle string
}

// Title returns the bill title used for category c.
func (t Template) Title(c model.Category) string {
	if s, ok := t.SectionTitles[c]; ok && s != "" {
		return s
	}
	return c.Title()
}

var commonBoilerplate = []string{
	"Project particulars",
	"The contractor shall visit the site and acquaint themselves with all existing conditions",
	"Rates shall include for all labour, materials, plant and overheads",
}

var templates = map[string]Template{
	"residential": {
		Name:        "residential",
		Boilerplate: commonBoilerplate,
		SectionTitles: map[model.Category]string{
			model.CategorySuperstructure: "WALLING AND SUPERSTRUCTURE",
		},
	},
	"commercial": {
		Name: "commercial",
		Boilerplate: append(append([]string(nil), commonBoilerplate...),
			"Contractor to maintain public liability insurance for the contract period",
		),
		SectionTitles: map[model.Category]string{
			model.CategoryServices: "MECHANICAL AND ELECTRICAL SERVICES",
		},
	},
	"institutional": {
		Name: "institutional",
		Boilerplate: append(append([]string(nil), commonBoilerplate...),
			"Works to be executed while the premises remain in use",
		),
		SectionTitles: map[model.Category]string{
			model.CategorySpecial: "SPECIALIST INSTALLATIONS",
		},
	},
	"default": {
		Name:        "default",
		Boilerplate: commonBoilerplate,
	},
}

// TemplateFor returns the template for a project type, falling back to the
// default template for unknown or empty types.
func TemplateFor(projectType string) Template {
	t, ok := templates[strings.ToLower(strings.TrimSpace(projectType))]
	if !ok {
		t = templates["default"]
	}
	if t.PrimeCostTitle == "" {
		t.PrimeCostTitle = "PRIME COST SUMS"
	}
	if t.ProvisionalTitle == "" {
		t.ProvisionalTitle = "PROVISIONAL SUMS"
	}
	return t
}
