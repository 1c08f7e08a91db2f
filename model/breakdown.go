package model

// RelationshipType is the kind of a directed edge between two materials.
type RelationshipType string

const (
	RelRequires RelationshipType = "requires"
	RelOptional RelationshipType = "optional"
	RelPrecedes RelationshipType = "precedes"
	RelFollows  RelationshipType = "follows"
)

// MaterialRelationship is a directed edge from the owning breakdown to
// another material. Several edges between the same pair are allowed as long
// as their types differ; cycles are legal.
type MaterialRelationship struct {
	Material    string           `json:"material"`
	Type        RelationshipType `json:"type"`
	Description string           `json:"description,omitempty"`
}

// MaterialBreakdown attributes material usage to one construction element.
type MaterialBreakdown struct {
	Material         string                 `json:"material"`
	Unit             string                 `json:"unit"`
	Ratio            float64                `json:"ratio"`
	Category         string                 `json:"category"`
	Quantity         float64                `json:"quantity"`
	Element          string                 `json:"element"`
	MaterialType     string                 `json:"materialType,omitempty"`
	Relationships    []MaterialRelationship `json:"relationships,omitempty"`
	Requirements     []string               `json:"requirements,omitempty"`
	PreparationSteps []string               `json:"preparationSteps,omitempty"`
	Variations       []string               `json:"variations,omitempty"`
}

// RelationshipIssue reports an ordering edge whose inverse is missing on
// the target material.
type RelationshipIssue struct {
	From    string
	To      string
	Type    RelationshipType
	Missing RelationshipType
}

// CheckRelationships looks for precedes/follows edges between declared
// materials that are not mirrored by the inverse edge. Edges pointing at
// materials outside the set are ignored. The result is advisory.
func CheckRelationships(breakdowns []MaterialBreakdown) []RelationshipIssue {
	edges := make(map[string]map[RelationshipType]map[string]bool, len(breakdowns))
	for _, b := range breakdowns {
		if edges[b.Material] == nil {
			edges[b.Material] = make(map[RelationshipType]map[string]bool)
		}
		for _, rel := range b.Relationships {
			if edges[b.Material][rel.Type] == nil {
				edges[b.Material][rel.Type] = make(map[string]bool)
			}
			edges[b.Material][rel.Type][rel.Material] = true
		}
	}

	inverse := map[RelationshipType]RelationshipType{
		RelPrecedes: RelFollows,
		RelFollows:  RelPrecedes,
	}

	var issues []RelationshipIssue
	seen := make(map[RelationshipIssue]bool)
	for _, b := range breakdowns {
		for _, rel := range b.Relationships {
			inv, ordered := inverse[rel.Type]
			if !ordered {
				continue
			}
			target, declared := edges[rel.Material]
			if !declared || target[inv][b.Material] {
				continue
			}
			issue := RelationshipIssue{From: b.Material, To: rel.Material, Type: rel.Type, Missing: inv}
			if !seen[issue] {
				seen[issue] = true
				issues = append(issues, issue)
			}
		}
	}
	return issues
}
