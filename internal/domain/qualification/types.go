// Package qualification parses free-text bidding qualification clauses into
// structured requirements and aggregates them per case.
package qualification

// Kind identifies the rule family that classified a qualification line.
type Kind string

// Qualification kinds, in rule precedence order.
const (
	KindNoQualificationRequired Kind = "no_qualification_required"
	KindUnified                 Kind = "unified_qualification"
	KindRegionalBureau          Kind = "regional_bureau_qualification"
	KindLocalGovernment         Kind = "local_government_qualification"
	KindMinistry                Kind = "ministry_qualification"
	KindIndustrySpecific        Kind = "industry_specific_qualification"
	KindUnknown                 Kind = "unknown_qualification"
)

// Kinds lists every kind in precedence order.
func Kinds() []Kind {
	return []Kind{
		KindNoQualificationRequired,
		KindUnified,
		KindRegionalBureau,
		KindLocalGovernment,
		KindMinistry,
		KindIndustrySpecific,
		KindUnknown,
	}
}

// Requirement is one parsed qualification clause.
type Requirement struct {
	Kind         Kind    `json:"type"`
	Organization *string `json:"organization"`
	Category     *string `json:"category"`
	CategoryCode *string `json:"category_normalized"`
	Level        *string `json:"level"`
	LevelCode    *string `json:"level_normalized"`
	RawText      string  `json:"raw_text"`
	LineNumber   int     `json:"line_number"`
	// Confidence is fixed by the rule that produced the requirement.
	Confidence float64 `json:"confidence"`
}

// Summary aggregates the requirements of one case.
type Summary struct {
	TotalRequirements          int           `json:"total_requirements"`
	HasNoQualificationRequired bool          `json:"has_no_qualification_required"`
	NoQualification            []Requirement `json:"no_qualification_requirements"`
	Unified                    []Requirement `json:"unified_qualifications"`
	Regional                   []Requirement `json:"regional_qualifications"`
	Local                      []Requirement `json:"local_qualifications"`
	Ministry                   []Requirement `json:"ministry_qualifications"`
	Industry                   []Requirement `json:"industry_qualifications"`
	Unknown                    []Requirement `json:"unknown_qualifications"`
	RequiredCategories         []string      `json:"required_categories"`
	RequiredLevels             []string      `json:"required_levels"`
	ConfidenceScore            float64       `json:"confidence_score"`
}

// Groups returns the kind-grouped lists keyed by kind.
func (s Summary) Groups() map[Kind][]Requirement {
	return map[Kind][]Requirement{
		KindNoQualificationRequired: s.NoQualification,
		KindUnified:                 s.Unified,
		KindRegionalBureau:          s.Regional,
		KindLocalGovernment:         s.Local,
		KindMinistry:                s.Ministry,
		KindIndustrySpecific:        s.Industry,
		KindUnknown:                 s.Unknown,
	}
}
