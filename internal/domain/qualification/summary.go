package qualification

import (
	"math"

	"github.com/okian/nyusatsu/internal/domain/catalog"
)

const confidencePrecision = 100

// Summarize groups requirements by kind, collects the distinct category and
// level codes and averages the rule confidences in a single pass.
func Summarize(reqs []Requirement) Summary {
	s := Summary{
		TotalRequirements:  len(reqs),
		NoQualification:    []Requirement{},
		Unified:            []Requirement{},
		Regional:           []Requirement{},
		Local:              []Requirement{},
		Ministry:           []Requirement{},
		Industry:           []Requirement{},
		Unknown:            []Requirement{},
		RequiredCategories: []string{},
		RequiredLevels:     []string{},
	}
	if len(reqs) == 0 {
		return s
	}

	categories := newCodeSet(catalog.CategoryUnknown)
	levels := newCodeSet(catalog.LevelUnknown)
	var total float64

	for _, r := range reqs {
		switch r.Kind {
		case KindNoQualificationRequired:
			s.HasNoQualificationRequired = true
			s.NoQualification = append(s.NoQualification, r)
		case KindUnified:
			s.Unified = append(s.Unified, r)
		case KindRegionalBureau:
			s.Regional = append(s.Regional, r)
		case KindLocalGovernment:
			s.Local = append(s.Local, r)
		case KindMinistry:
			s.Ministry = append(s.Ministry, r)
		case KindIndustrySpecific:
			s.Industry = append(s.Industry, r)
		default:
			s.Unknown = append(s.Unknown, r)
		}
		categories.add(r.CategoryCode)
		levels.add(r.LevelCode)
		total += r.Confidence
	}

	s.RequiredCategories = categories.codes
	s.RequiredLevels = levels.codes
	s.ConfidenceScore = math.Round(total/float64(len(reqs))*confidencePrecision) / confidencePrecision
	return s
}

// codeSet keeps distinct codes in first-seen order, ignoring absent codes and
// the excluded placeholder.
type codeSet struct {
	exclude string
	seen    map[string]struct{}
	codes   []string
}

func newCodeSet(exclude string) *codeSet {
	return &codeSet{exclude: exclude, seen: make(map[string]struct{}), codes: []string{}}
}

func (c *codeSet) add(code *string) {
	if code == nil || *code == "" || *code == c.exclude {
		return
	}
	if _, ok := c.seen[*code]; ok {
		return
	}
	c.seen[*code] = struct{}{}
	c.codes = append(c.codes, *code)
}
