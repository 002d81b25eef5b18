// Package eligibility decides whether a small bidder may bid on a case from
// its parsed qualification requirements.
package eligibility

import (
	"fmt"

	"github.com/okian/nyusatsu/internal/domain/catalog"
	"github.com/okian/nyusatsu/internal/domain/qualification"
)

// Audit trail strings.
const (
	placeholder = "不明"

	detailNoQualification = "資格要件: 不要"
	detailNoRequirements  = "資格要件が記載されていません"
	detailUnparseable     = "資格要件の形式が認識できません"

	reasonNoQualification = "eligible: no qualification required"
	reasonUnknown         = "ineligible: qualification requirements unknown"
	reasonUnparseable     = "ineligible: could not parse qualification format"

	markEligible   = "✓"
	markIneligible = "✗"
)

// Verdict is the bid/no-bid decision for one case with its audit trail.
type Verdict struct {
	IsEligible bool     `json:"is_eligible"`
	Reason     string   `json:"reason"`
	Details    []string `json:"details"`
}

// Checker applies the eligibility policy for a bidder whose rank ceiling is D.
type Checker struct {
	eligibleLevels map[string]struct{}
}

// NewChecker returns a checker that accepts rank D, no rank and unknown rank.
func NewChecker() *Checker {
	return &Checker{
		eligibleLevels: map[string]struct{}{
			catalog.LevelD:           {},
			catalog.LevelNoRank:      {},
			catalog.LevelUnknownRank: {},
		},
	}
}

// partition holds requirements split by whether the bidder can satisfy them.
// Requirements without a level code belong to neither list.
type partition struct {
	eligible   []qualification.Requirement
	ineligible []qualification.Requirement
	unleveled  []qualification.Requirement
}

// Check decides eligibility. Any single requirement above the rank ceiling
// makes the whole case ineligible.
func (c *Checker) Check(reqs []qualification.Requirement, summary qualification.Summary) Verdict {
	if summary.HasNoQualificationRequired {
		return Verdict{IsEligible: true, Reason: reasonNoQualification, Details: []string{detailNoQualification}}
	}
	if len(reqs) == 0 {
		return Verdict{IsEligible: false, Reason: reasonUnknown, Details: []string{detailNoRequirements}}
	}

	p := c.partition(reqs)
	switch {
	case len(p.ineligible) > 0:
		details := make([]string, 0, len(p.ineligible)+len(p.eligible))
		details = append(details, render(markIneligible, p.ineligible)...)
		details = append(details, render(markEligible, p.eligible)...)
		return Verdict{
			IsEligible: false,
			Reason:     fmt.Sprintf("ineligible: %d requirement(s) demand a rank above D", len(p.ineligible)),
			Details:    details,
		}
	case len(p.eligible) > 0:
		return Verdict{
			IsEligible: true,
			Reason:     fmt.Sprintf("eligible: all %d requirement(s) satisfied", len(p.eligible)),
			Details:    render(markEligible, p.eligible),
		}
	default:
		return Verdict{IsEligible: false, Reason: reasonUnparseable, Details: []string{detailUnparseable}}
	}
}

func (c *Checker) partition(reqs []qualification.Requirement) partition {
	var p partition
	for _, r := range reqs {
		if r.LevelCode == nil || *r.LevelCode == "" {
			p.unleveled = append(p.unleveled, r)
			continue
		}
		if _, ok := c.eligibleLevels[*r.LevelCode]; ok {
			p.eligible = append(p.eligible, r)
		} else {
			p.ineligible = append(p.ineligible, r)
		}
	}
	return p
}

func render(mark string, reqs []qualification.Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = fmt.Sprintf("%s %s - %s - %s", mark, orUnknown(r.Organization), orUnknown(r.Category), orUnknown(r.Level))
	}
	return out
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return placeholder
	}
	return *s
}
