package qualification

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/okian/nyusatsu/internal/domain/catalog"
)

// Rule confidences, highest for the least ambiguous patterns.
const (
	confidenceNoQualification = 1.0
	confidenceUnified         = 0.95
	confidenceRegionalBureau  = 0.9
	confidenceLocalGovernment = 0.85
	confidenceMinistry        = 0.8
	confidenceIndustry        = 0.7
	confidenceUnknown         = 0.1
)

// builder fills the kind-specific fields of a requirement from a regexp match.
type builder func(match []string) Requirement

// rule pairs a matcher with the builder used when it matches. A nil matcher
// matches every line.
type rule struct {
	kind       Kind
	confidence float64
	matcher    *regexp.Regexp
	build      builder
}

// Parser classifies qualification lines. It is safe for concurrent use.
type Parser struct {
	rules []rule
}

// NewParser compiles the rule table.
func NewParser() *Parser {
	return &Parser{
		rules: []rule{
			{
				kind:       KindNoQualificationRequired,
				confidence: confidenceNoQualification,
				matcher:    regexp.MustCompile(catalog.NoQualificationPattern),
				build:      func([]string) Requirement { return Requirement{} },
			},
			{
				kind:       KindUnified,
				confidence: confidenceUnified,
				matcher:    regexp.MustCompile(catalog.UnifiedPattern),
				build: func(m []string) Requirement {
					return scoped(catalog.UnifiedOrganization, m[1], m[2])
				},
			},
			{
				kind:       KindRegionalBureau,
				confidence: confidenceRegionalBureau,
				matcher:    regexp.MustCompile(catalog.RegionalBureauPattern),
				build:      organizationScoped,
			},
			{
				kind:       KindLocalGovernment,
				confidence: confidenceLocalGovernment,
				matcher:    regexp.MustCompile(catalog.LocalGovernmentPattern),
				build:      organizationScoped,
			},
			{
				kind:       KindMinistry,
				confidence: confidenceMinistry,
				matcher:    regexp.MustCompile(catalog.MinistryPattern),
				build:      organizationScoped,
			},
			{
				kind:       KindIndustrySpecific,
				confidence: confidenceIndustry,
				matcher:    regexp.MustCompile(catalog.IndustrySpecificPattern),
				build: func(m []string) Requirement {
					return Requirement{
						Organization: ptr(strings.TrimSpace(m[1])),
						CategoryCode: ptr(catalog.CategoryIndustrySpecific),
					}
				},
			},
			{
				kind:       KindUnknown,
				confidence: confidenceUnknown,
				build: func([]string) Requirement {
					return Requirement{CategoryCode: ptr(catalog.CategoryUnknown)}
				},
			},
		},
	}
}

// Parse returns one requirement per non-blank line of text.
func (p *Parser) Parse(text string) []Requirement {
	lines := splitLines(text)
	out := make([]Requirement, 0, len(lines))
	for i, l := range lines {
		if l.raw == "" {
			continue
		}
		out = append(out, p.parseLine(l, i+1))
	}
	return out
}

func (p *Parser) parseLine(l line, lineNumber int) Requirement {
	for _, r := range p.rules {
		var match []string
		if r.matcher != nil {
			match = r.matcher.FindStringSubmatch(l.folded)
			if match == nil {
				continue
			}
		}
		req := r.build(match)
		req.Kind = r.kind
		req.Confidence = r.confidence
		req.RawText = l.raw
		req.LineNumber = lineNumber
		return req
	}
	// The last rule has no matcher, so this is unreachable.
	return Requirement{Kind: KindUnknown, Confidence: confidenceUnknown, RawText: l.raw, LineNumber: lineNumber}
}

func organizationScoped(m []string) Requirement {
	return scoped(strings.TrimSpace(m[1]), m[2], m[3])
}

func scoped(organization, category, level string) Requirement {
	category = strings.TrimSpace(category)
	level = strings.TrimSpace(level)
	return Requirement{
		Organization: ptr(organization),
		Category:     ptr(category),
		CategoryCode: ptr(lookup(catalog.Categories, category, catalog.CategoryOther)),
		Level:        ptr(level),
		LevelCode:    ptr(lookup(catalog.Levels, level, catalog.LevelUnknown)),
	}
}

// line is one physical line of clause text. raw keeps the source characters
// with whitespace runs collapsed; folded is the NFKC form rules match against.
type line struct {
	raw    string
	folded string
}

// splitLines splits text into physical lines. Blank lines are kept with an
// empty raw text so line numbers stay physical.
func splitLines(text string) []line {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	parts := strings.Split(text, "\n")
	lines := make([]line, len(parts))
	for i, part := range parts {
		raw := strings.Join(strings.Fields(part), " ")
		folded := strings.Join(strings.Fields(norm.NFKC.String(part)), " ")
		lines[i] = line{raw: raw, folded: folded}
	}
	return lines
}

func lookup(table map[string]string, key, fallback string) string {
	if code, ok := table[key]; ok {
		return code
	}
	return fallback
}

func ptr(s string) *string { return &s }
