// Package normalize converts free-text procurement fields (prices, dates,
// business types, addresses) into canonical values. Every function is total:
// unparseable input yields an absent result, never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/okian/nyusatsu/internal/domain/catalog"
)

// Price multipliers.
const (
	tenThousand = 10_000
	thousand    = 1_000
)

var (
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`) //nolint:gochecknoglobals // compiled once

	prefecturePatterns = compilePrefectures() //nolint:gochecknoglobals // compiled once
)

// priceNoise is stripped before a price is parsed.
var priceNoise = strings.NewReplacer(",", "", "円", "", "￥", "", "¥", "") //nolint:gochecknoglobals // stateless replacer

// NormalizePrice returns the first number in text scaled by a 万/千 multiplier.
func NormalizePrice(text string) (float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	s := priceNoise.Replace(norm.NFKC.String(text))

	multiplier := 1.0
	switch {
	case strings.Contains(s, "万"):
		s = strings.ReplaceAll(s, "万", "")
		multiplier = tenThousand
	case strings.Contains(s, "千"):
		s = strings.ReplaceAll(s, "千", "")
		multiplier = thousand
	}

	n := numberPattern.FindString(s)
	if n == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0, false
	}
	return v * multiplier, true
}

// NormalizeBusinessTypes returns the distinct business-type codes of text in
// first-seen order.
func NormalizeBusinessTypes(text string) []string {
	_, codes := ExtractBusinessTypesWithCodes(text)
	return codes
}

// ExtractBusinessTypesWithCodes maps each non-blank line to the first catalog
// entry whose name it contains, defaulting to B99 with the line as the name.
// Results are deduplicated by code, keeping the first name seen for a code.
func ExtractBusinessTypesWithCodes(text string) (names, codes []string) {
	names, codes = []string{}, []string{}
	if strings.TrimSpace(text) == "" {
		return names, codes
	}

	seen := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, code := line, catalog.BusinessTypeOther
		for _, bt := range catalog.BusinessTypes {
			if strings.Contains(line, bt.Name) {
				name, code = bt.Name, bt.Code
				break
			}
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		names = append(names, name)
		codes = append(codes, code)
	}
	return names, codes
}

// ExtractPrefecture returns the first prefecture found in an address, trying
// the regional groups in catalog order.
func ExtractPrefecture(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, re := range prefecturePatterns {
		if m := re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

func compilePrefectures() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(catalog.PrefectureRegions))
	for _, region := range catalog.PrefectureRegions {
		quoted := make([]string, len(region.Prefectures))
		for i, p := range region.Prefectures {
			quoted[i] = regexp.QuoteMeta(p)
		}
		out = append(out, regexp.MustCompile("("+strings.Join(quoted, "|")+")"))
	}
	return out
}
