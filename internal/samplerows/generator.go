package samplerows

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/nyusatsu/internal/domain/catalog"
	"github.com/okian/nyusatsu/pkg/logger"
)

const randomFloatDivisor = 1000000

// Qualification patterns, one per clause family plus the blank and
// combined cases.
const (
	PatternUnified         = "unified"
	PatternRegionalBureau  = "regional_bureau"
	PatternLocalGovernment = "local_government"
	PatternMinistry        = "ministry"
	PatternIndustry        = "industry"
	PatternNoQualification = "no_qualification"
	PatternUnknown         = "unknown"
	PatternBlank           = "blank"
	PatternCombined        = "combined"
)

// Patterns lists every qualification pattern the generator draws from.
var Patterns = []string{ //nolint:gochecknoglobals // static pattern table
	PatternUnified, PatternRegionalBureau, PatternLocalGovernment, PatternMinistry,
	PatternIndustry, PatternNoQualification, PatternUnknown, PatternBlank, PatternCombined,
}

//nolint:gochecknoglobals // sample vocabularies
var (
	levels             = []string{"A", "B", "C", "D", "D", "D", "ランク無し", "ランク不明"}
	unifiedCategories  = []string{"物品の製造", "物品の販売", "役務の提供", "物品の買受け"}
	bureaus            = []string{"関東地方整備局", "近畿地方整備局", "北海道開発局"}
	bureauCategories   = []string{"建設工事", "測量", "建設関連業務", "コンサルタント"}
	localGovernments   = []string{"千葉県", "横浜市", "大阪府", "札幌市"}
	ministries         = []string{"防衛省", "国土交通省", "気象庁"}
	associations       = []string{"日本測量協会", "全国建設業協同組合", "日本事務機械連盟"}
	caseNames          = []string{"庁舎清掃業務", "システム保守業務", "測量業務委託", "事務用品購入", "公用車リース", "施設警備業務"}
	biddingFormats     = []string{"一般競争入札", "指名競争入札", "公募型プロポーザル"}
	winningCompanies   = []string{"株式会社東都サービス", "有限会社みなと測量", "株式会社北斗システム"}
	unknownClauses     = []string{"過去3年間に同種業務の実績があること", "暴力団排除に関する誓約書を提出すること"}
	organizations      = []struct{ name, address string }{
		{"千葉県", "千葉県千葉市中央区市場町1-1"},
		{"国土交通省", "東京都千代田区霞が関2-1-3"},
		{"横浜市", "神奈川県横浜市中区本町6-50-10"},
		{"大阪府", "大阪府大阪市中央区大手前2丁目"},
		{"札幌市", "北海道札幌市中央区北1条西2丁目"},
		{"福岡県", "福岡県福岡市博多区東公園7-7"},
	}
	dateLayouts = []string{"2006/01/02", "2006-01-02", "2006年1月2日", "01/02/2006"}
)

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	return float64(getRandomInt(randomFloatDivisor)) / float64(randomFloatDivisor)
}

func pick(list []string) string {
	return list[getRandomInt(len(list))]
}

// generateRows creates config.NumRows rows concurrently. Row i carries case id
// FirstCaseID+i unless it was drawn as a duplicate or a missing id.
func generateRows(ctx context.Context, config *Config) ([]Row, error) {
	logger.Get().Info(ctx, "generating rows", logger.Int("rows", config.NumRows))

	rows := make([]Row, config.NumRows)
	if config.NumRows == 0 {
		return rows, nil
	}

	type rowResult struct {
		index int
		row   Row
		err   error
	}

	resultChan := make(chan rowResult, config.NumRows)

	workerCount := minInt(maxInt(config.Workers, 1), config.NumRows)
	rowsPerWorker := config.NumRows / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * rowsPerWorker
		end := start + rowsPerWorker
		if worker == workerCount-1 {
			end = config.NumRows // Last worker gets remaining rows
		}

		go func(start, end int) {
			printer := message.NewPrinter(language.Japanese)
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- rowResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- rowResult{index: i, row: generateSingleRow(config, printer, i)}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.NumRows; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during row generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate row %d: %w", result.index, result.err)
			}
			rows[result.index] = result.row
		}
	}

	logger.Get().Info(ctx, "generated rows successfully", logger.Int("count", len(rows)))
	return rows, nil
}

// generateSingleRow creates the export cells for row index.
func generateSingleRow(config *Config, printer *message.Printer, index int) Row {
	cells := make([]string, columnCount)

	caseID := config.FirstCaseID + index
	switch {
	case index > 0 && getRandomFloat() < config.DuplicateRate:
		caseID = config.FirstCaseID + getRandomInt(index)
		cells[colCaseID] = strconv.Itoa(caseID)
	case getRandomFloat() < config.MissingRate:
		cells[colCaseID] = ""
	default:
		cells[colCaseID] = strconv.Itoa(caseID)
	}

	org := organizations[getRandomInt(len(organizations))]
	pattern := Patterns[getRandomInt(len(Patterns))]

	cells[colCaseName] = pick(caseNames)
	cells[colBiddingFormat] = pick(biddingFormats)
	cells[colCaseURL] = "https://www.geps.go.jp/cases/" + strconv.Itoa(caseID)
	cells[colOrganization] = org.name
	cells[colOrganizationAddress] = org.address
	cells[colDeliveryLocation] = org.address
	cells[colQualification] = qualificationText(pattern)
	cells[colBusinessType] = businessTypeText()
	cells[colOverview] = cells[colCaseName] + "に関する業務"

	announced := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, getRandomInt(365))
	cells[colAnnouncementDate] = formatDate(announced)
	cells[colBiddingDate] = formatDate(announced.AddDate(0, 0, 14+getRandomInt(14)))
	cells[colSubmissionDeadline] = formatDate(announced.AddDate(0, 0, 7))

	planned := (1 + getRandomInt(5000)) * 10000
	cells[colPlannedPrice] = formatPrice(printer, planned)

	// Roughly half of the cases already carry an award.
	if getRandomInt(2) == 0 {
		cells[colAwardPrice] = formatPrice(printer, planned*(80+getRandomInt(20))/100)
		cells[colAwardDate] = formatDate(announced.AddDate(0, 1, 0))
		cells[colAwardAnnouncementDate] = formatDate(announced.AddDate(0, 1, 3))
		cells[colWinningCompany] = pick(winningCompanies)
		cells[colWinningReason] = "最低価格"
	}

	return Row{Cells: cells, Pattern: pattern}
}

func qualificationText(pattern string) string {
	switch pattern {
	case PatternUnified:
		return fmt.Sprintf("%s %s %s", catalog.UnifiedOrganization, pick(unifiedCategories), pick(levels))
	case PatternRegionalBureau:
		return fmt.Sprintf("%s 一般競争入札参加資格 %s %s", pick(bureaus), pick(bureauCategories), pick(levels))
	case PatternLocalGovernment:
		return fmt.Sprintf("%s 入札参加資格 %s %s", pick(localGovernments), pick(bureauCategories), pick(levels))
	case PatternMinistry:
		return fmt.Sprintf("%s 競争参加資格 %s %s", pick(ministries), pick(unifiedCategories), pick(levels))
	case PatternIndustry:
		return pick(associations) + "の会員資格を有すること"
	case PatternNoQualification:
		return "資格不要"
	case PatternUnknown:
		return pick(unknownClauses)
	case PatternCombined:
		return qualificationText(PatternUnified) + "\n" + qualificationText(PatternIndustry)
	default:
		return ""
	}
}

func businessTypeText() string {
	n := 1 + getRandomInt(2)
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, catalog.BusinessTypes[getRandomInt(len(catalog.BusinessTypes))].Name)
	}
	return strings.Join(names, "\n")
}

func formatDate(t time.Time) string {
	return t.Format(dateLayouts[getRandomInt(len(dateLayouts))])
}

// formatPrice renders n yen in one of the layouts seen in exports.
func formatPrice(printer *message.Printer, n int) string {
	switch getRandomInt(3) {
	case 0:
		return printer.Sprintf("%d円", n)
	case 1:
		if n%10000 == 0 {
			return strconv.Itoa(n/10000) + "万円"
		}
		return strconv.Itoa(n)
	default:
		return strconv.Itoa(n)
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
