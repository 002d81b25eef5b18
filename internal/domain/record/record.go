// Package record assembles the classified case record from a raw row.
package record

import (
	"time"

	"github.com/okian/nyusatsu/internal/domain/normalize"
	"github.com/okian/nyusatsu/internal/domain/qualification"
)

// Record is the fully normalized and classified procurement case.
// Absent source values stay nil.
type Record struct {
	CaseID          int64   `json:"case_id"`
	CaseName        *string `json:"case_name"`
	SearchCondition *string `json:"search_condition"`
	BiddingFormat   *string `json:"bidding_format"`
	CaseURL         *string `json:"case_url"`

	OrgName          *string `json:"org_name"`
	OrgLocation      *string `json:"org_location"`
	OrgPrefecture    *string `json:"org_prefecture"`
	DeliveryLocation *string `json:"delivery_location"`

	AnnouncementDate       *normalize.Date `json:"announcement_date"`
	BiddingDate            *normalize.Date `json:"bidding_date"`
	DocumentSubmissionDate *normalize.Date `json:"document_submission_date"`
	BriefingDate           *normalize.Date `json:"briefing_date"`
	AwardAnnouncementDate  *normalize.Date `json:"award_announcement_date"`
	AwardDate              *normalize.Date `json:"award_date"`

	QualificationsRaw       *string                     `json:"qualifications_raw"`
	QualificationsParsed    []qualification.Requirement `json:"qualifications_parsed"`
	QualificationsSummary   qualification.Summary       `json:"qualifications_summary"`
	BusinessTypesRaw        *string                     `json:"business_types_raw"`
	BusinessTypesNormalized []string                    `json:"business_types_normalized"`
	BusinessType            []string                    `json:"business_type"`
	BusinessTypeCode        []string                    `json:"business_type_code"`

	Overview *string `json:"overview"`
	Remarks  *string `json:"remarks"`

	PlannedPriceRaw        *string  `json:"planned_price_raw"`
	PlannedPriceNormalized *float64 `json:"planned_price_normalized"`
	PlannedUnitPrice       *string  `json:"planned_unit_price"`
	AwardPriceRaw          *string  `json:"award_price_raw"`
	AwardPriceNormalized   *float64 `json:"award_price_normalized"`
	AwardUnitPrice         *string  `json:"award_unit_price"`
	MainPrice              *float64 `json:"main_price"`

	WinningCompany        *string `json:"winning_company"`
	WinningCompanyAddress *string `json:"winning_company_address"`
	WinningReason         *string `json:"winning_reason"`
	WinningScore          *string `json:"winning_score"`
	AwardRemarks          *string `json:"award_remarks"`
	BidResultDetails      *string `json:"bid_result_details"`
	UnsuccessfulBid       *string `json:"unsuccessful_bid"`

	ProcessedAt             *time.Time `json:"processed_at,omitempty"`
	QualificationConfidence float64    `json:"qualification_confidence"`
	IsEligibleToBid         bool       `json:"is_eligible_to_bid"`
	EligibilityReason       string     `json:"eligibility_reason"`
	EligibilityDetails      []string   `json:"eligibility_details"`
}

// Columns lists the record's JSON keys in export order.
func Columns() []string {
	return []string{
		"case_id", "case_name", "search_condition", "bidding_format", "case_url",
		"org_name", "org_location", "org_prefecture", "delivery_location",
		"announcement_date", "bidding_date", "document_submission_date", "briefing_date",
		"award_announcement_date", "award_date",
		"qualifications_raw", "qualifications_parsed", "qualifications_summary",
		"business_types_raw", "business_types_normalized", "business_type", "business_type_code",
		"overview", "remarks",
		"planned_price_raw", "planned_price_normalized", "planned_unit_price",
		"award_price_raw", "award_price_normalized", "award_unit_price", "main_price",
		"winning_company", "winning_company_address", "winning_reason", "winning_score",
		"award_remarks", "bid_result_details", "unsuccessful_bid",
		"processed_at", "qualification_confidence",
		"is_eligible_to_bid", "eligibility_reason", "eligibility_details",
	}
}

// Stamped returns a copy of r with ProcessedAt set to t in UTC.
func (r Record) Stamped(t time.Time) Record {
	t = t.UTC()
	r.ProcessedAt = &t
	return r
}
