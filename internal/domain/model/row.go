// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Canonical field names of a raw procurement row.
const (
	FieldCaseID                    = "case_id"
	FieldCaseName                  = "case_name"
	FieldSearchCondition           = "search_condition"
	FieldBiddingFormat             = "bidding_format"
	FieldCaseURL                   = "case_url"
	FieldOrganizationName          = "organization_name"
	FieldOrganizationAddressText   = "organization_address_text"
	FieldDeliveryLocation          = "delivery_location"
	FieldQualificationText         = "qualification_text"
	FieldBusinessTypeText          = "business_type_text"
	FieldOverview                  = "overview"
	FieldRemarks                   = "remarks"
	FieldPlannedPriceText          = "planned_price_text"
	FieldPlannedUnitPrice          = "planned_unit_price"
	FieldAwardPriceText            = "award_price_text"
	FieldAwardUnitPrice            = "award_unit_price"
	FieldAnnouncementDateText      = "announcement_date_text"
	FieldBiddingDateText           = "bidding_date_text"
	FieldSubmissionDeadlineText    = "submission_deadline_text"
	FieldBriefingDateText          = "briefing_date_text"
	FieldAwardAnnouncementDateText = "award_announcement_date_text"
	FieldAwardDateText             = "award_date_text"
	FieldWinningCompany            = "winning_company"
	FieldWinningCompanyAddress     = "winning_company_address"
	FieldWinningReason             = "winning_reason"
	FieldWinningScore              = "winning_score"
	FieldAwardRemarks              = "award_remarks"
	FieldBidResultDetails          = "bid_result_details"
	FieldUnsuccessfulBid           = "unsuccessful_bid"
)

// Columns maps the Japanese export headers to canonical field names.
var Columns = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"案件ID":          FieldCaseID,
	"案件名":           FieldCaseName,
	"検索条件名":         FieldSearchCondition,
	"入札形式":          FieldBiddingFormat,
	"案件概要URL":       FieldCaseURL,
	"機関":            FieldOrganizationName,
	"機関所在地":         FieldOrganizationAddressText,
	"履行/納品場所":       FieldDeliveryLocation,
	"入札資格":          FieldQualificationText,
	"業種":            FieldBusinessTypeText,
	"案件概要":          FieldOverview,
	"案件備考":          FieldRemarks,
	"予定価格":          FieldPlannedPriceText,
	"予定単価":          FieldPlannedUnitPrice,
	"落札価格":          FieldAwardPriceText,
	"落札単価":          FieldAwardUnitPrice,
	"案件公示日":         FieldAnnouncementDateText,
	"入札日":           FieldBiddingDateText,
	"資料等提出日":        FieldSubmissionDeadlineText,
	"説明会日":          FieldBriefingDateText,
	"落札結果公示日":       FieldAwardAnnouncementDateText,
	"落札日":           FieldAwardDateText,
	"契約締結日":         FieldAwardDateText,
	"落札日(or 契約締結日)": FieldAwardDateText,
	"落札会社名":         FieldWinningCompany,
	"落札会社住所":        FieldWinningCompanyAddress,
	"落札理由":          FieldWinningReason,
	"落札評点":          FieldWinningScore,
	"落札結果備考":        FieldAwardRemarks,
	"入札結果詳細":        FieldBidResultDetails,
	"不調":            FieldUnsuccessfulBid,
}

// Fields lists every canonical field name in export column order.
func Fields() []string {
	return []string{
		FieldCaseID, FieldCaseName, FieldSearchCondition, FieldBiddingFormat, FieldCaseURL,
		FieldOrganizationName, FieldOrganizationAddressText, FieldDeliveryLocation,
		FieldQualificationText, FieldBusinessTypeText, FieldOverview, FieldRemarks,
		FieldPlannedPriceText, FieldPlannedUnitPrice, FieldAwardPriceText, FieldAwardUnitPrice,
		FieldAnnouncementDateText, FieldBiddingDateText, FieldSubmissionDeadlineText,
		FieldBriefingDateText, FieldAwardAnnouncementDateText, FieldAwardDateText,
		FieldWinningCompany, FieldWinningCompanyAddress, FieldWinningReason, FieldWinningScore,
		FieldAwardRemarks, FieldBidResultDetails, FieldUnsuccessfulBid,
	}
}

// Canonical resolves a header to its canonical field name. Canonical names
// resolve to themselves; unknown headers report false.
func Canonical(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if field, ok := Columns[header]; ok {
		return field, true
	}
	for _, field := range Fields() {
		if field == header {
			return field, true
		}
	}
	return "", false
}

// Row is one raw procurement record keyed by canonical field name.
// Values hold whatever the source decoded: text cells are strings, JSON
// sources may carry numbers, arrays or nulls.
type Row struct {
	Source string         // file the row came from
	Line   int            // 1-based record position within the source
	Values map[string]any // canonical field -> raw value
}

// CaseID returns the trimmed case identifier or "" when absent or not scalar.
func (r Row) CaseID() string {
	switch v := r.Values[FieldCaseID].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// CaseKey returns the identity used to detect repeated cases. Ids that parse
// as integers are keyed by their decimal form so "01001" and "1001" collide.
func (r Row) CaseKey() string {
	id := r.CaseID()
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return id
}
