package record

import (
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/okian/nyusatsu/internal/domain/eligibility"
	"github.com/okian/nyusatsu/internal/domain/model"
	"github.com/okian/nyusatsu/internal/domain/normalize"
	"github.com/okian/nyusatsu/internal/domain/qualification"
)

// Builder turns raw rows into records. It holds only compiled, read-only
// state and is safe for concurrent use.
type Builder struct {
	schema  *jsonschema.Schema
	parser  *qualification.Parser
	checker *eligibility.Checker
}

// NewBuilder compiles the row schema and the qualification rules.
func NewBuilder() (*Builder, error) {
	schema, err := compileRowSchema()
	if err != nil {
		return nil, err
	}
	return &Builder{
		schema:  schema,
		parser:  qualification.NewParser(),
		checker: eligibility.NewChecker(),
	}, nil
}

// Build classifies one row. It performs no I/O and leaves ProcessedAt unset,
// so building the same row twice yields identical records.
func (b *Builder) Build(row model.Row) (Record, error) {
	values := row.Values
	if values == nil {
		values = map[string]any{}
	}
	if err := b.schema.Validate(values); err != nil {
		return Record{}, invalidInput(err)
	}

	raw := row.CaseID()
	if raw == "" {
		return Record{}, ErrMissingCaseID
	}
	caseID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Record{}, &InvalidInputError{Field: model.FieldCaseID, Reason: err.Error()}
	}

	f := fields(values)
	reqs := b.parser.Parse(f.str(model.FieldQualificationText))
	summary := qualification.Summarize(reqs)
	verdict := b.checker.Check(reqs, summary)

	businessText := f.str(model.FieldBusinessTypeText)
	names, codes := normalize.ExtractBusinessTypesWithCodes(businessText)

	rec := Record{
		CaseID:          caseID,
		CaseName:        f.text(model.FieldCaseName),
		SearchCondition: f.text(model.FieldSearchCondition),
		BiddingFormat:   f.text(model.FieldBiddingFormat),
		CaseURL:         f.text(model.FieldCaseURL),

		OrgName:          f.text(model.FieldOrganizationName),
		OrgLocation:      f.text(model.FieldOrganizationAddressText),
		OrgPrefecture:    f.prefecture(model.FieldOrganizationAddressText),
		DeliveryLocation: f.text(model.FieldDeliveryLocation),

		AnnouncementDate:       f.date(model.FieldAnnouncementDateText),
		BiddingDate:            f.date(model.FieldBiddingDateText),
		DocumentSubmissionDate: f.date(model.FieldSubmissionDeadlineText),
		BriefingDate:           f.date(model.FieldBriefingDateText),
		AwardAnnouncementDate:  f.date(model.FieldAwardAnnouncementDateText),
		AwardDate:              f.date(model.FieldAwardDateText),

		QualificationsRaw:       f.text(model.FieldQualificationText),
		QualificationsParsed:    reqs,
		QualificationsSummary:   summary,
		BusinessTypesRaw:        f.text(model.FieldBusinessTypeText),
		BusinessTypesNormalized: normalize.NormalizeBusinessTypes(businessText),
		BusinessType:            names,
		BusinessTypeCode:        codes,

		Overview: f.text(model.FieldOverview),
		Remarks:  f.text(model.FieldRemarks),

		PlannedPriceRaw:        f.text(model.FieldPlannedPriceText),
		PlannedPriceNormalized: f.price(model.FieldPlannedPriceText),
		PlannedUnitPrice:       f.text(model.FieldPlannedUnitPrice),
		AwardPriceRaw:          f.text(model.FieldAwardPriceText),
		AwardPriceNormalized:   f.price(model.FieldAwardPriceText),
		AwardUnitPrice:         f.text(model.FieldAwardUnitPrice),

		WinningCompany:        f.text(model.FieldWinningCompany),
		WinningCompanyAddress: f.text(model.FieldWinningCompanyAddress),
		WinningReason:         f.text(model.FieldWinningReason),
		WinningScore:          f.text(model.FieldWinningScore),
		AwardRemarks:          f.text(model.FieldAwardRemarks),
		BidResultDetails:      f.text(model.FieldBidResultDetails),
		UnsuccessfulBid:       f.text(model.FieldUnsuccessfulBid),

		QualificationConfidence: summary.ConfidenceScore,
		IsEligibleToBid:         verdict.IsEligible,
		EligibilityReason:       verdict.Reason,
		EligibilityDetails:      verdict.Details,
	}
	rec.MainPrice = rec.AwardPriceNormalized
	if rec.MainPrice == nil {
		rec.MainPrice = rec.PlannedPriceNormalized
	}
	return rec, nil
}

// fields reads validated row values. After schema validation every known
// field other than the case id is a string or nil.
type fields map[string]any

func (f fields) str(name string) string {
	s, _ := f[name].(string)
	return s
}

func (f fields) text(name string) *string {
	s := f.str(name)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func (f fields) date(name string) *normalize.Date {
	d, ok := normalize.NormalizeDate(f.str(name))
	if !ok {
		return nil
	}
	return &d
}

func (f fields) price(name string) *float64 {
	p, ok := normalize.NormalizePrice(f.str(name))
	if !ok {
		return nil
	}
	return &p
}

func (f fields) prefecture(name string) *string {
	p, ok := normalize.ExtractPrefecture(f.str(name))
	if !ok {
		return nil
	}
	return &p
}
