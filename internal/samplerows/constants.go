package samplerows

// Output encodings for delimited files.
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// Defaults applied by Run for zero values.
const (
	DefaultFirstCaseID = 100000
	filePermission     = 0o600
)

// Header is the export header row, in the column order of the procurement portal.
var Header = []string{ //nolint:gochecknoglobals // static export layout
	"案件ID", "案件名", "検索条件名", "入札形式", "案件概要URL",
	"機関", "機関所在地", "履行/納品場所", "入札資格", "業種",
	"案件概要", "案件備考", "予定価格", "予定単価", "落札価格", "落札単価",
	"案件公示日", "入札日", "資料等提出日", "説明会日", "落札結果公示日", "落札日(or 契約締結日)",
	"落札会社名", "落札会社住所", "落札理由", "落札評点", "落札結果備考", "入札結果詳細", "不調",
}

// Column positions within Header.
const (
	colCaseID = iota
	colCaseName
	colSearchCondition
	colBiddingFormat
	colCaseURL
	colOrganization
	colOrganizationAddress
	colDeliveryLocation
	colQualification
	colBusinessType
	colOverview
	colRemarks
	colPlannedPrice
	colPlannedUnitPrice
	colAwardPrice
	colAwardUnitPrice
	colAnnouncementDate
	colBiddingDate
	colSubmissionDeadline
	colBriefingDate
	colAwardAnnouncementDate
	colAwardDate
	colWinningCompany
	colWinningCompanyAddress
	colWinningReason
	colWinningScore
	colAwardRemarks
	colBidResultDetails
	colUnsuccessfulBid
	columnCount
)
