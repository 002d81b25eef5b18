// Package catalog holds the static lookup tables used to classify procurement
// qualification clauses and normalize case fields. It contains data only.
package catalog

// LevelToken matches every rank token a qualification clause may carry.
const LevelToken = `[ABCD]|ランク無し|ランク不明`

// Qualification clause patterns, one per rule family. Capture groups are
// (category, level) for the unified pattern and (organization, category, level)
// for the organization-scoped ones.
const (
	NoQualificationPattern  = `資格不要`
	UnifiedPattern          = `全省庁統一資格\s+(\S+)\s+(` + LevelToken + `)`
	RegionalBureauPattern   = `(.+?開発局|.+?地方整備局).*?競争入札参加資格\s+(\S+)\s+(` + LevelToken + `)`
	LocalGovernmentPattern  = `(.+?県|.+?都|.+?府|.+?市|.+?町|.+?村).*?入札参加資格\s+(\S+)\s+(` + LevelToken + `)`
	MinistryPattern         = `(.+?省|.+?庁).*?競争.*?参加資格\s+(\S+)\s+(` + LevelToken + `)`
	IndustrySpecificPattern = `(.+?協会|.+?組合|.+?連盟).*?資格`
)

// UnifiedOrganization is the organization recorded for nationwide unified qualifications.
const UnifiedOrganization = "全省庁統一資格"

// Fallback codes.
const (
	CategoryOther            = "other"
	CategoryIndustrySpecific = "industry_specific"
	CategoryUnknown          = "unknown"
	LevelUnknown             = "unknown"
	BusinessTypeOther        = "B99"
)

// Level codes.
const (
	LevelA           = "level_a"
	LevelB           = "level_b"
	LevelC           = "level_c"
	LevelD           = "level_d"
	LevelNoRank      = "no_rank"
	LevelUnknownRank = "unknown_rank"
)

// Categories maps a raw business-category phrase to its code.
var Categories = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"物品の製造・販売・買受系":  "manufacturing_sales",
	"物品の製造・販売・買受け系": "manufacturing_sales",
	"物品の製造":         "manufacturing",
	"物品の販売":         "sales",
	"物品の買受け":        "procurement",
	"役務の提供系":        "service_provision",
	"役務の提供":         "service_provision",
	"建設工事":          "construction",
	"建設関連業務":        "construction_related",
	"コンサルタント":       "consulting",
	"設計":            "design",
	"調査":            "research",
	"測量":            "surveying",
	"種類不明":          "unknown_category",
}

// Levels maps a raw rank token to its code.
var Levels = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"A":     LevelA,
	"B":     LevelB,
	"C":     LevelC,
	"D":     LevelD,
	"ランク無し": LevelNoRank,
	"ランク不明": LevelUnknownRank,
}

// BusinessType pairs a business-type name with its code.
type BusinessType struct {
	Name string
	Code string
}

// BusinessTypes is searched in order; the first name contained in a line wins.
var BusinessTypes = []BusinessType{ //nolint:gochecknoglobals // static lookup table
	{Name: "船舶・航空機関連", Code: "B01"},
	{Name: "保守・点検・整備", Code: "B02"},
	{Name: "気象・環境・衛生関連サービス", Code: "B03"},
	{Name: "建設・工事", Code: "B04"},
	{Name: "ITサービス", Code: "B05"},
	{Name: "システム開発", Code: "B05"},
	{Name: "情報処理", Code: "B05"},
	{Name: "コンサルタント", Code: "B06"},
	{Name: "調査・検査", Code: "B06"},
	{Name: "調査・企画", Code: "B06"},
	{Name: "物品・備品", Code: "B07"},
	{Name: "機器・設備", Code: "B07"},
	{Name: "役務", Code: "B08"},
	{Name: "サービス", Code: "B08"},
	{Name: "測量", Code: "B09"},
	{Name: "医療・介護・福祉関連物品", Code: "B10"},
	{Name: "情報・通信関連物品", Code: "B11"},
	{Name: "事務機器・パソコン関連機器", Code: "B12"},
	{Name: "リース・レンタル・賃貸借", Code: "B13"},
	{Name: "日用品", Code: "B14"},
	{Name: "自動車・バス・鉄道関連", Code: "B15"},
	{Name: "その他", Code: BusinessTypeOther},
}

// PrefectureRegion is a named group of prefectures.
type PrefectureRegion struct {
	Region      string
	Prefectures []string
}

// PrefectureRegions is tried in order when extracting a prefecture from an address.
var PrefectureRegions = []PrefectureRegion{ //nolint:gochecknoglobals // static lookup table
	{Region: "hokkaido", Prefectures: []string{"北海道"}},
	{Region: "tohoku", Prefectures: []string{"青森県", "岩手県", "宮城県", "秋田県", "山形県", "福島県"}},
	{Region: "kanto", Prefectures: []string{"茨城県", "栃木県", "群馬県", "埼玉県", "千葉県", "東京都", "神奈川県"}},
	{Region: "chubu", Prefectures: []string{"新潟県", "富山県", "石川県", "福井県", "山梨県", "長野県", "岐阜県", "静岡県", "愛知県"}},
	{Region: "kinki", Prefectures: []string{"三重県", "滋賀県", "京都府", "大阪府", "兵庫県", "奈良県", "和歌山県"}},
	{Region: "chugoku", Prefectures: []string{"鳥取県", "島根県", "岡山県", "広島県", "山口県"}},
	{Region: "shikoku", Prefectures: []string{"徳島県", "香川県", "愛媛県", "高知県"}},
	{Region: "kyushu_okinawa", Prefectures: []string{"福岡県", "佐賀県", "長崎県", "熊本県", "大分県", "宮崎県", "鹿児島県", "沖縄県"}},
}
