package sheet

// Kind identifies the coerced type held by a Value
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// Value is a single coerced cell
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

// Field is a named cell. Rows keep fields in column order.
type Field struct {
	Name  string
	Value Value
}

// Row is one data line of a sheet export
type Row []Field

// Tier classifies a tracked domain
type Tier string

const (
	TierLeader     Tier = "leader"
	TierCompetitor Tier = "competitor"
	TierGlobal     Tier = "global"
	TierLegacy     Tier = "legacy"
	TierNew        Tier = "new"
	TierEnterprise Tier = "enterprise"
)

// Known reports whether t is one of the tiers the dashboard groups by
func (t Tier) Known() bool {
	switch t {
	case TierLeader, TierCompetitor, TierGlobal, TierLegacy, TierNew, TierEnterprise:
		return true
	}
	return false
}

// CompetitorRecord represents one tracked domain
type CompetitorRecord struct {
	Domain           string  `json:"domain"`
	Name             string  `json:"name"`
	Tier             Tier    `json:"tier"`
	OrganicKeywords  int64   `json:"organicKeywords"`
	KeywordsTrend    float64 `json:"keywordsTrend"`
	OrganicTraffic   int64   `json:"organicTraffic"`
	TrafficTrend     float64 `json:"trafficTrend"`
	PaidKeywords     int64   `json:"paidKeywords"`
	PaidTrend        float64 `json:"paidTrend"`
	PaidTraffic      int64   `json:"paidTraffic"`
	PaidTrafficTrend float64 `json:"paidTrafficTrend"`
	RefDomains       int64   `json:"refDomains"`
	RefTrend         float64 `json:"refTrend"`
	AuthorityScore   int64   `json:"authorityScore"`
	AuthorityChange  int64   `json:"authorityChange"`
	IsOwn            bool    `json:"isOwn"`
	Highlight        bool    `json:"highlight"`
}

// ConfigEntry is a key/value row from the config tab
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
