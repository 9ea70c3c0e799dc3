package metrics

import "github.com/seo-optimizer/competitor-dashboard/sheet"

// Axis names one dimension of the comparison profile
type Axis string

const (
	AxisKeywords  Axis = "organicKeywords"
	AxisTraffic   Axis = "organicTraffic"
	AxisRefs      Axis = "refDomains"
	AxisAuthority Axis = "authorityScore"
	AxisPaid      Axis = "paidPresence"
)

// Axes is the fixed order of every profile vector
var Axes = []Axis{AxisKeywords, AxisTraffic, AxisRefs, AxisAuthority, AxisPaid}

// AxisLabels are the display names of Axes, in the same order
var AxisLabels = []string{"Organic Keywords", "Organic Traffic", "Ref Domains", "Authority Score", "Paid Presence"}

// SelfDomains declares which two records belong to the dashboard owner
type SelfDomains struct {
	Legacy  string `json:"legacyDomain"`
	Current string `json:"currentDomain"`
}

// Contains reports whether domain is one of the self domains
func (s SelfDomains) Contains(domain string) bool {
	return domain != "" && (domain == s.Legacy || domain == s.Current)
}

// CombinedEntity merges the legacy and current self records
type CombinedEntity struct {
	OrganicKeywords int64 `json:"organicKeywords"`
	OrganicTraffic  int64 `json:"organicTraffic"`
	RefDomains      int64 `json:"refDomains"`
	AuthorityScore  int64 `json:"authorityScore"`
	PaidPresence    int64 `json:"paidPresence"`
}

// Entity is one member of the comparison set
type Entity struct {
	Name            string `json:"name"`
	Domain          string `json:"domain,omitempty"`
	Combined        bool   `json:"combined"`
	OrganicKeywords int64  `json:"organicKeywords"`
	OrganicTraffic  int64  `json:"organicTraffic"`
	RefDomains      int64  `json:"refDomains"`
	AuthorityScore  int64  `json:"authorityScore"`
	PaidPresence    int64  `json:"paidPresence"`
}

// Maxima holds the per axis maximum over the comparison set
type Maxima struct {
	OrganicKeywords int64 `json:"organicKeywords"`
	OrganicTraffic  int64 `json:"organicTraffic"`
	RefDomains      int64 `json:"refDomains"`
	AuthorityScore  int64 `json:"authorityScore"`
	PaidPresence    int64 `json:"paidPresence"`
}

// Profile is an entity scaled to 0-100 along Axes
type Profile struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Summary is everything derived from one record set
type Summary struct {
	Combined          CombinedEntity         `json:"combined"`
	Legacy            sheet.CompetitorRecord `json:"legacy"`
	Current           sheet.CompetitorRecord `json:"current"`
	Comparison        []Entity               `json:"comparison"`
	Maxima            Maxima                 `json:"maxima"`
	Profiles          []Profile              `json:"profiles"`
	MigrationProgress int                    `json:"migrationProgress"`
	GapMultiple       int                    `json:"gapMultiple"`
}
