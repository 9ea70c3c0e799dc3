package metrics

import (
	"math"

	"github.com/seo-optimizer/competitor-dashboard/sheet"
)

// PeerLimit is how many non-self records join the comparison set
const PeerLimit = 4

// find returns the first record for domain, or a zero record
func find(records []sheet.CompetitorRecord, domain string) sheet.CompetitorRecord {
	if domain == "" {
		return sheet.CompetitorRecord{}
	}
	for _, r := range records {
		if r.Domain == domain {
			return r
		}
	}
	return sheet.CompetitorRecord{}
}

// Combine merges the two self records. A missing record contributes zeros.
func Combine(records []sheet.CompetitorRecord, self SelfDomains) CombinedEntity {
	legacy := find(records, self.Legacy)
	current := find(records, self.Current)

	return CombinedEntity{
		OrganicKeywords: current.OrganicKeywords + legacy.OrganicKeywords,
		OrganicTraffic:  current.OrganicTraffic + legacy.OrganicTraffic,
		RefDomains:      current.RefDomains + legacy.RefDomains,
		AuthorityScore:  max(current.AuthorityScore, legacy.AuthorityScore),
		PaidPresence:    current.PaidTraffic + legacy.PaidTraffic,
	}
}

// isSelf reports whether r belongs to the dashboard owner
func isSelf(r sheet.CompetitorRecord, self SelfDomains) bool {
	return r.IsOwn || self.Contains(r.Domain)
}

// SelectPeers returns the first limit records, in input order, that are
// neither self nor enterprise tier.
func SelectPeers(records []sheet.CompetitorRecord, self SelfDomains, limit int) []sheet.CompetitorRecord {
	peers := make([]sheet.CompetitorRecord, 0, limit)
	for _, r := range records {
		if len(peers) >= limit {
			break
		}
		if isSelf(r, self) || r.Tier == sheet.TierEnterprise {
			continue
		}
		peers = append(peers, r)
	}
	return peers
}

// PeerEntity converts a record to a comparison entity. Paid presence of a
// peer counts both paid traffic and paid keywords.
func PeerEntity(r sheet.CompetitorRecord) Entity {
	return Entity{
		Name:            r.Name,
		Domain:          r.Domain,
		OrganicKeywords: r.OrganicKeywords,
		OrganicTraffic:  r.OrganicTraffic,
		RefDomains:      r.RefDomains,
		AuthorityScore:  r.AuthorityScore,
		PaidPresence:    r.PaidTraffic + r.PaidKeywords,
	}
}

// ComparisonSet is the combined entity followed by up to PeerLimit peers
func ComparisonSet(records []sheet.CompetitorRecord, self SelfDomains, combinedName string) []Entity {
	combined := Combine(records, self)
	peers := SelectPeers(records, self, PeerLimit)

	set := make([]Entity, 0, len(peers)+1)
	set = append(set, Entity{
		Name:            combinedName,
		Combined:        true,
		OrganicKeywords: combined.OrganicKeywords,
		OrganicTraffic:  combined.OrganicTraffic,
		RefDomains:      combined.RefDomains,
		AuthorityScore:  combined.AuthorityScore,
		PaidPresence:    combined.PaidPresence,
	})
	for _, p := range peers {
		set = append(set, PeerEntity(p))
	}
	return set
}

// AxisMaxima computes the maximum of each axis over set. Authority is
// bounded at 100 already and paid presence never drops below 1.
func AxisMaxima(set []Entity) Maxima {
	m := Maxima{AuthorityScore: 100}
	for i, e := range set {
		if i == 0 {
			m.OrganicKeywords = e.OrganicKeywords
			m.OrganicTraffic = e.OrganicTraffic
			m.RefDomains = e.RefDomains
			m.PaidPresence = e.PaidPresence
			continue
		}
		m.OrganicKeywords = max(m.OrganicKeywords, e.OrganicKeywords)
		m.OrganicTraffic = max(m.OrganicTraffic, e.OrganicTraffic)
		m.RefDomains = max(m.RefDomains, e.RefDomains)
		m.PaidPresence = max(m.PaidPresence, e.PaidPresence)
	}
	if m.PaidPresence <= 0 {
		m.PaidPresence = 1
	}
	return m
}

// scale maps v onto 0-100 against axisMax. A non-positive maximum scales
// every entity to 0.
func scale(v, axisMax int64) float64 {
	if axisMax <= 0 {
		return 0
	}
	return float64(v) / float64(axisMax) * 100
}

// Normalize builds the profile of e in Axes order
func Normalize(e Entity, m Maxima) Profile {
	return Profile{
		Name: e.Name,
		Values: []float64{
			scale(e.OrganicKeywords, m.OrganicKeywords),
			scale(e.OrganicTraffic, m.OrganicTraffic),
			scale(e.RefDomains, m.RefDomains),
			float64(e.AuthorityScore),
			scale(e.PaidPresence, m.PaidPresence),
		},
	}
}

// MigrationProgress is the share of self traffic already on the current
// domain, as a rounded percentage. Zero legacy traffic counts as 1.
func MigrationProgress(records []sheet.CompetitorRecord, self SelfDomains) int {
	current := find(records, self.Current).OrganicTraffic
	legacy := find(records, self.Legacy).OrganicTraffic
	if legacy == 0 {
		legacy = 1
	}
	total := current + legacy
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(total) * 100))
}

// GapMultiple is how many times the top traffic in the comparison set
// exceeds the combined self traffic. It is 0 when self traffic is 0.
func GapMultiple(combined CombinedEntity, m Maxima) int {
	if combined.OrganicTraffic <= 0 {
		return 0
	}
	return int(math.Round(float64(m.OrganicTraffic) / float64(combined.OrganicTraffic)))
}

// Compute derives the full summary for one record set
func Compute(records []sheet.CompetitorRecord, self SelfDomains, combinedName string) Summary {
	set := ComparisonSet(records, self, combinedName)
	maxima := AxisMaxima(set)

	profiles := make([]Profile, 0, len(set))
	for _, e := range set {
		profiles = append(profiles, Normalize(e, maxima))
	}

	combined := Combine(records, self)
	return Summary{
		Combined:          combined,
		Legacy:            find(records, self.Legacy),
		Current:           find(records, self.Current),
		Comparison:        set,
		Maxima:            maxima,
		Profiles:          profiles,
		MigrationProgress: MigrationProgress(records, self),
		GapMultiple:       GapMultiple(combined, maxima),
	}
}
