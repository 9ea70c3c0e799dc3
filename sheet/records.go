package sheet

// CompetitorHeader is the column order used when writing competitor rows
var CompetitorHeader = []string{
	"domain", "name", "tier",
	"organicKeywords", "keywordsTrend",
	"organicTraffic", "trafficTrend",
	"paidKeywords", "paidTrend",
	"paidTraffic", "paidTrafficTrend",
	"refDomains", "refTrend",
	"authorityScore", "authorityChange",
	"isOwn", "highlight",
}

// DecodeCompetitors maps parsed rows onto competitor records. Rows without a
// domain are dropped and the first row wins when a domain repeats.
func DecodeCompetitors(rows []Row) []CompetitorRecord {
	records := make([]CompetitorRecord, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		domain := row.Text("domain")
		if domain == "" || seen[domain] {
			continue
		}
		seen[domain] = true

		records = append(records, CompetitorRecord{
			Domain:           domain,
			Name:             row.Text("name"),
			Tier:             Tier(row.Text("tier")),
			OrganicKeywords:  row.Int("organicKeywords"),
			KeywordsTrend:    row.Float("keywordsTrend"),
			OrganicTraffic:   row.Int("organicTraffic"),
			TrafficTrend:     row.Float("trafficTrend"),
			PaidKeywords:     row.Int("paidKeywords"),
			PaidTrend:        row.Float("paidTrend"),
			PaidTraffic:      row.Int("paidTraffic"),
			PaidTrafficTrend: row.Float("paidTrafficTrend"),
			RefDomains:       row.Int("refDomains"),
			RefTrend:         row.Float("refTrend"),
			AuthorityScore:   row.Int("authorityScore"),
			AuthorityChange:  row.Int("authorityChange"),
			IsOwn:            row.Bool("isOwn"),
			Highlight:        row.Bool("highlight"),
		})
	}

	return records
}

// EncodeCompetitors turns records back into rows in CompetitorHeader order
func EncodeCompetitors(records []CompetitorRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, c := range records {
		rows = append(rows, Row{
			{"domain", Value{Kind: KindString, Str: c.Domain}},
			{"name", Value{Kind: KindString, Str: c.Name}},
			{"tier", Value{Kind: KindString, Str: string(c.Tier)}},
			{"organicKeywords", Value{Kind: KindInt, Int: c.OrganicKeywords}},
			{"keywordsTrend", Value{Kind: KindFloat, Float: c.KeywordsTrend}},
			{"organicTraffic", Value{Kind: KindInt, Int: c.OrganicTraffic}},
			{"trafficTrend", Value{Kind: KindFloat, Float: c.TrafficTrend}},
			{"paidKeywords", Value{Kind: KindInt, Int: c.PaidKeywords}},
			{"paidTrend", Value{Kind: KindFloat, Float: c.PaidTrend}},
			{"paidTraffic", Value{Kind: KindInt, Int: c.PaidTraffic}},
			{"paidTrafficTrend", Value{Kind: KindFloat, Float: c.PaidTrafficTrend}},
			{"refDomains", Value{Kind: KindInt, Int: c.RefDomains}},
			{"refTrend", Value{Kind: KindFloat, Float: c.RefTrend}},
			{"authorityScore", Value{Kind: KindInt, Int: c.AuthorityScore}},
			{"authorityChange", Value{Kind: KindInt, Int: c.AuthorityChange}},
			{"isOwn", Value{Kind: KindBool, Bool: c.IsOwn}},
			{"highlight", Value{Kind: KindBool, Bool: c.Highlight}},
		})
	}
	return rows
}

// DecodeConfig reads key/value rows from the config tab
func DecodeConfig(rows []Row) []ConfigEntry {
	entries := make([]ConfigEntry, 0, len(rows))
	for _, row := range rows {
		key := row.Text("key")
		if key == "" {
			continue
		}
		entries = append(entries, ConfigEntry{Key: key, Value: row.Text("value")})
	}
	return entries
}

// LookupConfig returns the value of the first entry named key
func LookupConfig(entries []ConfigEntry, key string) (string, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}
