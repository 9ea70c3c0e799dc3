package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCompetitors(t *testing.T) {
	records := DecodeCompetitors(Parse(competitorsCSV))
	require.Len(t, records, 3)

	caf := records[1]
	assert.Equal(t, "caf.io", caf.Domain)
	assert.Equal(t, "CAF (legacy)", caf.Name)
	assert.Equal(t, TierLegacy, caf.Tier)
	assert.Equal(t, int64(681), caf.OrganicKeywords)
	assert.Equal(t, int64(1300), caf.OrganicTraffic)
	assert.Equal(t, int64(54), caf.PaidTraffic)
	assert.InDelta(t, -37.93, caf.PaidTrafficTrend, 1e-9)
	assert.Equal(t, int64(3300), caf.RefDomains)
	assert.Equal(t, int64(30), caf.AuthorityScore)
	assert.True(t, caf.IsOwn)
	assert.False(t, caf.Highlight)
}

func TestDecodeCompetitorsUniqueDomain(t *testing.T) {
	text := "domain,organicTraffic\nunico.io,100\n,5\nunico.io,200\nidwall.co,300"
	records := DecodeCompetitors(Parse(text))

	require.Len(t, records, 2)
	assert.Equal(t, "unico.io", records[0].Domain)
	assert.Equal(t, int64(100), records[0].OrganicTraffic)
	assert.Equal(t, "idwall.co", records[1].Domain)
}

func TestEncodeCompetitors(t *testing.T) {
	records := DecodeCompetitors(Parse(competitorsCSV))
	again := DecodeCompetitors(Parse(Encode(CompetitorHeader, EncodeCompetitors(records))))
	assert.Equal(t, records, again)
}

func TestConfig(t *testing.T) {
	entries := DecodeConfig(Parse("key,value\nlastUpdated,Mar 2026\n,orphan\nlastUpdated,Apr 2026\nowner,growth"))
	require.Len(t, entries, 3)

	v, ok := LookupConfig(entries, "lastUpdated")
	assert.True(t, ok)
	assert.Equal(t, "Mar 2026", v)

	_, ok = LookupConfig(entries, "missing")
	assert.False(t, ok)
}

func TestTierKnown(t *testing.T) {
	assert.True(t, TierEnterprise.Known())
	assert.True(t, Tier("new").Known())
	assert.False(t, Tier("challenger").Known())
	assert.False(t, Tier("").Known())
}
