package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:         "0",
		999:       "999",
		1000:      "1.0K",
		4500:      "4.5K",
		39300:     "39.3K",
		1_000_000: "1.0M",
		2_460_000: "2.5M",
		1250:      "1.3K",
		3250:      "3.3K",
		1050:      "1.1K",
		999_949:   "999.9K",
		1_250_000: "1.3M",
		1_050_000: "1.1M",
	}
	for n, want := range cases {
		assert.Equal(t, want, FormatNumber(n), "n=%d", n)
	}
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendUp, TrendDirection(0.1))
	assert.Equal(t, TrendDown, TrendDirection(-3.45))
	assert.Equal(t, TrendFlat, TrendDirection(0))

	assert.Equal(t, BandStrong, TrendBand(216.67))
	assert.Equal(t, BandPositive, TrendBand(10))
	assert.Equal(t, BandMildNegative, TrendBand(0))
	assert.Equal(t, BandMildNegative, TrendBand(-9.99))
	assert.Equal(t, BandNegative, TrendBand(-10))
}

func TestSortRecords(t *testing.T) {
	records := dataset()

	sorted := SortRecords(records, "organicTraffic", true)
	assert.Equal(t, "unico.io", sorted[0].Domain)
	assert.Equal(t, "certta.ai", sorted[len(sorted)-1].Domain)
	assert.Equal(t, "unico.io", records[0].Domain)

	asc := SortRecords(records, "authorityScore", false)
	assert.Equal(t, "certta.ai", asc[0].Domain)
	// clear.sale and jumio.com tie at 42 and keep input order
	assert.Equal(t, "clear.sale", asc[len(asc)-2].Domain)
	assert.Equal(t, "jumio.com", asc[len(asc)-1].Domain)

	assert.Equal(t, records, SortRecords(records, "bogus", true))
	assert.True(t, SortableKey("refTrend"))
	assert.False(t, SortableKey("name"))
}
