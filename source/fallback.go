package source

import (
	_ "embed"

	"github.com/seo-optimizer/competitor-dashboard/sheet"
)

//go:embed fallback/competitors.csv
var fallbackCompetitorsCSV string

//go:embed fallback/config.csv
var fallbackConfigCSV string

// LastUpdatedKey is the config entry that overrides the dataset date
const LastUpdatedKey = "lastUpdated"

// Dataset is a complete, renderable load
type Dataset struct {
	Competitors []sheet.CompetitorRecord
	LastUpdated string
}

// Fallback returns the embedded default dataset
func Fallback() Dataset {
	lastUpdated, _ := sheet.LookupConfig(sheet.DecodeConfig(sheet.Parse(fallbackConfigCSV)), LastUpdatedKey)
	return Dataset{
		Competitors: sheet.DecodeCompetitors(sheet.Parse(fallbackCompetitorsCSV)),
		LastUpdated: lastUpdated,
	}
}
