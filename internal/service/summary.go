package service

import "quad/internal/models"

// Summarize computes the birth year, party and election summaries of
// records. Every summary of an empty input is marked NoData.
func Summarize(records []models.VoterRecord) models.VoterSummary {
	summary := models.VoterSummary{
		Total:     len(records),
		BirthYear: models.BirthYearSummary{Counts: map[int]int{}},
		Party:     models.PartySummary{Counts: map[string]int{}},
		Elections: models.ElectionSummary{Counts: make([]models.ElectionCount, len(models.Elections))},
	}
	for i, e := range models.Elections {
		summary.Elections.Counts[i].Election = e
	}

	for i := range records {
		r := &records[i]
		summary.BirthYear.Counts[r.BirthYear]++
		summary.Party.Counts[r.Party]++
		for j, e := range models.Elections {
			if r.Participated(e) {
				summary.Elections.Counts[j].Count++
			}
		}
	}

	if len(records) == 0 {
		summary.BirthYear.NoData = true
		summary.Party.NoData = true
		summary.Elections.NoData = true
	}
	return summary
}
