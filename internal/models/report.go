package models

// NoDataMessage is shown in place of a chart when a summary has nothing to count.
const NoDataMessage = "No data available"

// BirthYearSummary is a sparse histogram of voters per birth year.
type BirthYearSummary struct {
	NoData bool        `json:"no_data"`
	Counts map[int]int `json:"counts"`
}

// PartySummary counts voters per exact party string.
type PartySummary struct {
	NoData bool           `json:"no_data"`
	Counts map[string]int `json:"counts"`
}

// ElectionCount is the number of voters who took part in one election.
type ElectionCount struct {
	Election Election `json:"election"`
	Count    int      `json:"count"`
}

// ElectionSummary holds one ElectionCount per entry of Elections, in order.
type ElectionSummary struct {
	NoData bool            `json:"no_data"`
	Counts []ElectionCount `json:"counts"`
}

// VoterSummary bundles the three summaries over a single record set.
type VoterSummary struct {
	Total     int              `json:"total"`
	BirthYear BirthYearSummary `json:"birth_year"`
	Party     PartySummary     `json:"party"`
	Elections ElectionSummary  `json:"elections"`
}

// VoterReport is a query result together with its summary.
type VoterReport struct {
	Criteria VoterCriteria `json:"criteria"`
	Records  []VoterRecord `json:"records"`
	Summary  VoterSummary  `json:"summary"`
}
