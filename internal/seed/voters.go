package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// VoterHeader is the header row of a voter roll file.
var VoterHeader = []string{
	"Last Name", "First Name", "Street Number", "Street Name", "Apartment Number",
	"Zip Code", "Date of Birth", "Date of Registration", "Party Affiliation",
	"Precinct Number", "v20state", "v21town", "v21primary", "v22general", "v23town",
	"voter_score",
}

var voterParties = []string{"D", "R", "U", "L", "G", "J"}

// VoterRow builds one synthetic voter roll row. The score is the number of
// elections the voter took part in, as on the real rolls.
func VoterRow(f *gofakeit.Faker) []string {
	born := f.DateRange(
		time.Date(1925, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2004, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	registered := ""
	if f.Number(1, 10) > 1 {
		reg := f.DateRange(born.AddDate(18, 0, 0), time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC))
		registered = reg.Format("01/02/2006")
	}
	apartment := ""
	if f.Number(1, 4) == 1 {
		apartment = strconv.Itoa(f.Number(1, 40)) + f.RandomString([]string{"", "A", "B", "C"})
	}

	row := []string{
		f.LastName(),
		f.FirstName(),
		strconv.Itoa(f.Number(1, 999)),
		f.StreetName() + " " + f.RandomString([]string{"St", "Ave", "Rd", "Ln"}),
		apartment,
		fmt.Sprintf("%05d", f.Number(1001, 2791)),
		born.Format("01/02/2006"),
		registered,
		f.RandomString(voterParties),
		strconv.Itoa(f.Number(1, 12)),
	}
	score := 0
	for i := 0; i < 5; i++ {
		voted := f.Number(1, 100) <= 55
		if voted {
			score++
		}
		row = append(row, strings.ToUpper(strconv.FormatBool(voted)))
	}
	return append(row, strconv.Itoa(score))
}

// WriteVoterCSV writes a header and n synthetic rows to w.
func WriteVoterCSV(w io.Writer, n int, seed int64) error {
	f := gofakeit.New(seed)
	cw := csv.NewWriter(w)
	if err := cw.Write(VoterHeader); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(VoterRow(f)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
