// Package voterimport parses voter roll CSV files into VoterRecord values.
//
// A row has 16 columns:
//
//	last name, first name, street number, street name, apartment,
//	zip code, date of birth, registration date, party, precinct,
//	v20state, v21town, v21primary, v22general, v23town, voter score
//
// Exports from the registry prepend a voter id, giving 17 columns; the id is
// kept as ExternalID. The first line is a header and is discarded.
package voterimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"quad/internal/models"
)

const (
	baseColumns = 16
	idColumns   = baseColumns + 1
)

var dateLayouts = []string{"01/02/2006", "1/2/2006", "2006-01-02"}

// Reader yields one record or one parse error per data row.
type Reader struct {
	csv        *csv.Reader
	headerRead bool
	line       int
	raw        []string
}

// NewReader wraps r. Rows may have differing column counts; each row is
// checked on its own.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &Reader{csv: cr}
}

// Next returns the next record. A malformed row yields a nil record and a
// *models.RecordParseError; reading may continue after it. io.EOF marks the
// end of input. Any other error is fatal.
func (r *Reader) Next() (*models.VoterRecord, error) {
	if !r.headerRead {
		r.headerRead = true
		if _, err := r.csv.Read(); err != nil {
			if !isRowError(err) {
				return nil, err
			}
		}
	}

	fields, err := r.csv.Read()
	if err != nil {
		var perr *csv.ParseError
		if !errors.As(err, &perr) {
			return nil, err
		}
		return nil, &models.RecordParseError{Line: perr.StartLine, Raw: fields, Err: perr.Err}
	}
	line, _ := r.csv.FieldPos(0)
	r.line, r.raw = line, fields

	record, err := ParseRow(fields)
	if err != nil {
		var perr *models.RecordParseError
		if errors.As(err, &perr) {
			perr.Line = line
			return nil, perr
		}
		return nil, &models.RecordParseError{Line: line, Raw: fields, Err: err}
	}
	return record, nil
}

// Line is the input line of the row last returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Raw is the unparsed row last returned by Next.
func (r *Reader) Raw() []string {
	return r.raw
}

// isRowError reports whether err only affects the current row.
func isRowError(err error) bool {
	var perr *csv.ParseError
	return errors.As(err, &perr)
}

// ParseRow converts one data row. Line is left zero on the returned error.
func ParseRow(fields []string) (*models.VoterRecord, error) {
	raw := append([]string(nil), fields...)
	fail := func(field string, err error) error {
		return &models.RecordParseError{Raw: raw, Field: field, Err: err}
	}

	var externalID string
	switch len(fields) {
	case baseColumns:
	case idColumns:
		externalID = strings.TrimSpace(fields[0])
		fields = fields[1:]
	default:
		return nil, fail("", fmt.Errorf("expected %d or %d columns, got %d", baseColumns, idColumns, len(fields)))
	}

	v := &models.VoterRecord{
		ExternalID: externalID,
		LastName:   strings.TrimSpace(fields[0]),
		FirstName:  strings.TrimSpace(fields[1]),
		StreetName: strings.TrimSpace(fields[3]),
		Party:      fields[8],
		Precinct:   strings.TrimSpace(fields[9]),
	}
	if v.LastName == "" && v.FirstName == "" {
		return nil, fail("name", errors.New("first and last name are empty"))
	}

	var err error
	if v.StreetNumber, err = parseInt(fields[2]); err != nil {
		return nil, fail("street_number", err)
	}
	if apt := strings.TrimSpace(fields[4]); apt != "" {
		v.ApartmentNumber = &apt
	}
	if v.ZipCode, err = parseInt(fields[5]); err != nil {
		return nil, fail("zip_code", err)
	}
	if v.DateOfBirth, err = parseDate(fields[6]); err != nil {
		return nil, fail("date_of_birth", err)
	}
	v.BirthYear = v.DateOfBirth.Year()
	if reg := strings.TrimSpace(fields[7]); reg != "" {
		d, err := parseDate(reg)
		if err != nil {
			return nil, fail("registration_date", err)
		}
		v.RegistrationDate = &d
	}

	for i, e := range models.Elections {
		voted, err := parseFlag(fields[10+i])
		if err != nil {
			return nil, fail(string(e), err)
		}
		v.SetParticipated(e, voted)
	}

	if v.VoterScore, err = parseInt(fields[15]); err != nil {
		return nil, fail("voter_score", err)
	}
	if v.VoterScore < 0 || v.VoterScore > len(models.Elections) {
		return nil, fail("voter_score", fmt.Errorf("score %d out of range 0..%d", v.VoterScore, len(models.Elections)))
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("value is required")
	}
	return strconv.Atoi(s)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("value is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func parseFlag(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE":
		return true, nil
	case "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("expected TRUE or FALSE, got %q", s)
}
