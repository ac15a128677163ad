package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Election identifies one of the tracked elections a voter may have taken part in.
type Election string

const (
	ElectionV20State   Election = "v20state"
	ElectionV21Town    Election = "v21town"
	ElectionV21Primary Election = "v21primary"
	ElectionV22General Election = "v22general"
	ElectionV23Town    Election = "v23town"
)

// Elections lists every election in reporting order.
var Elections = []Election{
	ElectionV20State,
	ElectionV21Town,
	ElectionV21Primary,
	ElectionV22General,
	ElectionV23Town,
}

var electionColumns = map[Election]string{
	ElectionV20State:   "v20_state",
	ElectionV21Town:    "v21_town",
	ElectionV21Primary: "v21_primary",
	ElectionV22General: "v22_general",
	ElectionV23Town:    "v23_town",
}

// ParseElection accepts the election tag case-insensitively.
func ParseElection(s string) (Election, error) {
	e := Election(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := electionColumns[e]; !ok {
		return "", NewValidationError(fmt.Sprintf("unknown election %q", s))
	}
	return e, nil
}

// Column returns the voter_records column backing the participation flag.
func (e Election) Column() string {
	return electionColumns[e]
}

// VoterRecord is one row of the voter roll. Records are created by the
// importer and never modified afterwards.
type VoterRecord struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ExternalID       string     `gorm:"size:32;index" json:"external_id,omitempty"`
	LastName         string     `gorm:"size:100;not null" json:"last_name"`
	FirstName        string     `gorm:"size:100;not null" json:"first_name"`
	StreetNumber     int        `gorm:"not null" json:"street_number"`
	StreetName       string     `gorm:"size:200;not null" json:"street_name"`
	ApartmentNumber  *string    `gorm:"size:20" json:"apartment_number,omitempty"`
	ZipCode          int        `gorm:"not null" json:"zip_code"`
	DateOfBirth      time.Time  `gorm:"type:date;not null" json:"date_of_birth"`
	BirthYear        int        `gorm:"not null;index" json:"birth_year"`
	RegistrationDate *time.Time `gorm:"type:date" json:"registration_date,omitempty"`
	Party            string     `gorm:"size:50;index" json:"party"`
	Precinct         string     `gorm:"size:10" json:"precinct"`
	V20State         bool       `gorm:"column:v20_state;not null;default:false" json:"v20state"`
	V21Town          bool       `gorm:"column:v21_town;not null;default:false" json:"v21town"`
	V21Primary       bool       `gorm:"column:v21_primary;not null;default:false" json:"v21primary"`
	V22General       bool       `gorm:"column:v22_general;not null;default:false" json:"v22general"`
	V23Town          bool       `gorm:"column:v23_town;not null;default:false" json:"v23town"`
	VoterScore       int        `gorm:"not null;index" json:"voter_score"`
	ImportBatch      string     `gorm:"size:36;index" json:"import_batch,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM
func (VoterRecord) TableName() string {
	return "voter_records"
}

// BeforeSave keeps BirthYear in step with DateOfBirth.
func (v *VoterRecord) BeforeSave(_ *gorm.DB) error {
	v.BirthYear = v.DateOfBirth.Year()
	return nil
}

// FullName renders "First Last".
func (v *VoterRecord) FullName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

// FormattedZip renders the zip code with leading zeros restored.
func (v *VoterRecord) FormattedZip() string {
	return fmt.Sprintf("%05d", v.ZipCode)
}

// Participated reports the flag for e.
func (v *VoterRecord) Participated(e Election) bool {
	switch e {
	case ElectionV20State:
		return v.V20State
	case ElectionV21Town:
		return v.V21Town
	case ElectionV21Primary:
		return v.V21Primary
	case ElectionV22General:
		return v.V22General
	case ElectionV23Town:
		return v.V23Town
	}
	return false
}

// SetParticipated sets the flag for e.
func (v *VoterRecord) SetParticipated(e Election, voted bool) {
	switch e {
	case ElectionV20State:
		v.V20State = voted
	case ElectionV21Town:
		v.V21Town = voted
	case ElectionV21Primary:
		v.V21Primary = voted
	case ElectionV22General:
		v.V22General = voted
	case ElectionV23Town:
		v.V23Town = voted
	}
}

// VoterCriteria selects voter records. Nil fields and an empty
// ParticipatedIn impose no constraint; set fields are ANDed.
type VoterCriteria struct {
	Party          *string    `json:"party,omitempty" validate:"omitempty,max=50"`
	MinBirthYear   *int       `json:"min_birth_year,omitempty" validate:"omitempty,gte=1800,lte=2200"`
	MaxBirthYear   *int       `json:"max_birth_year,omitempty" validate:"omitempty,gte=1800,lte=2200"`
	Score          *int       `json:"score,omitempty" validate:"omitempty,gte=0,lte=5"`
	ParticipatedIn []Election `json:"participated_in,omitempty" validate:"dive,oneof=v20state v21town v21primary v22general v23town"`
	Limit          int        `json:"limit,omitempty" validate:"gte=0,lte=1000"`
	Offset         int        `json:"offset,omitempty" validate:"gte=0"`
}

// VoterFilterOptions are the choices offered to clients building criteria.
type VoterFilterOptions struct {
	Parties   []string   `json:"parties"`
	Years     []int      `json:"years"`
	Scores    []int      `json:"scores"`
	Elections []Election `json:"elections"`
}
