package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestNewFriendship_CanonicalOrder(t *testing.T) {
	f := NewFriendship(9, 4)
	assert.Equal(t, uint(4), f.ProfileAID)
	assert.Equal(t, uint(9), f.ProfileBID)
	assert.Equal(t, uint(9), f.Other(4))
	assert.Equal(t, uint(4), f.Other(9))

	g := NewFriendship(4, 9)
	assert.Equal(t, f.ProfileAID, g.ProfileAID)
	assert.Equal(t, f.ProfileBID, g.ProfileBID)
}

func TestFriendship_BeforeCreate(t *testing.T) {
	f := &Friendship{ProfileAID: 7, ProfileBID: 2}
	require.NoError(t, f.BeforeCreate(nil))
	assert.Equal(t, uint(2), f.ProfileAID)
	assert.Equal(t, uint(7), f.ProfileBID)

	self := &Friendship{ProfileAID: 3, ProfileBID: 3}
	assert.ErrorIs(t, self.BeforeCreate(nil), ErrSelfRelation)
}

func TestFollow_BeforeCreateRejectsSelf(t *testing.T) {
	assert.ErrorIs(t, (&Follow{FollowerID: 1, FolloweeID: 1}).BeforeCreate(nil), ErrSelfRelation)
	assert.NoError(t, (&Follow{FollowerID: 1, FolloweeID: 2}).BeforeCreate(nil))
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewInvalidRelationError("befriend", 3))
	assert.True(t, HasCode(err, CodeInvalidRelation))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewNotFoundError("Note", 1), fiber.StatusNotFound},
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{NewForbiddenError("no"), fiber.StatusForbidden},
		{NewInvalidRelationError("follow", 1), fiber.StatusUnprocessableEntity},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRecordParseError(t *testing.T) {
	cause := errors.New("not a number")
	err := &RecordParseError{Line: 4, Raw: []string{"x"}, Field: "zip_code", Err: cause}
	assert.Equal(t, "line 4: field zip_code: not a number", err.Error())
	assert.ErrorIs(t, err, cause)

	data, jerr := json.Marshal(err)
	require.NoError(t, jerr)
	assert.JSONEq(t, `{"line":4,"raw":["x"],"field":"zip_code","error":"not a number"}`, string(data))
}

func TestVoterRecord_Helpers(t *testing.T) {
	v := &VoterRecord{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		ZipCode:     2134,
		DateOfBirth: time.Date(1962, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, v.BeforeSave(nil))
	assert.Equal(t, 1962, v.BirthYear)
	assert.Equal(t, "02134", v.FormattedZip())
	assert.Equal(t, "Ada Lovelace", v.FullName())

	for _, e := range Elections {
		assert.False(t, v.Participated(e))
		v.SetParticipated(e, true)
		assert.True(t, v.Participated(e))
	}
}

func TestParseElection(t *testing.T) {
	e, err := ParseElection(" V22General ")
	require.NoError(t, err)
	assert.Equal(t, ElectionV22General, e)
	assert.Equal(t, "v22_general", e.Column())

	_, err = ParseElection("v19state")
	assert.True(t, HasCode(err, CodeValidation))
}

func TestProfile_DisplayHelpers(t *testing.T) {
	p := &Profile{FirstName: "Grace", LastName: "Hopper"}
	assert.Equal(t, "Grace Hopper", p.DisplayName())
	assert.Equal(t, DefaultAvatarURL, p.AvatarOrDefault())
	p.AvatarURL = "https://cdn.example.com/g.png"
	assert.Equal(t, "https://cdn.example.com/g.png", p.AvatarOrDefault())
}

func TestVoterRecord_PartyColumnFitsFullNames(t *testing.T) {
	s, err := schema.Parse(&VoterRecord{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	party := s.LookUpField("party")
	require.NotNil(t, party)
	assert.Equal(t, 50, party.Size)
}
