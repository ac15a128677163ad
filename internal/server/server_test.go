package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"quad/internal/config"
	"quad/internal/models"
	"quad/internal/repository"
	"quad/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "server-test-secret-0123456789abcdef0123456789"

func newTestApp(t *testing.T, flags string) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{
		Env:             "test",
		JWTSecret:       testSecret,
		FeatureFlags:    flags,
		ImportBatchSize: 2,
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	return s.App(), db
}

func bearer(t *testing.T, profileID uint) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(profileID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealthChecks(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp, _ := do(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(body, &ready))
	assert.Equal(t, "healthy", ready.Status)
	assert.Equal(t, "unavailable", ready.Checks["redis"])
}

func TestProfileEndpoints(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp, body := do(t, app, http.MethodPost, "/api/profiles", "", map[string]string{
		"first_name": "Grace",
		"last_name":  "Hopper",
		"email":      "Grace@Example.com",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var created models.Profile
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "grace@example.com", created.Email)

	resp, _ = do(t, app, http.MethodPost, "/api/profiles", "", map[string]string{"first_name": "NoEmail"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/profiles/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/profiles/999", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPut, "/api/profiles/me", "", map[string]string{"city": "Arlington"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = do(t, app, http.MethodPut, "/api/profiles/me", bearer(t, created.ID), map[string]string{"city": "Arlington"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var updated models.Profile
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Arlington", updated.City)

	resp, body = do(t, app, http.MethodGet, fmt.Sprintf("/api/profiles/%d/stats", created.ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats models.ProfileStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, created.ID, stats.ProfileID)
	assert.Zero(t, stats.NotesCount)
}

func TestFriendEndpoints(t *testing.T) {
	app, db := newTestApp(t, "")
	p := testutil.CreateProfiles(t, db, "http", 3)
	auth := bearer(t, p[0].ID)

	resp, _ := do(t, app, http.MethodPost, fmt.Sprintf("/api/friends/%d", p[1].ID), auth, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, fmt.Sprintf("/api/friends/%d", p[1].ID), auth, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, app, http.MethodPost, fmt.Sprintf("/api/friends/%d", p[0].ID), auth, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), models.CodeInvalidRelation)

	resp, _ = do(t, app, http.MethodPost, "/api/friends/999", auth, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, fmt.Sprintf("/api/profiles/%d/friends", p[1].ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var friends []models.Profile
	require.NoError(t, json.Unmarshal(body, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, p[0].ID, friends[0].ID)

	resp, body = do(t, app, http.MethodGet, fmt.Sprintf("/api/profiles/%d/suggestions", p[0].ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var suggestions []models.FriendSuggestion
	require.NoError(t, json.Unmarshal(body, &suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, p[2].ID, suggestions[0].Profile.ID)

	resp, body = do(t, app, http.MethodPost, fmt.Sprintf("/api/follows/%d/toggle", p[2].ID), auth, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"following":true}`, string(body))

	resp, body = do(t, app, http.MethodGet, fmt.Sprintf("/api/profiles/%d/followers", p[2].ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var followers []models.Profile
	require.NoError(t, json.Unmarshal(body, &followers))
	require.Len(t, followers, 1)
	assert.Equal(t, p[0].ID, followers[0].ID)

	resp, _ = do(t, app, http.MethodDelete, fmt.Sprintf("/api/friends/%d", p[1].ID), auth, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNoteEndpoints(t *testing.T) {
	app, db := newTestApp(t, "")
	p := testutil.CreateProfiles(t, db, "notes", 2)
	author, reader := bearer(t, p[0].ID), bearer(t, p[1].ID)

	resp, body := do(t, app, http.MethodPost, "/api/notes", author, map[string]string{
		"title":   "Hello",
		"content": "First note",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var note models.Note
	require.NoError(t, json.Unmarshal(body, &note))

	likePath := fmt.Sprintf("/api/notes/%d/like", note.ID)
	resp, body = do(t, app, http.MethodPost, likePath, reader, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var toggled models.ToggleResult
	require.NoError(t, json.Unmarshal(body, &toggled))
	assert.True(t, toggled.Active)
	assert.Equal(t, int64(1), toggled.Count)

	resp, body = do(t, app, http.MethodPost, likePath, reader, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &toggled))
	assert.False(t, toggled.Active)
	assert.Zero(t, toggled.Count)

	resp, _ = do(t, app, http.MethodPost, fmt.Sprintf("/api/notes/%d/bookmark", note.ID), reader, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, fmt.Sprintf("/api/profiles/%d/bookmarked", p[1].ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var bookmarked []models.Note
	require.NoError(t, json.Unmarshal(body, &bookmarked))
	require.Len(t, bookmarked, 1)
	assert.Equal(t, int64(1), bookmarked[0].BookmarkCount)

	resp, body = do(t, app, http.MethodPost, fmt.Sprintf("/api/notes/%d/comments", note.ID), reader, map[string]string{"content": "Nice"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var comment models.Comment
	require.NoError(t, json.Unmarshal(body, &comment))

	resp, _ = do(t, app, http.MethodPut, fmt.Sprintf("/api/notes/%d/comments/%d", note.ID, comment.ID), author, map[string]string{"content": "hijack"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPut, fmt.Sprintf("/api/notes/%d", note.ID), reader, map[string]string{"title": "mine now"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/notes?sort=sideways", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, fmt.Sprintf("/api/notes/%d", note.ID), author, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, fmt.Sprintf("/api/notes/%d", note.ID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

const voterCSV = "Last Name,First Name,Street Number,Street Name,Apartment Number,Zip Code,Date of Birth,Date of Registration,Party Affiliation,Precinct Number,v20state,v21town,v21primary,v22general,v23town,voter_score\n" +
	"Adams,Ann,1,Elm St,,02459,03/01/1955,,D,1,TRUE,FALSE,FALSE,TRUE,FALSE,4\n" +
	"Baker,Bob,2,Elm St,,02459,03/01/1975,,D,1,TRUE,FALSE,FALSE,FALSE,FALSE,2\n" +
	"Cole,Cat,3,Elm St,,02459,03/01/1960,,R,2,FALSE,FALSE,FALSE,TRUE,FALSE,4\n" +
	"Bad,Row,x,Elm St,,02459,03/01/1960,,R,2,FALSE,FALSE,FALSE,TRUE,FALSE,4\n"

func uploadVoters(t *testing.T, app *fiber.App, auth, csv string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "voters.csv")
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/voters/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestVoterEndpoints(t *testing.T) {
	app, db := newTestApp(t, "")
	p := testutil.CreateProfiles(t, db, "clerk", 1)

	resp, body := uploadVoters(t, app, bearer(t, p[0].ID), voterCSV)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var imported importResponse
	require.NoError(t, json.Unmarshal(body, &imported))
	assert.Equal(t, 3, imported.Succeeded)
	assert.Equal(t, 1, imported.Failed)
	require.Len(t, imported.Errors, 1)
	assert.Equal(t, 5, imported.Errors[0].Line)
	assert.Equal(t, "street_number", imported.Errors[0].Field)

	var reasons struct {
		Errors []struct {
			Raw   []string `json:"raw"`
			Error string   `json:"error"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(body, &reasons))
	require.Len(t, reasons.Errors, 1)
	assert.Equal(t, "x", reasons.Errors[0].Raw[2])
	assert.Contains(t, reasons.Errors[0].Error, `parsing "x": invalid syntax`)

	resp, body = do(t, app, http.MethodGet, "/api/voters?party=D&min_birth_year=1950&max_birth_year=1970", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var records []models.VoterRecord
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Ann", records[0].FirstName)

	resp, body = do(t, app, http.MethodGet, "/api/voters/report?participated_in=v22general&limit=1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var report models.VoterReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Len(t, report.Records, 1)
	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, map[string]int{"D": 1, "R": 1}, report.Summary.Party.Counts)

	resp, body = do(t, app, http.MethodGet, "/api/voters/report?party=G", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &report))
	assert.True(t, report.Summary.BirthYear.NoData)
	assert.True(t, report.Summary.Party.NoData)
	assert.True(t, report.Summary.Elections.NoData)

	resp, _ = do(t, app, http.MethodGet, "/api/voters?score=high", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/voters?participated_in=v19x", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/voters?min_birth_year=1980&max_birth_year=1950", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, "/api/voters/options", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var options models.VoterFilterOptions
	require.NoError(t, json.Unmarshal(body, &options))
	assert.Equal(t, []string{"D", "R"}, options.Parties)
	assert.Equal(t, models.Elections, options.Elections)

	resp, _ = do(t, app, http.MethodGet, "/api/voters/999", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/voters/import", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestFeatureFlagsEndpoint(t *testing.T) {
	app, db := newTestApp(t, "ranked_suggestions=true")
	p := testutil.CreateProfiles(t, db, "flags", 1)

	resp, body := do(t, app, http.MethodGet, "/api/feature-flags", bearer(t, p[0].ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"flags":{"ranked_suggestions":true}}`, string(body))
}

func TestNotificationStream_RequiresUpgrade(t *testing.T) {
	app, db := newTestApp(t, "")
	p := testutil.CreateProfiles(t, db, "ws", 1)
	tok := strings.TrimPrefix(bearer(t, p[0].ID), "Bearer ")

	resp, _ := do(t, app, http.MethodGet, "/api/ws/notifications?token="+tok, "", nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "comment ID", humanizeParam("commentId"))
	assert.Equal(t, "voter batch ID", humanizeParam("voterBatchId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestFriendSuggestions_ReturnsWholeComplement(t *testing.T) {
	app, db := newTestApp(t, "")
	p := testutil.CreateProfiles(t, db, "crowd", 120)
	_, err := repository.NewFriendRepository(db).Add(context.Background(), p[0].ID, p[1].ID)
	require.NoError(t, err)

	resp, body := do(t, app, http.MethodGet, fmt.Sprintf("/api/profiles/%d/suggestions", p[0].ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var suggestions []models.FriendSuggestion
	require.NoError(t, json.Unmarshal(body, &suggestions))
	require.Len(t, suggestions, 118)
	for _, sg := range suggestions {
		assert.NotEqual(t, p[0].ID, sg.Profile.ID)
		assert.NotEqual(t, p[1].ID, sg.Profile.ID)
	}

	resp, body = do(t, app, http.MethodGet, fmt.Sprintf("/api/profiles/%d/suggestions?limit=5", p[0].ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &suggestions))
	assert.Len(t, suggestions, 5)
}
