package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func signToken(t *testing.T, secret, sub string, exp time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(exp).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/test", AuthRequired(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"profileID": ProfileID(c)})
	})

	tests := []struct {
		name              string
		authHeader        string
		expectedStatus    int
		expectedProfileID uint
	}{
		{
			name:              "Happy Path",
			authHeader:        "Bearer " + signToken(t, testSecret, strconv.Itoa(123), time.Hour),
			expectedStatus:    http.StatusOK,
			expectedProfileID: 123,
		},
		{
			name:           "Missing Header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Token",
			authHeader:     "Bearer malformed.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + signToken(t, testSecret, "123", -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Secret",
			authHeader:     "Bearer " + signToken(t, "another-secret-another-secret-00", "123", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Non Numeric Subject",
			authHeader:     "Bearer " + signToken(t, testSecret, "alice", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]uint
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedProfileID, body["profileID"])
			}
		})
	}
}

func TestWebSocketAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/ws", WebSocketAuth(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"profileID": ProfileID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+signToken(t, testSecret, "12", time.Hour), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]uint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(12), body["profileID"])

	req = httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
