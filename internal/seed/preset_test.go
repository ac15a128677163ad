package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreset(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Options
		wantErr bool
	}{
		{
			name: "partial override keeps defaults",
			yaml: "profiles: 500\nengagement_rate: 40\n",
			want: Options{
				Profiles:        500,
				NotesPerProfile: DefaultOptions.NotesPerProfile,
				FriendsPer:      DefaultOptions.FriendsPer,
				FollowsPer:      DefaultOptions.FollowsPer,
				EngagementRate:  40,
			},
		},
		{name: "empty file", yaml: "", want: DefaultOptions},
		{name: "negative count", yaml: "profiles: -1\n", wantErr: true},
		{name: "rate above 100", yaml: "engagement_rate: 150\n", wantErr: true},
		{name: "not yaml", yaml: "profiles: [1, 2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePreset([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "busy.yml")
	require.NoError(t, os.WriteFile(path, []byte("friends_per_profile: 20\n"), 0o600))

	opts, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, 20, opts.FriendsPer)

	_, err = LoadPreset(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
