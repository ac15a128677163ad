package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	f := Parse("a=on,b=off,c=TRUE,d=0,all=100%,none=0%,bad=maybe,half=50%")

	tests := []struct {
		name string
		want bool
	}{
		{"a", true},
		{"b", false},
		{"c", true},
		{"d", false},
		{"all", true},
		{"none", false},
		{"bad", false},
		{"missing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Enabled(tt.name, 7))
		})
	}

	first := f.Enabled("half", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, f.Enabled("half", 42))
	}
	assert.False(t, f.On("half"))
}

func TestParse_IgnoresMalformed(t *testing.T) {
	f := Parse(" junk , ranked_suggestions = ON ,=on,x=")
	assert.Equal(t, map[string]string{"ranked_suggestions": "on"}, f.Raw())
	assert.True(t, f.On(RankedSuggestions))
	assert.Equal(t, map[string]bool{"ranked_suggestions": true}, f.Snapshot(3))
}

func TestNilFlags(t *testing.T) {
	var f *Flags
	assert.False(t, f.On(RankedSuggestions))
	assert.Empty(t, f.Snapshot(1))
	assert.Empty(t, f.Raw())
}
