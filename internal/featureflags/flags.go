// Package featureflags evaluates runtime toggles configured through FEATURE_FLAGS.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// RankedSuggestions orders friend suggestions by mutual friend count
// instead of profile id.
const RankedSuggestions = "ranked_suggestions"

type rule struct {
	raw     string
	percent int // 0..100
}

// Flags holds parsed rules of the form "name=on", "name=off" or "name=N%".
type Flags struct {
	rules map[string]rule
}

// Parse reads a comma separated list such as
// "ranked_suggestions=on,report_cache=50%". Malformed entries are ignored.
func Parse(raw string) *Flags {
	f := &Flags{rules: make(map[string]rule)}
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			f.rules[name] = r
		}
	}
	return f
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{raw: value, percent: 100}, true
	case "off", "false", "0":
		return rule{raw: value}, true
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if !strings.HasSuffix(value, "%") || err != nil {
		return rule{}, false
	}
	return rule{raw: value, percent: min(max(pct, 0), 100)}, true
}

// Enabled reports whether name is on for profileID. Partial rollouts hash
// the profile into a stable bucket, so profile 0 only sees fully enabled flags.
func (f *Flags) Enabled(name string, profileID uint) bool {
	if f == nil {
		return false
	}
	r, ok := f.rules[normalize(name)]
	switch {
	case !ok || r.percent == 0:
		return false
	case r.percent == 100:
		return true
	case profileID == 0:
		return false
	}
	return bucket(name, profileID) < r.percent
}

// On reports whether name is fully enabled, for checks with no profile in scope.
func (f *Flags) On(name string) bool {
	return f.Enabled(name, 0)
}

// Snapshot evaluates every configured flag for profileID.
func (f *Flags) Snapshot(profileID uint) map[string]bool {
	if f == nil {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(f.rules))
	for name := range f.rules {
		out[name] = f.Enabled(name, profileID)
	}
	return out
}

// Raw returns the configured value of every flag.
func (f *Flags) Raw() map[string]string {
	if f == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(f.rules))
	for name, r := range f.rules {
		out[name] = r.raw
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, profileID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), profileID)
	return int(h.Sum32() % 100)
}
