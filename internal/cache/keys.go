package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quad/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	ProfileKeyPrefix     = "profile:%d"
	VoterReportKeyPrefix = "voter:report:"
	VoterOptionsKey      = "voter:filter_options"
)

const (
	ProfileTTL = 5 * time.Minute

	// DefaultReportTTL applies when REPORT_CACHE_TTL_SECONDS is unset.
	DefaultReportTTL = 10 * time.Minute
)

func ProfileKey(profileID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

// VoterReportKey hashes the JSON form of criteria so equal criteria share an entry.
func VoterReportKey(criteria interface{}) (string, error) {
	raw, err := json.Marshal(criteria)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(raw)
	return VoterReportKeyPrefix + hex.EncodeToString(sum[:]), nil
}

// Aside loads key into dest. On a miss, or with no client, it calls load,
// which must fill dest, and stores the result for ttl. Redis failures never
// fail the call.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
				observability.CacheLookups.WithLabelValues("hit").Inc()
				return nil
			}
		case errors.Is(err, redis.Nil):
		default:
			observability.CacheLookups.WithLabelValues("error").Inc()
		}
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePrefix deletes every key starting with prefix using SCAN.
func InvalidatePrefix(ctx context.Context, prefix string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}

// InvalidateVoterReports drops every cached report and the filter options.
func InvalidateVoterReports(ctx context.Context) {
	InvalidatePrefix(ctx, VoterReportKeyPrefix)
	Invalidate(ctx, VoterOptionsKey)
}
