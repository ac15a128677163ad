// Package notifications publishes social graph events to per-profile Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"quad/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event types.
const (
	EventFriendAdded   = "friend_added"
	EventFriendRemoved = "friend_removed"
	EventNewFollower  = "new_follower"
	EventNoteLiked     = "note_liked"
	EventNoteCommented = "note_commented"
)

const channelPrefix = "notifications:profile:"

// Event is the JSON payload delivered to a profile channel.
type Event struct {
	Type      string    `json:"type"`
	ActorID   uint      `json:"actor_id"`
	ProfileID uint      `json:"profile_id"`
	NoteID    uint      `json:"note_id,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier publishes events. A nil Redis client turns every call into a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// ProfileChannel derives the Redis channel name for a profile.
func ProfileChannel(profileID uint) string {
	return channelPrefix + strconv.FormatUint(uint64(profileID), 10)
}

// Publish sends ev to the channel of ev.ProfileID.
func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.rdb.Publish(ctx, ProfileChannel(ev.ProfileID), payload).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		return err
	}
	return nil
}

// PublishAsync publishes in the background and only logs failures. Callers
// use it after a committed write where delivery must not fail the request.
func (n *Notifier) PublishAsync(ev Event) {
	if n == nil || n.rdb == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := n.Publish(ctx, ev); err != nil {
			observability.GlobalLogger.Warn("notification publish failed",
				slog.String("type", ev.Type),
				slog.Uint64("profile_id", uint64(ev.ProfileID)),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Subscribe listens on every profile channel and calls onEvent for each
// decodable message until ctx is cancelled.
func (n *Notifier) Subscribe(ctx context.Context, onEvent func(Event)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, channelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					observability.GlobalLogger.Warn("dropping malformed notification",
						slog.String("channel", msg.Channel))
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							observability.GlobalLogger.Error("notification handler panic",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()
	return nil
}
