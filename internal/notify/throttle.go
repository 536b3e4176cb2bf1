// Package notify decides when expiry alerts may be sent. The throttle
// guarantees at most one alert per user per calendar day, backed by a small
// persistent key-value store.
package notify

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/napatw/pantry-bot/internal/expiry"
	"gitlab.com/napatw/pantry-bot/internal/logger"
)

// notifiedSentinel marks a (user, day) pair as already alerted.
const notifiedSentinel = "1"

// KeyValueStore is the minimal persistent string store the throttle needs.
// Get returns ok=false when the key is absent. Implementations do not need
// transactions; the throttle is deliberately best-effort.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Throttle gates expiry notifications to one per user per day.
type Throttle struct {
	store KeyValueStore
}

// NewThrottle creates a Throttle over the given store.
func NewThrottle(store KeyValueStore) *Throttle {
	return &Throttle{store: store}
}

// key builds the per-user-per-day storage key.
func key(userID int64, today time.Time) string {
	return fmt.Sprintf("expiringNotified:%d:%s", userID, today.Format("2006-01-02"))
}

// ShouldNotify reports whether an alert may be sent to userID today for the
// given classification. It returns false when nothing is urgent, when an
// alert already went out today, or when the store cannot be read (storage
// trouble silently suppresses the alert rather than crashing the loop).
//
// The read here and the write in MarkNotified are not atomic; two concurrent
// callers can both pass. The worst outcome is one duplicate alert, which is
// accepted.
func (t *Throttle) ShouldNotify(ctx context.Context, userID int64, c expiry.Classification, today time.Time) bool {
	if c.Total() == 0 {
		return false
	}

	value, ok, err := t.store.Get(ctx, key(userID, today))
	if err != nil {
		logger.Log.Warn().Err(err).
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Failed to read notify flag, skipping alert")
		return false
	}
	if ok && value == notifiedSentinel {
		return false
	}
	return true
}

// MarkNotified records that an alert went out to userID today. Storage
// failures are logged and swallowed; the only consequence is a possible
// repeat alert on the next run.
func (t *Throttle) MarkNotified(ctx context.Context, userID int64, today time.Time) {
	if err := t.store.Set(ctx, key(userID, today), notifiedSentinel); err != nil {
		logger.Log.Warn().Err(err).
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Failed to write notify flag")
	}
}
