package notify

import (
	"log/slog"
	"sync"
	"time"

	"portal-chat/contract"
	"portal-chat/domain"
)

// DefaultFreshness is the age below which a message counts as a live
// arrival rather than historical backfill.
const DefaultFreshness = 5 * time.Second

// Dispatcher evaluates each snapshot the message store delivers and
// raises a platform notification for fresh messages from other
// senders, gated by the per-chat preference and platform permission.
//
// Because the store pushes full snapshots rather than deltas, the
// freshness window is what keeps a historical backfill from notifying
// for every old message. It is a best-effort heuristic, not a
// correctness guarantee: under clock skew or late delivery a message
// can be spuriously notified or silently missed.
type Dispatcher struct {
	self      domain.UserID
	prefs     *PrefStore
	notifier  contract.Notifier
	clock     contract.Clock
	freshness time.Duration
	log       *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDispatcher(self domain.UserID, prefs *PrefStore, notifier contract.Notifier,
	clock contract.Clock, freshness time.Duration, log *slog.Logger) *Dispatcher {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Dispatcher{
		self:      self,
		prefs:     prefs,
		notifier:  notifier,
		clock:     clock,
		freshness: freshness,
		log:       log,
		seen:      make(map[string]struct{}),
	}
}

// Observe processes one delivered snapshot. Messages are evaluated at
// most once: a snapshot identical to the previous one produces no
// duplicate notification.
func (d *Dispatcher) Observe(chat domain.Chat, messages []domain.Message) {
	for _, message := range messages {
		if !d.markSeen(message.ID) {
			continue
		}
		if message.SenderID == d.self {
			continue
		}
		if !d.prefs.Enabled(chat.ID) {
			continue
		}
		if d.notifier.PermissionState() != contract.PermissionGranted {
			continue
		}
		if d.clock().Sub(message.SentAt) >= d.freshness {
			// Historical backfill, not a live arrival.
			continue
		}
		d.log.Debug("Raising notification", "chat", chat.ID, "message", message.ID)
		d.notifier.Show(chat.Name, message.SenderName+": "+domain.Snippet(message.Content))
	}
}

// markSeen records the id and reports whether it was new.
func (d *Dispatcher) markSeen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	return true
}
