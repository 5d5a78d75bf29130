// Package notify decides, per incoming message, whether to raise a
// platform notification.
package notify

import (
	"portal-chat/contract"
	"portal-chat/domain"
)

const prefPrefix = "notify:"

// PrefStore holds the per-chat notification preference on the local
// device. The default is enabled: only an explicit opt-out is stored.
type PrefStore struct {
	store contract.LocalStore
}

func NewPrefStore(store contract.LocalStore) *PrefStore {
	return &PrefStore{store: store}
}

func prefKey(chatID domain.ChatID) string {
	return prefPrefix + string(chatID)
}

func (p *PrefStore) Enabled(chatID domain.ChatID) bool {
	value, ok := p.store.Get(prefKey(chatID))
	if !ok {
		return true
	}
	return value != "off"
}

func (p *PrefStore) SetEnabled(chatID domain.ChatID, enabled bool) error {
	if enabled {
		return p.store.Remove(prefKey(chatID))
	}
	return p.store.Set(prefKey(chatID), "off")
}
