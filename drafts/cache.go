// Package drafts persists unsent compose-box text per chat on the
// local device, so revisiting a chat repopulates the compose box even
// across reloads of the view.
package drafts

import (
	"portal-chat/contract"
	"portal-chat/domain"
)

// Keys carry the chat id only, not the user id: on a shared device two
// accounts see each other's drafts.
const keyPrefix = "draft:"

type Cache struct {
	store contract.LocalStore
}

func NewCache(store contract.LocalStore) *Cache {
	return &Cache{store: store}
}

func key(chatID domain.ChatID) string {
	return keyPrefix + string(chatID)
}

// Set persists in-progress text for a chat. Empty text clears the entry.
func (c *Cache) Set(chatID domain.ChatID, text string) error {
	if text == "" {
		return c.store.Remove(key(chatID))
	}
	return c.store.Set(key(chatID), text)
}

func (c *Cache) Get(chatID domain.ChatID) string {
	text, _ := c.store.Get(key(chatID))
	return text
}

// Clear removes the draft. Called exactly on a successful send; a
// failed send leaves the draft intact so typed content is not lost.
func (c *Cache) Clear(chatID domain.ChatID) error {
	return c.store.Remove(key(chatID))
}
