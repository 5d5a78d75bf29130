// Package domain contains core concepts of the scoped messaging system.
// This file defines Chat scopes and their membership rules.
// No storage, network, or UI logic should be added here.
package domain

import "time"

type ChatID string

type ChatKind string

const (
	KindGroup   ChatKind = "group"
	KindPrivate ChatKind = "private"
)

// LastMessage is a denormalized cache of the newest message in a chat,
// refreshed best-effort on every send. Its absence or staleness never
// affects the message list itself.
type LastMessage struct {
	Text   string
	Sender string
	At     time.Time
}

// Chat is a named conversation scope holding an ordered message collection.
//
// Private chats carry an explicit member set fixed at creation. Group
// chats carry none: their membership is recomputed on every read from
// the roster group referenced by GroupID, so roster changes are
// reflected immediately and are never cached stale in the chat record.
type Chat struct {
	ID          ChatID
	Kind        ChatKind
	Name        string
	Description string
	CreatedBy   UserID
	CreatedAt   time.Time
	GroupID     string
	Members     []UserID
	LastMessage *LastMessage
}
