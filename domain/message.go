package domain

import (
	"sort"
	"time"
)

type MessageType string

const (
	MessageText MessageType = "text"
	MessageCode MessageType = "code"
)

// Message represents one chat message. The chat it belongs to is not a
// field: the storage path is the sole source of truth for that
// relationship.
type Message struct {
	ID string
	// SenderName is the display name captured at send time. It does not
	// update retroactively if the sender later renames.
	SenderID     UserID
	SenderName   string
	SenderRole   string
	Content      string
	SentAt       time.Time
	Type         MessageType
	CodeLanguage string
	ReplyTo      *ReplyRef
	Mentions     []UserID
}

// ReplyRef attaches a truncated quotation of a prior message for context.
type ReplyRef struct {
	MessageID  string
	SenderName string
	Snippet    string
}

const snippetRunes = 50

// Snippet returns the first 50 runes of content, with a trailing
// ellipsis when the source is longer.
func Snippet(content string) string {
	r := []rune(content)
	if len(r) <= snippetRunes {
		return content
	}
	return string(r[:snippetRunes]) + "…"
}

// SortMessages orders messages by ascending SentAt. The sort is stable
// so the store's insertion order breaks ties between equal timestamps.
func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})
}
