//go:generate go run go.uber.org/mock/mockgen -source=message_store.go -destination=../mocks/mock_message_store.go -package=mocks
package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"portal-chat/contract"
	"portal-chat/domain"
)

type IMessageStore interface {
	Subscribe(chatID domain.ChatID, onSnapshot func([]domain.Message)) contract.Subscription
	Unsubscribe(sub contract.Subscription)
	Append(ctx context.Context, chatID domain.ChatID, message domain.Message) error
	RemoveOwn(ctx context.Context, chatID domain.ChatID, messageID string, callerID domain.UserID) error
}

// MessageStore adapts the generic tree store to a chat's ordered
// message collection at "chats/{id}/messages".
type MessageStore struct {
	store contract.TreeStore
	log   *slog.Logger
}

func NewMessageStore(store contract.TreeStore, log *slog.Logger) *MessageStore {
	return &MessageStore{store: store, log: log}
}

func messagesPath(chatID domain.ChatID) string {
	return "chats/" + string(chatID) + "/messages"
}

// Subscribe attaches a push listener to the chat's messages. Every
// mutation delivers the entire current message set, not a delta;
// callers re-sort by timestamp before rendering. Documents that fail
// to decode are skipped, never fatal.
func (s *MessageStore) Subscribe(chatID domain.ChatID, onSnapshot func([]domain.Message)) contract.Subscription {
	return s.store.Subscribe(messagesPath(chatID), func(snap contract.Snapshot) {
		messages := make([]domain.Message, 0, len(snap.Docs))
		for _, doc := range snap.Docs {
			message, err := toMessage(doc)
			if err != nil {
				s.log.Warn("Skipping undecodable message", "chat", chatID, "error", err)
				continue
			}
			messages = append(messages, message)
		}
		onSnapshot(messages)
	})
}

func (s *MessageStore) Unsubscribe(sub contract.Subscription) {
	s.store.Unsubscribe(sub)
}

// Append writes a new message, then opportunistically refreshes the
// chat's lastMessage cache. The two writes are deliberately not
// transactional: a crash in between leaves a stale lastMessage, which
// is accepted and never affects the message list itself.
func (s *MessageStore) Append(ctx context.Context, chatID domain.ChatID, message domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	if _, err := s.store.Push(messagesPath(chatID), doc); err != nil {
		return err
	}

	err = s.store.Update("chats/"+string(chatID), map[string]any{
		"lastMessageText":   message.Content,
		"lastMessageSender": message.SenderName,
		"lastMessageAt":     message.SentAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		s.log.Warn("lastMessage cache refresh failed", "chat", chatID, "error", err)
	}
	return nil
}

// RemoveOwn deletes a message. This layer assumes, without enforcing,
// that callerID is the original sender; enforcement, if any, lives in
// the store collaborator's access rules.
func (s *MessageStore) RemoveOwn(ctx context.Context, chatID domain.ChatID, messageID string, callerID domain.UserID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Debug("Removing message", "chat", chatID, "message", messageID, "caller", callerID)
	return s.store.Remove(messagesPath(chatID) + "/" + messageID)
}
