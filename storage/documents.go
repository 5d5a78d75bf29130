package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"

	"portal-chat/contract"
	"portal-chat/domain"
)

// Store documents are schemaless JSON objects; timestamps travel as
// ISO-8601 (RFC 3339) strings.

type messageDoc struct {
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	SenderRole   string    `json:"senderRole,omitempty"`
	Content      string    `json:"content"`
	Timestamp    string    `json:"timestamp"`
	Type         string    `json:"type"`
	CodeLanguage string    `json:"codeLanguage,omitempty"`
	ReplyTo      *replyDoc `json:"replyTo,omitempty"`
	Mentions     []string  `json:"mentions,omitempty"`
}

type replyDoc struct {
	MessageID  string `json:"messageId"`
	SenderName string `json:"senderName"`
	Snippet    string `json:"snippet"`
}

type chatDoc struct {
	Kind              string   `json:"kind"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	CreatedBy         string   `json:"createdBy"`
	CreatedAt         string   `json:"createdAt"`
	GroupID           string   `json:"groupId,omitempty"`
	Members           []string `json:"members,omitempty"`
	LastMessageText   string   `json:"lastMessageText,omitempty"`
	LastMessageSender string   `json:"lastMessageSender,omitempty"`
	LastMessageAt     string   `json:"lastMessageAt,omitempty"`
}

func fromMessage(message domain.Message) messageDoc {
	doc := messageDoc{
		SenderID:     string(message.SenderID),
		SenderName:   message.SenderName,
		SenderRole:   message.SenderRole,
		Content:      message.Content,
		Timestamp:    message.SentAt.UTC().Format(time.RFC3339Nano),
		Type:         string(message.Type),
		CodeLanguage: message.CodeLanguage,
		Mentions: lo.Map(message.Mentions, func(id domain.UserID, _ int) string {
			return string(id)
		}),
	}
	if message.ReplyTo != nil {
		doc.ReplyTo = &replyDoc{
			MessageID:  message.ReplyTo.MessageID,
			SenderName: message.ReplyTo.SenderName,
			Snippet:    message.ReplyTo.Snippet,
		}
	}
	return doc
}

func toMessage(raw contract.Doc) (domain.Message, error) {
	var doc messageDoc
	if err := json.Unmarshal(raw.Data, &doc); err != nil {
		return domain.Message{}, fmt.Errorf("message %s: %w", raw.ID, err)
	}
	sentAt, err := time.Parse(time.RFC3339Nano, doc.Timestamp)
	if err != nil {
		return domain.Message{}, fmt.Errorf("message %s: %w", raw.ID, err)
	}
	message := domain.Message{
		ID:           raw.ID,
		SenderID:     domain.UserID(doc.SenderID),
		SenderName:   doc.SenderName,
		SenderRole:   doc.SenderRole,
		Content:      doc.Content,
		SentAt:       sentAt,
		Type:         domain.MessageType(doc.Type),
		CodeLanguage: doc.CodeLanguage,
		Mentions: lo.Map(doc.Mentions, func(id string, _ int) domain.UserID {
			return domain.UserID(id)
		}),
	}
	if doc.ReplyTo != nil {
		message.ReplyTo = &domain.ReplyRef{
			MessageID:  doc.ReplyTo.MessageID,
			SenderName: doc.ReplyTo.SenderName,
			Snippet:    doc.ReplyTo.Snippet,
		}
	}
	return message, nil
}

func fromChat(chat domain.Chat) chatDoc {
	return chatDoc{
		Kind:        string(chat.Kind),
		Name:        chat.Name,
		Description: chat.Description,
		CreatedBy:   string(chat.CreatedBy),
		CreatedAt:   chat.CreatedAt.UTC().Format(time.RFC3339Nano),
		GroupID:     chat.GroupID,
		Members: lo.Map(chat.Members, func(id domain.UserID, _ int) string {
			return string(id)
		}),
	}
}

func toChat(raw contract.Doc) (domain.Chat, error) {
	var doc chatDoc
	if err := json.Unmarshal(raw.Data, &doc); err != nil {
		return domain.Chat{}, fmt.Errorf("chat %s: %w", raw.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, doc.CreatedAt)
	if err != nil {
		return domain.Chat{}, fmt.Errorf("chat %s: %w", raw.ID, err)
	}
	chat := domain.Chat{
		ID:          domain.ChatID(raw.ID),
		Kind:        domain.ChatKind(doc.Kind),
		Name:        doc.Name,
		Description: doc.Description,
		CreatedBy:   domain.UserID(doc.CreatedBy),
		CreatedAt:   createdAt,
		GroupID:     doc.GroupID,
		Members: lo.Map(doc.Members, func(id string, _ int) domain.UserID {
			return domain.UserID(id)
		}),
	}
	if doc.LastMessageText != "" || doc.LastMessageSender != "" {
		last := &domain.LastMessage{Text: doc.LastMessageText, Sender: doc.LastMessageSender}
		if at, err := time.Parse(time.RFC3339Nano, doc.LastMessageAt); err == nil {
			last.At = at
		}
		chat.LastMessage = last
	}
	return chat, nil
}
