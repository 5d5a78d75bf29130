// Package search maintains a full-text index over chat messages so
// history can be queried by content.
package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"

	"portal-chat/domain"
)

type Hit struct {
	MessageID string
	ChatID    domain.ChatID
	Sender    string
}

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

// IndexMessage upserts one message. Re-indexing the same id is a no-op
// update, so feeding full snapshots is safe.
func (i *Index) IndexMessage(chatID domain.ChatID, message domain.Message) error {
	doc := bluge.NewDocument(message.ID).
		AddField(bluge.NewKeywordField("chat", string(chatID)).StoreValue()).
		AddField(bluge.NewKeywordField("sender", message.SenderName).StoreValue()).
		AddField(bluge.NewTextField("content", message.Content))
	return i.writer.Update(doc.ID(), doc)
}

// ObserveSnapshot indexes every message of a delivered snapshot. Meant
// to hang off the view's message hook; indexing failures are logged,
// never surfaced, since search is a convenience over the message list.
func (i *Index) ObserveSnapshot(chat domain.Chat, messages []domain.Message) {
	for _, message := range messages {
		if err := i.IndexMessage(chat.ID, message); err != nil {
			i.log.Warn("Message indexing failed", "chat", chat.ID, "message", message.ID, "error", err)
		}
	}
}

// Search matches query against message content within one chat.
func (i *Index) Search(ctx context.Context, chatID domain.ChatID, query string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField("content")).
		AddMust(bluge.NewTermQuery(string(chatID)).SetField("chat"))

	iter, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	match, err := iter.Next()
	for err == nil && match != nil {
		hit := Hit{ChatID: chatID}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "sender":
				hit.Sender = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = iter.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
