package storage

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portal-chat/domain"
)

func testMessage(sender domain.UserID, name, content string, at time.Time) domain.Message {
	return domain.Message{
		SenderID:   sender,
		SenderName: name,
		Content:    content,
		SentAt:     at,
		Type:       domain.MessageText,
	}
}

func TestMessageStore_Append_And_Snapshot_Roundtrip(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	store := NewMessageStore(tree, slog.Default())
	chatID := domain.ChatID("c1")
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	var snapshots [][]domain.Message
	store.Subscribe(chatID, func(messages []domain.Message) {
		snapshots = append(snapshots, messages)
	})
	req.Len(snapshots, 1)
	req.Empty(snapshots[0])

	// When a message with reply and mentions is appended
	message := testMessage("u-alice", "Al", "pong @Bob", at)
	message.SenderRole = "intern"
	message.ReplyTo = &domain.ReplyRef{MessageID: "m0", SenderName: "Bob", Snippet: "ping"}
	message.Mentions = []domain.UserID{"u-bob"}
	req.NoError(store.Append(context.Background(), chatID, message))

	// Then the sender receives it back through the same subscription
	req.Len(snapshots, 2)
	req.Len(snapshots[1], 1)
	got := snapshots[1][0]
	req.NotEmpty(got.ID)
	req.Equal(message.SenderID, got.SenderID)
	req.Equal(message.SenderName, got.SenderName)
	req.Equal(message.SenderRole, got.SenderRole)
	req.Equal(message.Content, got.Content)
	req.True(message.SentAt.Equal(got.SentAt))
	req.Equal(message.ReplyTo, got.ReplyTo)
	req.Equal(message.Mentions, got.Mentions)
}

func TestMessageStore_Snapshot_Is_Full_Set_Not_Delta(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	store := NewMessageStore(tree, slog.Default())
	chatID := domain.ChatID("c1")
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	var snapshots [][]domain.Message
	store.Subscribe(chatID, func(messages []domain.Message) {
		snapshots = append(snapshots, messages)
	})

	req.NoError(store.Append(context.Background(), chatID, testMessage("u-a", "A", "one", at)))
	req.NoError(store.Append(context.Background(), chatID, testMessage("u-b", "B", "two", at.Add(time.Second))))

	// Every delivery contains the entire current message set
	req.Len(snapshots, 3)
	req.Len(snapshots[1], 1)
	req.Len(snapshots[2], 2)
}

func TestMessageStore_Ordering_Property(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	store := NewMessageStore(tree, slog.Default())
	chatID := domain.ChatID("c1")
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Given messages appended out of timestamp order (clock skew
	// between two clients)
	req.NoError(store.Append(context.Background(), chatID, testMessage("u-b", "B", "later", at.Add(time.Minute))))
	req.NoError(store.Append(context.Background(), chatID, testMessage("u-a", "A", "earlier", at)))

	var last []domain.Message
	store.Subscribe(chatID, func(messages []domain.Message) { last = messages })

	// When the caller re-sorts the snapshot as the view does
	domain.SortMessages(last)

	// Then ascending timestamp order holds regardless of arrival order
	req.Len(last, 2)
	req.Equal("earlier", last[0].Content)
	req.Equal("later", last[1].Content)
}

func TestMessageStore_Append_Refreshes_LastMessage_Cache(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	clock := func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	chats := NewChatDirectory(tree, staticDir{}, clock, slog.Default())
	store := NewMessageStore(tree, slog.Default())

	chat, err := chats.CreatePrivate(domain.Identity{ID: "u-a", Name: "A"}, "pair", "", []domain.UserID{"u-b"})
	req.NoError(err)

	at := clock().Add(time.Minute)
	req.NoError(store.Append(context.Background(), chat.ID, testMessage("u-a", "A", "newest", at)))

	listed, err := chats.ChatsFor(domain.Identity{ID: "u-a"})
	req.NoError(err)
	req.Len(listed, 1)
	req.NotNil(listed[0].LastMessage)
	req.Equal("newest", listed[0].LastMessage.Text)
	req.Equal("A", listed[0].LastMessage.Sender)
	req.True(at.Equal(listed[0].LastMessage.At))
}

func TestMessageStore_Append_Succeeds_When_Cache_Write_Fails(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	store := NewMessageStore(tree, slog.Default())
	chatID := domain.ChatID("no-chat-record")
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Given no chat record exists for the lastMessage update to land on
	// When appending
	err := store.Append(context.Background(), chatID, testMessage("u-a", "A", "hello", at))

	// Then the append itself still succeeds; the cache refresh is
	// best-effort and not transactional with it
	req.NoError(err)
	docs, err := tree.Children("chats/" + string(chatID) + "/messages")
	req.NoError(err)
	req.Len(docs, 1)
}

func TestMessageStore_RemoveOwn_Deletes_And_Notifies(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	store := NewMessageStore(tree, slog.Default())
	chatID := domain.ChatID("c1")
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	req.NoError(store.Append(context.Background(), chatID, testMessage("u-a", "A", "oops", at)))

	var last []domain.Message
	store.Subscribe(chatID, func(messages []domain.Message) { last = messages })
	req.Len(last, 1)

	req.NoError(store.RemoveOwn(context.Background(), chatID, last[0].ID, "u-a"))
	req.Empty(last)
}

func TestMessageStore_RemoveOwn_Does_Not_Check_Ownership(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	store := NewMessageStore(tree, slog.Default())
	chatID := domain.ChatID("c1")
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	req.NoError(store.Append(context.Background(), chatID, testMessage("u-a", "A", "mine", at)))
	docs, err := tree.Children("chats/c1/messages")
	req.NoError(err)

	// This layer assumes the caller is the sender and does not enforce
	// it; the collaborator store's access rules are the only backstop.
	req.NoError(store.RemoveOwn(context.Background(), chatID, docs[0].ID, "u-someone-else"))
}
