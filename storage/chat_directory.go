//go:generate go run go.uber.org/mock/mockgen -source=chat_directory.go -destination=../mocks/mock_chat_directory.go -package=mocks
package storage

import (
	"encoding/json"
	"log/slog"

	"github.com/samber/lo"

	"portal-chat/contract"
	"portal-chat/domain"
	"portal-chat/errors"
)

type IChatDirectory interface {
	ChatsFor(user domain.Identity) ([]domain.Chat, error)
	CreatePrivate(creator domain.Identity, name, description string, members []domain.UserID) (domain.Chat, error)
	CreateGroup(creator domain.Identity, name, description, groupID string) (domain.Chat, error)
}

// ChatDirectory lists and creates chat records under "chats". Chats are
// created once and never updated or deleted here; no removal path
// exists in this core.
type ChatDirectory struct {
	store     contract.TreeStore
	directory contract.Directory
	clock     contract.Clock
	log       *slog.Logger
}

func NewChatDirectory(store contract.TreeStore, directory contract.Directory,
	clock contract.Clock, log *slog.Logger) *ChatDirectory {
	return &ChatDirectory{store: store, directory: directory, clock: clock, log: log}
}

// ChatsFor returns the chats the user can see: group chats whose roster
// group lists them as supervisor or intern, and private chats naming
// them as member. Group membership is recomputed from the live roster
// on every call; a missing group record hides the chat rather than
// failing the whole listing.
func (d *ChatDirectory) ChatsFor(user domain.Identity) ([]domain.Chat, error) {
	docs, err := d.store.Children("chats")
	if err != nil {
		return nil, err
	}

	var chats []domain.Chat
	for _, doc := range docs {
		chat, err := toChat(doc)
		if err != nil {
			d.log.Warn("Skipping undecodable chat", "id", doc.ID, "error", err)
			continue
		}
		if d.visibleTo(chat, user.ID) {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

func (d *ChatDirectory) visibleTo(chat domain.Chat, user domain.UserID) bool {
	switch chat.Kind {
	case domain.KindPrivate:
		return lo.Contains(chat.Members, user)
	case domain.KindGroup:
		record, err := d.directory.Group(chat.GroupID)
		if err != nil {
			d.log.Warn("Group record missing, hiding chat", "chat", chat.ID, "group", chat.GroupID)
			return false
		}
		return record.SupervisorID == user || lo.Contains(record.InternIDs, user)
	}
	return false
}

// CreatePrivate creates a private chat with an explicit member set
// fixed at creation. The creator must select at least one co-member;
// the creator is always part of the set.
func (d *ChatDirectory) CreatePrivate(creator domain.Identity, name, description string,
	members []domain.UserID) (domain.Chat, error) {
	coMembers := lo.Filter(members, func(id domain.UserID, _ int) bool {
		return id != creator.ID
	})
	if len(coMembers) == 0 {
		return domain.Chat{}, errors.ErrNoCoMembers
	}

	chat := domain.Chat{
		Kind:        domain.KindPrivate,
		Name:        name,
		Description: description,
		CreatedBy:   creator.ID,
		CreatedAt:   d.clock().UTC(),
		Members:     append([]domain.UserID{creator.ID}, coMembers...),
	}
	return d.create(chat)
}

// CreateGroup creates a role-scoped chat bound to a roster group. The
// chat record carries no member list; membership always follows the
// live group record.
func (d *ChatDirectory) CreateGroup(creator domain.Identity, name, description,
	groupID string) (domain.Chat, error) {
	chat := domain.Chat{
		Kind:        domain.KindGroup,
		Name:        name,
		Description: description,
		CreatedBy:   creator.ID,
		CreatedAt:   d.clock().UTC(),
		GroupID:     groupID,
	}
	return d.create(chat)
}

func (d *ChatDirectory) create(chat domain.Chat) (domain.Chat, error) {
	doc, err := json.Marshal(fromChat(chat))
	if err != nil {
		return domain.Chat{}, err
	}
	id, err := d.store.Push("chats", doc)
	if err != nil {
		return domain.Chat{}, err
	}
	chat.ID = domain.ChatID(id)
	return chat, nil
}
