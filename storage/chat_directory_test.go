package storage

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portal-chat/contract"
	"portal-chat/domain"
	"portal-chat/errors"
)

// staticDir fakes the roster collaborator.
type staticDir struct {
	groups map[string]contract.GroupRecord
	users  map[domain.UserID]contract.UserRecord
}

func (d staticDir) Group(id string) (contract.GroupRecord, error) {
	record, ok := d.groups[id]
	if !ok {
		return contract.GroupRecord{}, fmt.Errorf("group %s not found", id)
	}
	return record, nil
}

func (d staticDir) User(id domain.UserID) (contract.UserRecord, error) {
	record, ok := d.users[id]
	if !ok {
		return contract.UserRecord{}, fmt.Errorf("user %s not found", id)
	}
	return record, nil
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestChatDirectory_CreatePrivate_Requires_CoMember(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	chats := NewChatDirectory(tree, staticDir{}, fixedClock, slog.Default())
	creator := domain.Identity{ID: "u-a", Name: "A"}

	// Selecting only yourself is not a chat
	_, err := chats.CreatePrivate(creator, "solo", "", []domain.UserID{"u-a"})
	req.ErrorIs(err, errors.ErrNoCoMembers)

	_, err = chats.CreatePrivate(creator, "empty", "", nil)
	req.ErrorIs(err, errors.ErrNoCoMembers)
}

func TestChatDirectory_CreatePrivate_Stores_Member_Set(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	chats := NewChatDirectory(tree, staticDir{}, fixedClock, slog.Default())
	creator := domain.Identity{ID: "u-a", Name: "A"}

	chat, err := chats.CreatePrivate(creator, "pair", "side project", []domain.UserID{"u-b"})
	req.NoError(err)
	req.NotEmpty(chat.ID)
	req.Equal(domain.KindPrivate, chat.Kind)
	req.Equal([]domain.UserID{"u-a", "u-b"}, chat.Members)

	// Both members see the chat, an outsider does not
	for user, visible := range map[domain.UserID]bool{"u-a": true, "u-b": true, "u-c": false} {
		listed, err := chats.ChatsFor(domain.Identity{ID: user})
		req.NoError(err)
		if visible {
			req.Len(listed, 1, "user %s", user)
		} else {
			req.Empty(listed, "user %s", user)
		}
	}
}

func TestChatDirectory_Group_Membership_Follows_Live_Roster(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	directory := staticDir{groups: map[string]contract.GroupRecord{
		"g1": {SupervisorID: "u-sup", InternIDs: []domain.UserID{"u-a"}},
	}}
	chats := NewChatDirectory(tree, directory, fixedClock, slog.Default())

	_, err := chats.CreateGroup(domain.Identity{ID: "u-sup"}, "Team", "", "g1")
	req.NoError(err)

	// Given u-b is not yet in the roster group
	listed, err := chats.ChatsFor(domain.Identity{ID: "u-b"})
	req.NoError(err)
	req.Empty(listed)

	// When the external roster adds u-b, with no chat-record update
	directory.groups["g1"] = contract.GroupRecord{
		SupervisorID: "u-sup", InternIDs: []domain.UserID{"u-a", "u-b"},
	}

	// Then the next query immediately includes the chat
	listed, err = chats.ChatsFor(domain.Identity{ID: "u-b"})
	req.NoError(err)
	req.Len(listed, 1)
}

func TestChatDirectory_Group_Record_Missing_Hides_Chat(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	chats := NewChatDirectory(tree, staticDir{}, fixedClock, slog.Default())

	_, err := chats.CreateGroup(domain.Identity{ID: "u-sup"}, "Ghost", "", "gone")
	req.NoError(err)

	// A missing group record degrades to invisibility, not an error
	listed, err := chats.ChatsFor(domain.Identity{ID: "u-sup"})
	req.NoError(err)
	req.Empty(listed)
}

func TestChatDirectory_Group_Chat_Carries_No_Member_List(t *testing.T) {
	req := require.New(t)
	tree := NewTree(openTestDB(t), slog.Default())
	directory := staticDir{groups: map[string]contract.GroupRecord{
		"g1": {SupervisorID: "u-sup"},
	}}
	chats := NewChatDirectory(tree, directory, fixedClock, slog.Default())

	chat, err := chats.CreateGroup(domain.Identity{ID: "u-sup"}, "Team", "", "g1")
	req.NoError(err)
	req.Empty(chat.Members)

	listed, err := chats.ChatsFor(domain.Identity{ID: "u-sup"})
	req.NoError(err)
	req.Len(listed, 1)
	req.Empty(listed[0].Members)
	req.Equal("g1", listed[0].GroupID)
}
