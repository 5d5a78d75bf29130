// Package roster resolves a chat's membership and display names from
// the external organizational directory.
package roster

import (
	"log/slog"

	"github.com/samber/lo"

	"portal-chat/contract"
	"portal-chat/domain"
)

// placeholderName stands in when a user record cannot be resolved; the
// member stays listed so the chat remains usable.
const placeholderName = "Unknown member"

type Adapter struct {
	directory contract.Directory
	log       *slog.Logger
}

func NewAdapter(directory contract.Directory, log *slog.Logger) *Adapter {
	return &Adapter{directory: directory, log: log}
}

// Resolve returns the chat's members in a deterministic order: the
// stored member order for private chats, supervisor followed by
// interns for group chats. Group membership is recomputed from the
// live roster on every call and never cached in the chat record. A
// missing group record degrades to an empty list instead of erroring;
// the chat becomes unusable but the view does not crash.
func (a *Adapter) Resolve(chat domain.Chat) []domain.Member {
	switch chat.Kind {
	case domain.KindPrivate:
		return a.resolveAll(chat.Members)
	case domain.KindGroup:
		record, err := a.directory.Group(chat.GroupID)
		if err != nil {
			a.log.Warn("Group record missing, resolving to empty roster",
				"chat", chat.ID, "group", chat.GroupID, "error", err)
			return nil
		}
		ids := append([]domain.UserID{record.SupervisorID}, record.InternIDs...)
		return a.resolveAll(ids)
	}
	return nil
}

func (a *Adapter) resolveAll(ids []domain.UserID) []domain.Member {
	return lo.Map(ids, func(id domain.UserID, _ int) domain.Member {
		record, err := a.directory.User(id)
		if err != nil {
			a.log.Warn("User record missing, using placeholder name", "user", id)
			return domain.Member{ID: id, DisplayName: placeholderName}
		}
		display := record.Nickname
		if display == "" {
			display = record.FullName
		}
		return domain.Member{ID: id, DisplayName: display, FullName: record.FullName}
	})
}
