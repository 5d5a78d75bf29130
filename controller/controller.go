// Package controller orchestrates the chat view: it loads the chat
// list for the current user, manages the live subscription for the
// selected chat, composes outgoing messages, and exposes deletion of
// one's own messages.
//
// The controller models the single-threaded, event-driven execution of
// the view: it is not safe for concurrent use and must be driven from
// one goroutine. The tree store delivers snapshots synchronously on
// the mutating goroutine, so a Send observes its own message through
// the same subscription every other viewer uses.
package controller

import (
	"context"
	"log/slog"

	"portal-chat/contract"
	"portal-chat/domain"
	"portal-chat/drafts"
	"portal-chat/errors"
	"portal-chat/mention"
	"portal-chat/notify"
	"portal-chat/roster"
	"portal-chat/storage"
)

type State string

const (
	StateIdle            State = "idle"
	StateLoadingChatList State = "loadingChatList"
	StateReady           State = "ready"
	StateComposing       State = "composing"
	StateSending         State = "sending"
	StateErrored         State = "errored"
)

// CanDelete decides whether callerID may delete message. The check is
// injected from the collaborator boundary: the store layer itself does
// not enforce ownership, and this capability keeps that gap visible
// and testable instead of implicit.
type CanDelete func(chat domain.Chat, message domain.Message, callerID domain.UserID) bool

// DefaultCanDelete allows senders to delete their own messages in
// group chats only. Private chats expose no delete action; the
// asymmetry is intentional.
func DefaultCanDelete(chat domain.Chat, message domain.Message, callerID domain.UserID) bool {
	return chat.Kind == domain.KindGroup && message.SenderID == callerID
}

// Hooks are the view callbacks. Messages receives every re-sorted
// snapshot of the selected chat; Notice surfaces transient errors.
type Hooks struct {
	Messages func(chat domain.Chat, messages []domain.Message)
	Notice   func(err error)
}

type Controller struct {
	log        *slog.Logger
	user       domain.Identity
	chats      *storage.ChatDirectory
	messages   *storage.MessageStore
	roster     *roster.Adapter
	drafts     *drafts.Cache
	dispatcher *notify.Dispatcher
	canDelete  CanDelete
	clock      contract.Clock
	hooks      Hooks

	state     State
	chatList  []domain.Chat
	current   *domain.Chat
	members   []domain.Member
	visible   []domain.Message
	sub       contract.Subscription
	subActive bool
	compose   string
	replyTo   *domain.Message
}

func NewController(log *slog.Logger, user domain.Identity,
	chats *storage.ChatDirectory, messages *storage.MessageStore,
	rosterAdapter *roster.Adapter, draftCache *drafts.Cache,
	dispatcher *notify.Dispatcher, canDelete CanDelete,
	clock contract.Clock, hooks Hooks) *Controller {
	if canDelete == nil {
		canDelete = DefaultCanDelete
	}
	return &Controller{
		log:        log,
		user:       user,
		chats:      chats,
		messages:   messages,
		roster:     rosterAdapter,
		drafts:     draftCache,
		dispatcher: dispatcher,
		canDelete:  canDelete,
		clock:      clock,
		hooks:      hooks,
		state:      StateIdle,
	}
}

func (c *Controller) State() State             { return c.state }
func (c *Controller) Chats() []domain.Chat     { return c.chatList }
func (c *Controller) Current() *domain.Chat    { return c.current }
func (c *Controller) Members() []domain.Member { return c.members }
func (c *Controller) Compose() string          { return c.compose }

// LoadChats loads the chat list for the current user.
func (c *Controller) LoadChats(ctx context.Context) error {
	c.state = StateLoadingChatList
	if err := ctx.Err(); err != nil {
		c.fail(err)
		return err
	}
	list, err := c.chats.ChatsFor(c.user)
	if err != nil {
		c.fail(err)
		return err
	}
	c.chatList = list
	c.state = StateReady
	return nil
}

// SelectChat activates a live subscription for the chosen chat. The
// previous subscription is torn down first: exactly one subscription
// is live per view at a time. The compose box is repopulated from the
// draft cache and any reply in progress is discarded.
func (c *Controller) SelectChat(chatID domain.ChatID) error {
	var chat *domain.Chat
	for i := range c.chatList {
		if c.chatList[i].ID == chatID {
			chat = &c.chatList[i]
			break
		}
	}
	if chat == nil {
		return errors.ErrChatNotFound
	}

	if c.subActive {
		c.messages.Unsubscribe(c.sub)
		c.subActive = false
	}

	c.current = chat
	c.members = c.roster.Resolve(*chat)
	c.replyTo = nil
	c.compose = c.drafts.Get(chatID)
	c.visible = nil

	selected := *chat
	c.sub = c.messages.Subscribe(chatID, func(messages []domain.Message) {
		c.handleSnapshot(selected, messages)
	})
	c.subActive = true
	c.state = StateReady
	return nil
}

func (c *Controller) handleSnapshot(chat domain.Chat, messages []domain.Message) {
	domain.SortMessages(messages)
	c.visible = messages
	if c.dispatcher != nil {
		c.dispatcher.Observe(chat, messages)
	}
	if c.hooks.Messages != nil {
		c.hooks.Messages(chat, messages)
	}
}

// SetDraft records in-progress compose text. Non-empty text moves the
// view to composing; clearing it returns to ready.
func (c *Controller) SetDraft(text string) error {
	if c.current == nil {
		return errors.ErrNoChatSelected
	}
	c.compose = text
	if text == "" {
		c.state = StateReady
	} else {
		c.state = StateComposing
	}
	return c.drafts.Set(c.current.ID, text)
}

// BeginReply marks a prior message as the one being replied to.
func (c *Controller) BeginReply(messageID string) error {
	original, err := c.findVisible(messageID)
	if err != nil {
		return err
	}
	c.replyTo = &original
	return nil
}

func (c *Controller) CancelReply() {
	c.replyTo = nil
}

// Send assembles and appends the outgoing message: mentions are
// resolved against the freshly read roster, a reply reference with a
// truncated snippet is attached when a reply is in progress, and the
// sender's display name and role are captured from the identity
// descriptor at send time.
//
// The reply-in-progress state is cleared whether or not the send
// succeeds. The draft is cleared only on success; a failed send keeps
// it so the user does not lose typed content.
func (c *Controller) Send(ctx context.Context, content string, messageType domain.MessageType, codeLanguage string) error {
	if c.current == nil {
		return errors.ErrNoChatSelected
	}
	chat := *c.current

	message := domain.Message{
		SenderID:     c.user.ID,
		SenderName:   c.user.Name,
		SenderRole:   c.user.Role,
		Content:      content,
		SentAt:       c.clock().UTC(),
		Type:         messageType,
		CodeLanguage: codeLanguage,
	}
	if reply := c.replyTo; reply != nil {
		message.ReplyTo = &domain.ReplyRef{
			MessageID:  reply.ID,
			SenderName: reply.SenderName,
			Snippet:    domain.Snippet(reply.Content),
		}
	}
	c.replyTo = nil

	if err := domain.ValidateOutgoing(message, chat.Kind); err != nil {
		c.state = StateReady
		c.notice(err)
		return err
	}
	message.Mentions = mention.Resolve(content, c.roster.Resolve(chat))

	c.state = StateSending
	if err := c.messages.Append(ctx, chat.ID, message); err != nil {
		c.state = StateReady
		c.notice(err)
		return err
	}

	if err := c.drafts.Clear(chat.ID); err != nil {
		c.log.Warn("Draft clear failed after send", "chat", chat.ID, "error", err)
	}
	c.compose = ""
	c.state = StateReady
	return nil
}

// Delete removes a message after the injected capability check. The
// store layer below performs no enforcement of its own.
func (c *Controller) Delete(ctx context.Context, messageID string) error {
	if c.current == nil {
		return errors.ErrNoChatSelected
	}
	message, err := c.findVisible(messageID)
	if err != nil {
		return err
	}
	if !c.canDelete(*c.current, message, c.user.ID) {
		return errors.ErrDeleteForbidden
	}
	return c.messages.RemoveOwn(ctx, c.current.ID, messageID, c.user.ID)
}

// Close tears down the live subscription. An Append already in flight
// is not cancelled; a slow send can still land in a chat the user is
// no longer viewing.
func (c *Controller) Close() {
	if c.subActive {
		c.messages.Unsubscribe(c.sub)
		c.subActive = false
	}
	c.current = nil
	c.state = StateIdle
}

func (c *Controller) findVisible(messageID string) (domain.Message, error) {
	for _, message := range c.visible {
		if message.ID == messageID {
			return message, nil
		}
	}
	return domain.Message{}, errors.ErrMessageNotFound
}

func (c *Controller) fail(err error) {
	c.state = StateErrored
	c.notice(err)
}

func (c *Controller) notice(err error) {
	c.log.Warn("Surfacing notice", "error", err)
	if c.hooks.Notice != nil {
		c.hooks.Notice(err)
	}
}
