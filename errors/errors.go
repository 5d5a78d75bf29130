package errors

import "fmt"

var (
	ErrChatNotFound    = fmt.Errorf("chat not found")
	ErrNoChatSelected  = fmt.Errorf("no chat selected")
	ErrNoCoMembers     = fmt.Errorf("a private chat needs at least one other member")
	ErrMessageTooLong  = fmt.Errorf("message exceeds the group chat length limit")
	ErrDeleteForbidden = fmt.Errorf("caller may not delete this message")
	ErrNodeNotFound    = fmt.Errorf("no node stored at this path")
	ErrInvalidPath     = fmt.Errorf("invalid store path")
	ErrMessageNotFound = fmt.Errorf("message not found")
)
