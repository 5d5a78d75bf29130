package domain

import (
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"portal-chat/errors"
)

var validate = validator.New()

// GroupContentLimit caps outgoing group-chat messages. Private chats
// have no stated limit; the asymmetry is intentional.
const GroupContentLimit = 500

type outgoing struct {
	Content      string      `validate:"required"`
	Type         MessageType `validate:"required,oneof=text code"`
	CodeLanguage string      `validate:"required_if=Type code,excluded_if=Type text"`
}

// ValidateOutgoing checks a composed message before it reaches the
// store. Code messages must name a language, text messages must not,
// and group-chat content may not exceed GroupContentLimit runes.
func ValidateOutgoing(m Message, kind ChatKind) error {
	if err := validate.Struct(outgoing{
		Content:      m.Content,
		Type:         m.Type,
		CodeLanguage: m.CodeLanguage,
	}); err != nil {
		return err
	}
	if kind == KindGroup && utf8.RuneCountInString(m.Content) > GroupContentLimit {
		return errors.ErrMessageTooLong
	}
	return nil
}
