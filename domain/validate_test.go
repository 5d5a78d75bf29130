package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"portal-chat/errors"
)

func TestValidateOutgoing_Text_Message(t *testing.T) {
	req := require.New(t)

	message := Message{Content: "hello", Type: MessageText}

	req.NoError(ValidateOutgoing(message, KindGroup))
	req.NoError(ValidateOutgoing(message, KindPrivate))
}

func TestValidateOutgoing_Code_Requires_Language(t *testing.T) {
	req := require.New(t)

	// Given a code message without a language
	message := Message{Content: "fmt.Println(42)", Type: MessageCode}

	// Then validation rejects it
	req.Error(ValidateOutgoing(message, KindGroup))

	// And passes once the language is set
	message.CodeLanguage = "go"
	req.NoError(ValidateOutgoing(message, KindGroup))
}

func TestValidateOutgoing_Text_Forbids_Language(t *testing.T) {
	req := require.New(t)

	message := Message{Content: "hello", Type: MessageText, CodeLanguage: "go"}

	req.Error(ValidateOutgoing(message, KindGroup))
}

func TestValidateOutgoing_Empty_Content(t *testing.T) {
	req := require.New(t)

	req.Error(ValidateOutgoing(Message{Type: MessageText}, KindPrivate))
}

func TestValidateOutgoing_Group_Cap_Private_Uncapped(t *testing.T) {
	req := require.New(t)

	// Given a 600-character message
	message := Message{Content: strings.Repeat("x", 600), Type: MessageText}

	// Then a group chat rejects it client-side
	req.ErrorIs(ValidateOutgoing(message, KindGroup), errors.ErrMessageTooLong)

	// And a private chat accepts it; the asymmetry is intentional
	req.NoError(ValidateOutgoing(message, KindPrivate))
}

func TestValidateOutgoing_Group_Cap_Counts_Runes(t *testing.T) {
	req := require.New(t)

	// 500 multibyte runes fit exactly
	message := Message{Content: strings.Repeat("é", 500), Type: MessageText}
	req.NoError(ValidateOutgoing(message, KindGroup))

	message.Content += "é"
	req.ErrorIs(ValidateOutgoing(message, KindGroup), errors.ErrMessageTooLong)
}
