package domain

type UserID string

// Identity describes the current session's user. It is supplied by the
// identity collaborator and always passed explicitly, never read from
// ambient state.
type Identity struct {
	ID   UserID
	Name string
	Role string
}

// Member is one resolved roster entry of a chat. DisplayName prefers
// the user's nickname and falls back to their legal name.
type Member struct {
	ID          UserID
	DisplayName string
	FullName    string
}
