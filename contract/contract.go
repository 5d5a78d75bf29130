//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"time"

	"portal-chat/domain"
)

// Doc is one child document of a tree-store collection, in the store's
// own insertion order.
type Doc struct {
	ID   string
	Data []byte
}

// Snapshot is the full current child set under a subscribed path.
// It is redelivered wholesale on every mutation, never as a delta.
type Snapshot struct {
	Path string
	Docs []Doc
}

type Subscription uint64

// TreeStore is the generic path-addressed, push-subscribable store the
// messaging core is built on. Paths are slash-separated; a pushed
// document becomes addressable at parent/id.
type TreeStore interface {
	Get(path string) ([]byte, error)
	Children(path string) ([]Doc, error)
	Push(path string, doc []byte) (string, error)
	Update(path string, partial map[string]any) error
	Remove(path string) error
	Subscribe(path string, fn func(Snapshot)) Subscription
	Unsubscribe(sub Subscription)
}

// GroupRecord is an organizational roster group as the external roster
// collaborator stores it.
type GroupRecord struct {
	SupervisorID domain.UserID
	InternIDs    []domain.UserID
}

type UserRecord struct {
	Nickname string
	FullName string
}

// Directory is the read-only organizational roster collaborator.
type Directory interface {
	Group(id string) (GroupRecord, error)
	User(id domain.UserID) (UserRecord, error)
}

// LocalStore is per-device string key-value persistence, used for
// drafts and notification preferences.
type LocalStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier is the minimal platform notification capability.
type Notifier interface {
	PermissionState() Permission
	RequestPermission() Permission
	Show(title, body string)
}

// Clock supplies the current time. Injectable so freshness heuristics
// are deterministic under test.
type Clock func() time.Time
