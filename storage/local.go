package storage

import (
	goerrors "errors"

	"github.com/dgraph-io/badger/v4"
)

const localPrefix = "kv:"

// Local is the per-device string key-value store on BadgerDB. It backs
// drafts and notification preferences; nothing in it leaves the device.
type Local struct {
	db *badger.DB
}

func NewLocal(db *badger.DB) *Local {
	return &Local{db: db}
}

func (l *Local) Get(key string) (string, bool) {
	var value string
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(localPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false
	}
	return value, true
}

func (l *Local) Set(key, value string) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(localPrefix+key), []byte(value))
	})
}

// Remove deletes an entry. Removing a missing key is not an error.
func (l *Local) Remove(key string) error {
	err := l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(localPrefix + key))
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}
