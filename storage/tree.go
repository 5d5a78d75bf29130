// Package storage provides the badger-backed collaborators (tree store,
// local key-value store) and the message-facing adapters built on top
// of them.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"portal-chat/contract"
	"portal-chat/errors"
)

// Tree is a path-addressed, push-subscribable document store on
// BadgerDB. Child documents are stored under
// "node:{parent}:{seq_padded}:{id}" so that:
//  1. A prefix scan over "node:{parent}:" returns children in insertion
//     order using 19-digit zero padding (lexicographical order).
//  2. The generated UUID keeps keys unique if two pushes land on the
//     same sequence window.
//
// Every mutation under a subscribed path synchronously redelivers the
// full child set to all subscribers, never a delta. Callbacks run on
// the mutating goroutine; cancellation via Unsubscribe is immediate.
type Tree struct {
	db       *badger.DB
	log      *slog.Logger
	registry *Registry
	seq      atomic.Uint64
}

func NewTree(db *badger.DB, log *slog.Logger) *Tree {
	t := &Tree{db: db, log: log, registry: NewRegistry()}
	// Seeding from the wall clock keeps new keys sorting after
	// everything written by earlier runs of the process.
	t.seq.Store(uint64(time.Now().UnixNano()))
	return t
}

func nodePrefix(parent string) []byte {
	return []byte("node:" + parent + ":")
}

func splitPath(path string) (parent, id string, err error) {
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", fmt.Errorf("%w: %q", errors.ErrInvalidPath, path)
	}
	return path[:i], path[i+1:], nil
}

// Push appends a document under a collection path with a generated id
// and returns that id.
func (t *Tree) Push(path string, doc []byte) (string, error) {
	id := uuid.NewString()
	key := fmt.Sprintf("node:%s:%019d:%s", path, t.seq.Add(1), id)
	err := t.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), doc)
	})
	if err != nil {
		return "", err
	}
	t.notify(path)
	return id, nil
}

// Get returns the document stored at parent/id.
func (t *Tree) Get(path string) ([]byte, error) {
	parent, id, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	var doc []byte
	err = t.db.View(func(txn *badger.Txn) error {
		key, err := findKey(txn, parent, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			doc = append([]byte(nil), val...)
			return nil
		})
	})
	return doc, err
}

// Children returns all documents under a collection path in the
// store's own insertion order.
func (t *Tree) Children(path string) ([]contract.Doc, error) {
	var docs []contract.Doc
	err := t.db.View(func(txn *badger.Txn) error {
		prefix := nodePrefix(path)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := childID(item.Key(), prefix)
			if id == "" {
				continue
			}
			err := item.Value(func(val []byte) error {
				docs = append(docs, contract.Doc{ID: id, Data: append([]byte(nil), val...)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return docs, err
}

// Update merges partial fields into the JSON document at parent/id.
// Absent fields are preserved; present ones are overwritten.
func (t *Tree) Update(path string, partial map[string]any) error {
	parent, id, err := splitPath(path)
	if err != nil {
		return err
	}
	err = t.db.Update(func(txn *badger.Txn) error {
		key, err := findKey(txn, parent, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var fields map[string]any
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &fields)
		})
		if err != nil {
			return err
		}
		for k, v := range partial {
			fields[k] = v
		}
		merged, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		return txn.Set(key, merged)
	})
	if err != nil {
		return err
	}
	t.notify(parent)
	return nil
}

// Remove deletes the document at parent/id.
func (t *Tree) Remove(path string) error {
	parent, id, err := splitPath(path)
	if err != nil {
		return err
	}
	err = t.db.Update(func(txn *badger.Txn) error {
		key, err := findKey(txn, parent, id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return err
	}
	t.notify(parent)
	return nil
}

// Subscribe attaches a callback to a collection path and immediately
// delivers the current snapshot so callers can render history without
// a separate read.
func (t *Tree) Subscribe(path string, fn func(contract.Snapshot)) contract.Subscription {
	sub := t.registry.Subscribe(path, fn)
	snap, err := t.snapshot(path)
	if err != nil {
		t.log.Warn("Initial snapshot failed", "path", path, "error", err)
		return sub
	}
	fn(snap)
	return sub
}

func (t *Tree) Unsubscribe(sub contract.Subscription) {
	t.registry.Unsubscribe(sub)
}

func (t *Tree) snapshot(path string) (contract.Snapshot, error) {
	docs, err := t.Children(path)
	if err != nil {
		return contract.Snapshot{}, err
	}
	return contract.Snapshot{Path: path, Docs: docs}, nil
}

func (t *Tree) notify(path string) {
	fns := t.registry.ForPath(path)
	if len(fns) == 0 {
		return
	}
	snap, err := t.snapshot(path)
	if err != nil {
		t.log.Warn("Snapshot rebuild failed, subscribers skipped", "path", path, "error", err)
		return
	}
	for _, fn := range fns {
		fn(snap)
	}
}

// childID extracts the trailing document id from a full node key.
func childID(key, prefix []byte) string {
	rest := key[len(prefix):]
	i := bytes.IndexByte(rest, ':')
	if i < 0 || i == len(rest)-1 {
		return ""
	}
	return string(rest[i+1:])
}

// findKey locates the full badger key of the document id under parent.
func findKey(txn *badger.Txn, parent, id string) ([]byte, error) {
	prefix := nodePrefix(parent)
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	suffix := []byte(":" + id)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().KeyCopy(nil)
		if bytes.HasSuffix(key, suffix) {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", errors.ErrNodeNotFound, parent, id)
}
