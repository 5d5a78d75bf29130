package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/badger"`
}

// store_inspect dumps the tree-store nodes as a table for debugging.
func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Config error: ", err)
	}
	dbPath := flag.String("db", cfg.BadgerFilepath, "Path to badger DB")
	// Default scans the chat directory; use "node:chats/<id>/messages:" for one chat's messages
	prefix := flag.String("prefix", "node:chats:", "Prefix to scan")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Path", "Seq", "Doc ID", "Bytes", "Preview"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			path, seq, id, ok := splitNodeKey(string(item.Key()))
			if !ok {
				continue
			}
			err := item.Value(func(v []byte) error {
				table.Append([]string{path, seq, id, fmt.Sprintf("%d", len(v)), preview(v)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}
	table.Render()
}

// splitNodeKey decomposes "node:{path}:{seq}:{id}".
func splitNodeKey(key string) (path, seq, id string, ok bool) {
	rest, found := strings.CutPrefix(key, "node:")
	if !found {
		return "", "", "", false
	}
	// The path itself contains no ':' so the last two separators
	// delimit seq and id.
	last := strings.LastIndex(rest, ":")
	if last < 0 {
		return "", "", "", false
	}
	id = rest[last+1:]
	rest = rest[:last]
	last = strings.LastIndex(rest, ":")
	if last < 0 {
		return "", "", "", false
	}
	return rest[:last], rest[last+1:], id, true
}

func preview(v []byte) string {
	const max = 80
	s := string(v)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
