package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"

	"portal-chat/contract"
	"portal-chat/controller"
	"portal-chat/domain"
	"portal-chat/drafts"
	"portal-chat/internal"
	"portal-chat/notify"
	"portal-chat/roster"
	"portal-chat/search"
	"portal-chat/storage"
)

// Exit codes to provide meaningful status to the operating system or service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Portal demo terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the messaging core against a local badger store with
// fixture collaborators and walks one send/notify/search roundtrip,
// so 'defer' cleanup executes before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := internal.LoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Optional search index
	var index *search.Index
	if config.BlugeFilepath != "" {
		writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
		if err != nil {
			return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
		}
		defer func() {
			logger.Info("Closing Bluge...")
			_ = writer.Close()
		}()
		index = search.NewIndex(writer, logger)
	}

	// 4. Collaborators & core wiring
	clock := contract.Clock(time.Now)
	tree := storage.NewTree(db, logger)
	local := storage.NewLocal(db)
	directory := demoDirectory()

	me := domain.Identity{ID: "u-dana", Name: "Dana", Role: "supervisor"}
	chats := storage.NewChatDirectory(tree, directory, clock, logger)
	messages := storage.NewMessageStore(tree, logger)
	rosterAdapter := roster.NewAdapter(directory, logger)
	draftCache := drafts.NewCache(local)
	dispatcher := notify.NewDispatcher(me.ID, notify.NewPrefStore(local),
		consoleNotifier{}, clock, notify.DefaultFreshness, logger)

	hooks := controller.Hooks{
		Messages: func(chat domain.Chat, msgs []domain.Message) {
			if index != nil {
				index.ObserveSnapshot(chat, msgs)
			}
			color.Cyan.Printf("-- %s (%d messages)\n", chat.Name, len(msgs))
			for _, m := range msgs {
				color.Green.Printf("[%s] %s: %s\n",
					m.SentAt.Format(time.TimeOnly), m.SenderName, m.Content)
			}
		},
		Notice: func(err error) {
			color.Red.Printf("notice: %v\n", err)
		},
	}
	view := controller.NewController(logger, me, chats, messages,
		rosterAdapter, draftCache, dispatcher, nil, clock, hooks)
	defer view.Close()

	// 5. One roundtrip through the core
	ctx := context.Background()
	if _, err := chats.CreateGroup(me, "Team 7", "group-7 standup", "group-7"); err != nil {
		return exitRuntime, err
	}
	if err := view.LoadChats(ctx); err != nil {
		return exitRuntime, err
	}
	if len(view.Chats()) == 0 {
		return exitRuntime, fmt.Errorf("no chat visible for %s", me.ID)
	}
	if err := view.SelectChat(view.Chats()[0].ID); err != nil {
		return exitRuntime, err
	}
	if err := view.Send(ctx, "morning @Al, ping me when the grading export is done", domain.MessageText, ""); err != nil {
		return exitRuntime, err
	}

	if index != nil {
		hits, err := index.Search(ctx, view.Chats()[0].ID, "grading", 10)
		if err != nil {
			return exitRuntime, err
		}
		color.Magenta.Printf("search hits: %d\n", len(hits))
	}
	return exitOK, nil
}
