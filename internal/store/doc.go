// Package store keeps conversation history with pluggable persistence.
//
// [MessageStore] is safe for concurrent use. Persistence goes through the
// [Adapter] interface; [MemoryAdapter] keeps snapshots in memory and
// [FileAdapter] writes them as JSON files.
//
//	history := store.NewMessageStore(nil)
//	history.Append(ai.NewUserMessage("What is 2+2?"))
//
//	if err := history.Sync(ctx, "session"); err != nil {
//	    log.Fatal(err)
//	}
package store
