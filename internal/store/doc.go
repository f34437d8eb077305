// Package store owns the in-memory overlay for one process and keeps it in
// sync with its durable slot.
//
// The store is the only writer of the slot. Every mutation validates its
// input, changes one part of the overlay, records an activity entry and
// saves. Loading never fails: an empty, unreadable or corrupt slot yields a
// default overlay and the recovery is logged.
//
// # Lifecycle
//
//	s := store.New(sl, store.WithChecklist(dataset))
//	s.Load(ctx)
//	milestones, err := s.Tick(ctx, "D2", "d2-a", true)
//
// Import and Reset replace the overlay wholesale. If the following save
// fails, the previous overlay is restored.
package store
