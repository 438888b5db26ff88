package state

import "sync"

const defaultShards = 32

type shard[S any] struct {
	mu       sync.Mutex
	sessions map[int64]S
}

type memoryStore[S any] struct {
	shards []*shard[S]
}

// NewMemoryStore constructs an in-memory Store sharded by user ID.
// Sessions are lost when the process exits.
func NewMemoryStore[S any]() Store[S] {
	return NewShardedMemoryStore[S](defaultShards)
}

// NewShardedMemoryStore is NewMemoryStore with an explicit shard count (min 1).
func NewShardedMemoryStore[S any](shards int) Store[S] {
	if shards < 1 {
		shards = 1
	}
	m := &memoryStore[S]{shards: make([]*shard[S], shards)}
	for i := range m.shards {
		m.shards[i] = &shard[S]{sessions: make(map[int64]S)}
	}
	return m
}

func (m *memoryStore[S]) shardFor(userID int64) *shard[S] {
	idx := uint64(userID) % uint64(len(m.shards))
	return m.shards[idx]
}

// Get returns the session for a user if it exists.
func (m *memoryStore[S]) Get(userID int64) (S, bool) {
	sh := m.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	s, ok := sh.sessions[userID]
	return s, ok
}

// Put stores or replaces the session for a user.
func (m *memoryStore[S]) Put(userID int64, session S) {
	sh := m.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.sessions[userID] = session
}

// Remove deletes the session for a user; removing a missing session is a no-op.
func (m *memoryStore[S]) Remove(userID int64) {
	sh := m.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.sessions, userID)
}

// Update runs fn under the user's shard lock and applies its result.
// fn must not block on I/O or call back into the store.
func (m *memoryStore[S]) Update(userID int64, fn UpdateFunc[S]) (S, bool) {
	sh := m.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	cur, ok := sh.sessions[userID]
	next, keep := fn(cur, ok)
	if keep {
		sh.sessions[userID] = next
		return next, true
	}
	delete(sh.sessions, userID)
	var zero S
	return zero, false
}

// Len reports the number of stored sessions across all shards.
func (m *memoryStore[S]) Len() int {
	n := 0
	for _, sh := range m.shards {
		sh.mu.Lock()
		n += len(sh.sessions)
		sh.mu.Unlock()
	}
	return n
}
