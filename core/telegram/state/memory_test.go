package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type session struct {
	Step  string
	Count int
}

func TestMemoryStoreGetPutRemove(t *testing.T) {
	s := NewMemoryStore[session]()

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Put(1, session{Step: "a"})
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", got.Step)
	assert.Equal(t, 1, s.Len())

	s.Put(1, session{Step: "b"})
	got, _ = s.Get(1)
	assert.Equal(t, "b", got.Step)

	s.Remove(1)
	s.Remove(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreUpdateRemovesWhenNotKept(t *testing.T) {
	s := NewMemoryStore[session]()
	s.Put(5, session{Step: "x"})

	_, kept := s.Update(5, func(cur session, ok bool) (session, bool) {
		assert.True(t, ok)
		assert.Equal(t, "x", cur.Step)
		return cur, false
	})
	assert.False(t, kept)
	_, ok := s.Get(5)
	assert.False(t, ok)
}

func TestMemoryStoreNegativeIDs(t *testing.T) {
	s := NewShardedMemoryStore[session](0)
	s.Put(-100123, session{Step: "group"})
	got, ok := s.Get(-100123)
	require.True(t, ok)
	assert.Equal(t, "group", got.Step)
}

func TestMemoryStoreUpdateIsAtomicPerKey(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewShardedMemoryStore[session](4)
	const (
		users      = 8
		increments = 200
	)

	var wg sync.WaitGroup
	for u := int64(0); u < users; u++ {
		for i := 0; i < increments; i++ {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				s.Update(userID, func(cur session, _ bool) (session, bool) {
					cur.Count++
					return cur, true
				})
			}(u)
		}
	}
	wg.Wait()

	for u := int64(0); u < users; u++ {
		got, ok := s.Get(u)
		require.True(t, ok)
		assert.Equal(t, increments, got.Count, "user %d", u)
	}
	assert.Equal(t, users, s.Len())
}
