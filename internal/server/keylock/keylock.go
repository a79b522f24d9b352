// Package keylock provides per-key reader/writer locking over a fixed set
// of shards.
package keylock

import (
	"hash/fnv"
	"sync"
)

// DefaultShards is the shard count used by NewStriped when n <= 0.
const DefaultShards = 256

// Striped maps keys onto a fixed number of RW mutexes. Two keys may share
// a shard; one key always maps to the same shard.
type Striped struct {
	shards []sync.RWMutex
}

func NewStriped(n int) *Striped {
	if n <= 0 {
		n = DefaultShards
	}
	return &Striped{shards: make([]sync.RWMutex, n)}
}

func (s *Striped) shard(key string) *sync.RWMutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Lock acquires the exclusive lock for key and returns its release func.
func (s *Striped) Lock(key string) (unlock func()) {
	m := s.shard(key)
	m.Lock()
	return m.Unlock
}

// RLock acquires the shared lock for key and returns its release func.
func (s *Striped) RLock(key string) (unlock func()) {
	m := s.shard(key)
	m.RLock()
	return m.RUnlock
}
