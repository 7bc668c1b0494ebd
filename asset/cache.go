package asset

import (
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// Sharding constants.
const (
	// shardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	shardCount = 16

	// shardMask is used for fast shard selection (shardCount - 1).
	shardMask = shardCount - 1
)

// stringHash computes FNV-1a hash of a source id.
func stringHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// entry is a pending-or-settled load. done is closed exactly once, after
// img and err have been written; readers must wait on done first.
type entry struct {
	done chan struct{}
	img  *gg.ImageBuf
	err  error
}

func newEntry() *entry {
	return &entry{done: make(chan struct{})}
}

func (e *entry) settle(img *gg.ImageBuf, err error) {
	e.img, e.err = img, err
	close(e.done)
}

// settled reports whether the load has finished without blocking.
func (e *entry) settled() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// memo is a sharded, never-evicting map of load entries keyed by source id.
//
// Entries are installed before the fetch starts so concurrent requests for
// the same id collapse into one in-flight load. Settled entries, failed ones
// included, are kept for the lifetime of the memo.
type memo struct {
	shards [shardCount]*memoShard

	hits   atomic.Uint64
	misses atomic.Uint64
}

type memoShard struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func newMemo() *memo {
	m := &memo{}
	for i := range m.shards {
		m.shards[i] = &memoShard{entries: make(map[string]*entry)}
	}
	return m
}

func (m *memo) shard(key string) *memoShard {
	return m.shards[stringHash(key)&shardMask]
}

// getOrInstall returns the entry for key. created is true when the caller
// installed a fresh entry and is therefore responsible for settling it.
func (m *memo) getOrInstall(key string) (e *entry, created bool) {
	s := m.shard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		m.hits.Add(1)
		return e, false
	}

	m.misses.Add(1)
	e = newEntry()
	s.entries[key] = e
	return e, true
}

// lookup returns the entry for key without installing one.
func (m *memo) lookup(key string) (*entry, bool) {
	s := m.shard(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	s.mu.Unlock()
	return e, ok
}

// len returns the total number of entries across all shards.
func (m *memo) len() int {
	total := 0
	for _, s := range m.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}
