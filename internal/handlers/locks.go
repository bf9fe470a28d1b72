package handlers

import (
	"hash/fnv"
	"sync"
)

// keyedMutex serializes operations sharing a key. The accept transition's
// clear-then-set sequence runs under the lock for its question id so two
// concurrent accepts cannot both observe zero accepted answers.
type keyedMutex struct {
	stripes [64]sync.Mutex
}

// Lock acquires the stripe for key and returns its unlock func.
func (m *keyedMutex) Lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	mu := &m.stripes[h.Sum32()%uint32(len(m.stripes))]
	mu.Lock()
	return mu.Unlock
}
