package scheduler

import "sync"

// KeyedLock serializes work per key while letting different keys proceed
// concurrently. The zero value is ready to use.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock blocks until the lock for key is held and returns its release func.
func (k *KeyedLock) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// TryLock acquires the lock for key only if it is free.
func (k *KeyedLock) TryLock(key string) (unlock func(), ok bool) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, exists := k.locks[key]
	if !exists {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	if !m.TryLock() {
		return nil, false
	}
	return m.Unlock, true
}
