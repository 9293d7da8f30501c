package service

import "sync"

// KeyedMutex serializes work per key. Booking creation locks the item key so
// at most one validate-then-insert sequence runs per item at a time; status
// transitions lock the booking key so load-apply-persist is atomic with
// respect to concurrent transitions on the same booking.
//
// Entries are never removed: the map is bounded by the number of distinct
// items and bookings touched by this process, and a mutex is a few words.
type KeyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for key and returns the unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
