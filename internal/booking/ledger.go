package booking

import "sync"

// CapacityLedger keeps, per play, the authoritative count of visitors
// committed by RESERVED bookings.  It is derived data: the same number is
// always reconstructible by summing visitor counts over RESERVED bookings.
// It is maintained incrementally so that the reserve path performs a
// single in-memory check-and-increment instead of a SUM query, closing the
// read-then-write race window.
//
// Entries are fully independent: each play has its own lock, so contention
// on one play never blocks operations on another.  TryReserve and Release
// are linearizable with respect to other calls for the same play.
type CapacityLedger struct {
    mu      sync.RWMutex
    entries map[uint64]*ledgerEntry
}

// ledgerEntry tracks one play's capacity and committed visitor count.
type ledgerEntry struct {
    mu        sync.Mutex
    capacity  uint32 // plays.max_visitors, fixed for the entry's lifetime
    committed uint32 // sum of visitors over RESERVED bookings
}

// NewCapacityLedger returns an empty ledger.  Entries are created by Prime
// the first time the coordinator touches a play.
func NewCapacityLedger() *CapacityLedger {
    return &CapacityLedger{entries: make(map[uint64]*ledgerEntry)}
}

// Prime installs an entry for the play if none exists yet, seeding it with
// the play's capacity and the committed count loaded from the store.  It is
// a no-op when the entry already exists, so concurrent callers may race to
// prime the same play safely.
func (l *CapacityLedger) Prime(playID uint64, capacity, committed uint32) {
    l.mu.Lock()
    defer l.mu.Unlock()
    if _, ok := l.entries[playID]; ok {
        return
    }
    l.entries[playID] = &ledgerEntry{capacity: capacity, committed: committed}
}

// Primed reports whether an entry exists for the play.
func (l *CapacityLedger) Primed(playID uint64) bool {
    l.mu.RLock()
    defer l.mu.RUnlock()
    _, ok := l.entries[playID]
    return ok
}

// TryReserve atomically consumes visitors from the play's remaining
// capacity.  It succeeds only when committed+visitors <= capacity and
// returns the new committed count; on failure the entry is unchanged.
// The boolean result is false both on capacity misses and when the play
// has never been primed.
func (l *CapacityLedger) TryReserve(playID uint64, visitors uint32) (uint32, bool) {
    e := l.entry(playID)
    if e == nil {
        return 0, false
    }
    e.mu.Lock()
    defer e.mu.Unlock()
    // Compare against the remaining headroom instead of summing, so a
    // huge visitor count cannot wrap uint32 and slip past the check.
    if visitors > e.capacity-e.committed {
        return e.committed, false
    }
    e.committed += visitors
    return e.committed, true
}

// Release returns visitors to the play's capacity.  The count never goes
// below zero.  Release does not check whether the matching booking was
// already released; guarding against double release is the coordinator's
// responsibility.
func (l *CapacityLedger) Release(playID uint64, visitors uint32) {
    e := l.entry(playID)
    if e == nil {
        return
    }
    e.mu.Lock()
    defer e.mu.Unlock()
    if visitors > e.committed {
        e.committed = 0
        return
    }
    e.committed -= visitors
}

// Snapshot returns the committed visitor count and capacity for the play
// at this instant.  The value is for availability display only: a caller
// must not assume Snapshot followed by TryReserve is atomic.
func (l *CapacityLedger) Snapshot(playID uint64) (committed, capacity uint32, ok bool) {
    e := l.entry(playID)
    if e == nil {
        return 0, 0, false
    }
    e.mu.Lock()
    defer e.mu.Unlock()
    return e.committed, e.capacity, true
}

func (l *CapacityLedger) entry(playID uint64) *ledgerEntry {
    l.mu.RLock()
    defer l.mu.RUnlock()
    return l.entries[playID]
}
