package booking

import (
    "context"
    "fmt"
    "sync"
    "time"
)

// Booking status values as persisted in the bookings table.  A booking is
// created RESERVED and may transition once to CANCELLED; CANCELLED is
// terminal.
const (
    StatusReserved  = "RESERVED"
    StatusCancelled = "CANCELLED"
)

// Play carries the subset of play fields the coordinator needs: the
// capacity bound and the scheduled start, which doubles as the booking
// cutoff.  The catalog owns everything else (title, notice, store).
type Play struct {
    ID           uint64
    MaxVisitors  uint32
    PlayDateTime time.Time
}

// Booking is one committed reservation: a user holding a number of visitor slots
// against a single play.  The coordinator is the only writer of Status.
type Booking struct {
    ID        uint64
    UserID    uint64
    PlayID    uint64
    Visitors  uint32
    Status    string
    CreatedAt time.Time
}

// PlayCatalog resolves plays.  It is read-only from the coordinator's
// perspective; absence is reported through the ok result rather than an
// error so that infrastructure faults stay distinguishable.
type PlayCatalog interface {
    GetPlay(ctx context.Context, playID uint64) (Play, bool, error)
}

// BookingStore is the durable record of bookings.  Implementations report
// absence through ok results; any returned error is treated as an
// infrastructure fault.
type BookingStore interface {
    Insert(ctx context.Context, b *Booking) (uint64, error)
    UpdateStatus(ctx context.Context, bookingID uint64, status string) error
    FindByID(ctx context.Context, bookingID uint64) (Booking, bool, error)
    FindActiveByUserAndPlay(ctx context.Context, userID, playID uint64) (Booking, bool, error)
    SumReservedVisitors(ctx context.Context, playID uint64) (uint32, error)
}

// Coordinator is the sole entry point for booking state changes.  It
// enforces the closing rule, the capacity invariant and the one-active-
// booking-per-user rule, and keeps the capacity ledger consistent with the
// store.  The capacity check and the persistence write for a play run
// under that play's mutex, so two Reserve calls for the same play can
// never both pass the capacity check when only one fits.  Calls for
// different plays proceed fully in parallel.
type Coordinator struct {
    catalog PlayCatalog
    store   BookingStore
    ledger  *CapacityLedger
    now     func() time.Time

    mu    sync.Mutex
    locks map[uint64]*sync.Mutex // per-play critical sections
}

// NewCoordinator constructs a Coordinator.  All dependencies must be
// non-nil.
func NewCoordinator(catalog PlayCatalog, store BookingStore, ledger *CapacityLedger) *Coordinator {
    if catalog == nil || store == nil || ledger == nil {
        panic("nil dependency passed to NewCoordinator")
    }
    return &Coordinator{
        catalog: catalog,
        store:   store,
        ledger:  ledger,
        now:     func() time.Time { return time.Now().UTC() },
        locks:   make(map[uint64]*sync.Mutex),
    }
}

// playLock returns the mutex guarding the critical section for one play,
// creating it on first use.  Locks are never removed; the map grows with
// the number of distinct plays seen by this process.
func (c *Coordinator) playLock(playID uint64) *sync.Mutex {
    c.mu.Lock()
    defer c.mu.Unlock()
    l, ok := c.locks[playID]
    if !ok {
        l = &sync.Mutex{}
        c.locks[playID] = l
    }
    return l
}

// prime makes sure the ledger has an entry for the play, seeding the
// committed count from the store.  Must be called with the play's lock
// held so the seed cannot interleave with a concurrent reserve.
func (c *Coordinator) prime(ctx context.Context, play Play) error {
    if c.ledger.Primed(play.ID) {
        return nil
    }
    committed, err := c.store.SumReservedVisitors(ctx, play.ID)
    if err != nil {
        return fmt.Errorf("sum reserved visitors: %w", err)
    }
    c.ledger.Prime(play.ID, play.MaxVisitors, committed)
    return nil
}

// Reserve books visitor slots on a play for a user and returns the new
// booking's identifier.  Failure modes, checked in order: ErrInvalidRequest,
// ErrPlayNotFound, ErrReservationClosed, ErrDuplicateBooking,
// ErrCapacityExceeded.  Any other error is an infrastructure fault.  When
// the store insert fails after the ledger already granted capacity, the
// grant is released again so the ledger never carries a phantom increment.
func (c *Coordinator) Reserve(ctx context.Context, userID, playID uint64, visitors uint32) (uint64, error) {
    if visitors < 1 {
        return 0, ErrInvalidRequest
    }
    play, ok, err := c.catalog.GetPlay(ctx, playID)
    if err != nil {
        return 0, fmt.Errorf("load play: %w", err)
    }
    if !ok {
        return 0, ErrPlayNotFound
    }

    lock := c.playLock(playID)
    lock.Lock()
    defer lock.Unlock()

    if !c.now().Before(play.PlayDateTime) {
        return 0, ErrReservationClosed
    }
    if err := c.prime(ctx, play); err != nil {
        return 0, err
    }
    if _, exists, err := c.store.FindActiveByUserAndPlay(ctx, userID, playID); err != nil {
        return 0, fmt.Errorf("check active booking: %w", err)
    } else if exists {
        return 0, ErrDuplicateBooking
    }
    if _, ok := c.ledger.TryReserve(playID, visitors); !ok {
        return 0, ErrCapacityExceeded
    }

    b := &Booking{
        UserID:    userID,
        PlayID:    playID,
        Visitors:  visitors,
        Status:    StatusReserved,
        CreatedAt: c.now(),
    }
    id, err := c.store.Insert(ctx, b)
    if err != nil {
        // compensate: the slots were never durably committed
        c.ledger.Release(playID, visitors)
        return 0, fmt.Errorf("insert booking: %w", err)
    }
    return id, nil
}

// Cancel transitions a booking to CANCELLED and returns its slots to the
// play's capacity.  It fails with ErrBookingNotFound, ErrNotOwner or
// ErrAlreadyCancelled.  The status write and the ledger release happen in
// that order inside the play's critical section, so a Reserve running
// concurrently observes either the old committed count or the fully
// cancelled state, never a half-applied one.  The cancelled booking is
// returned so callers can publish its details.
func (c *Coordinator) Cancel(ctx context.Context, userID, bookingID uint64) (Booking, error) {
    b, ok, err := c.store.FindByID(ctx, bookingID)
    if err != nil {
        return Booking{}, fmt.Errorf("load booking: %w", err)
    }
    if !ok {
        return Booking{}, ErrBookingNotFound
    }
    if b.UserID != userID {
        return Booking{}, ErrNotOwner
    }

    lock := c.playLock(b.PlayID)
    lock.Lock()
    defer lock.Unlock()

    // Re-read under the lock: a concurrent cancel may have won the race
    // between the ownership check and here.
    b, ok, err = c.store.FindByID(ctx, bookingID)
    if err != nil {
        return Booking{}, fmt.Errorf("load booking: %w", err)
    }
    if !ok {
        return Booking{}, ErrBookingNotFound
    }
    if b.Status == StatusCancelled {
        return Booking{}, ErrAlreadyCancelled
    }
    if err := c.store.UpdateStatus(ctx, bookingID, StatusCancelled); err != nil {
        return Booking{}, fmt.Errorf("update booking status: %w", err)
    }
    c.ledger.Release(b.PlayID, b.Visitors)
    b.Status = StatusCancelled
    return b, nil
}

// GetResult returns the booking as stored, without side effects.  It
// fails with ErrBookingNotFound when the identifier is unknown.
func (c *Coordinator) GetResult(ctx context.Context, bookingID uint64) (Booking, error) {
    b, ok, err := c.store.FindByID(ctx, bookingID)
    if err != nil {
        return Booking{}, fmt.Errorf("load booking: %w", err)
    }
    if !ok {
        return Booking{}, ErrBookingNotFound
    }
    return b, nil
}

// Availability reports the committed and maximum visitor counts for a
// play.  The numbers are a point-in-time snapshot for display; they are
// not a promise that a following Reserve will succeed.
func (c *Coordinator) Availability(ctx context.Context, playID uint64) (committed, capacity uint32, err error) {
    play, ok, err := c.catalog.GetPlay(ctx, playID)
    if err != nil {
        return 0, 0, fmt.Errorf("load play: %w", err)
    }
    if !ok {
        return 0, 0, ErrPlayNotFound
    }

    lock := c.playLock(playID)
    lock.Lock()
    defer lock.Unlock()

    if err := c.prime(ctx, play); err != nil {
        return 0, 0, err
    }
    committed, capacity, _ = c.ledger.Snapshot(playID)
    return committed, capacity, nil
}
