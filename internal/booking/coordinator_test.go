package booking

import (
    "context"
    "errors"
    "math"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// fakeCatalog serves plays from a map.
type fakeCatalog struct {
    plays map[uint64]Play
}

func (f *fakeCatalog) GetPlay(_ context.Context, playID uint64) (Play, bool, error) {
    p, ok := f.plays[playID]
    return p, ok, nil
}

// fakeStore is an in-memory BookingStore safe for concurrent use.  Setting
// failInsert makes Insert return an error without recording anything, which
// simulates the database going away mid-reserve.
type fakeStore struct {
    mu         sync.Mutex
    nextID     uint64
    bookings   map[uint64]Booking
    failInsert bool
}

func newFakeStore() *fakeStore {
    return &fakeStore{nextID: 1, bookings: make(map[uint64]Booking)}
}

func (f *fakeStore) Insert(_ context.Context, b *Booking) (uint64, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    if f.failInsert {
        return 0, errors.New("store unavailable")
    }
    b.ID = f.nextID
    f.nextID++
    f.bookings[b.ID] = *b
    return b.ID, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, bookingID uint64, status string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    b, ok := f.bookings[bookingID]
    if !ok {
        return errors.New("no such booking")
    }
    b.Status = status
    f.bookings[bookingID] = b
    return nil
}

func (f *fakeStore) FindByID(_ context.Context, bookingID uint64) (Booking, bool, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    b, ok := f.bookings[bookingID]
    return b, ok, nil
}

func (f *fakeStore) FindActiveByUserAndPlay(_ context.Context, userID, playID uint64) (Booking, bool, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, b := range f.bookings {
        if b.UserID == userID && b.PlayID == playID && b.Status == StatusReserved {
            return b, true, nil
        }
    }
    return Booking{}, false, nil
}

func (f *fakeStore) SumReservedVisitors(_ context.Context, playID uint64) (uint32, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    var sum uint32
    for _, b := range f.bookings {
        if b.PlayID == playID && b.Status == StatusReserved {
            sum += b.Visitors
        }
    }
    return sum, nil
}

// reservedSum recomputes the invariant side of the ledger from the store.
func (f *fakeStore) reservedSum(playID uint64) uint32 {
    sum, _ := f.SumReservedVisitors(context.Background(), playID)
    return sum
}

func newTestCoordinator(plays ...Play) (*Coordinator, *fakeStore) {
    cat := &fakeCatalog{plays: make(map[uint64]Play)}
    for _, p := range plays {
        cat.plays[p.ID] = p
    }
    store := newFakeStore()
    return NewCoordinator(cat, store, NewCapacityLedger()), store
}

func futurePlay(id uint64, maxVisitors uint32) Play {
    return Play{ID: id, MaxVisitors: maxVisitors, PlayDateTime: time.Now().UTC().Add(24 * time.Hour)}
}

func TestReserveRoundTrip(t *testing.T) {
    c, _ := newTestCoordinator(futurePlay(1, 10))
    ctx := context.Background()

    id, err := c.Reserve(ctx, 100, 1, 4)
    require.NoError(t, err)
    require.NotZero(t, id)

    b, err := c.GetResult(ctx, id)
    require.NoError(t, err)
    assert.Equal(t, StatusReserved, b.Status)
    assert.Equal(t, uint32(4), b.Visitors)
    assert.Equal(t, uint64(100), b.UserID)
    assert.Equal(t, uint64(1), b.PlayID)
}

func TestReserveValidation(t *testing.T) {
    c, _ := newTestCoordinator(futurePlay(1, 10))
    ctx := context.Background()

    _, err := c.Reserve(ctx, 100, 1, 0)
    assert.ErrorIs(t, err, ErrInvalidRequest)

    _, err = c.Reserve(ctx, 100, 999, 1)
    assert.ErrorIs(t, err, ErrPlayNotFound)
}

func TestReserveClosedPlay(t *testing.T) {
    past := Play{ID: 1, MaxVisitors: 10, PlayDateTime: time.Now().UTC().Add(-time.Hour)}
    c, _ := newTestCoordinator(past)

    // plenty of capacity left, but the play already started
    _, err := c.Reserve(context.Background(), 100, 1, 1)
    assert.ErrorIs(t, err, ErrReservationClosed)
}

func TestReserveDuplicateGuard(t *testing.T) {
    c, _ := newTestCoordinator(futurePlay(1, 10))
    ctx := context.Background()

    id, err := c.Reserve(ctx, 100, 1, 2)
    require.NoError(t, err)

    _, err = c.Reserve(ctx, 100, 1, 1)
    assert.ErrorIs(t, err, ErrDuplicateBooking)

    // a different user is unaffected
    _, err = c.Reserve(ctx, 101, 1, 1)
    assert.NoError(t, err)

    // after cancelling, the same user may book again
    _, err = c.Cancel(ctx, 100, id)
    require.NoError(t, err)
    _, err = c.Reserve(ctx, 100, 1, 2)
    assert.NoError(t, err)
}

func TestReserveCapacityBoundary(t *testing.T) {
    c, store := newTestCoordinator(futurePlay(1, 5))
    ctx := context.Background()

    _, err := c.Reserve(ctx, 100, 1, 3)
    require.NoError(t, err)
    _, err = c.Reserve(ctx, 101, 1, 2)
    require.NoError(t, err)

    // 3+2 fills the play exactly; one more visitor must be refused
    _, err = c.Reserve(ctx, 102, 1, 1)
    assert.ErrorIs(t, err, ErrCapacityExceeded)
    assert.Equal(t, uint32(5), store.reservedSum(1))
}

// TestReserveOversizedVisitorCount sends a visitor count near the uint32
// maximum, the kind of value a hostile client can put in the JSON body.
// It must be rejected as a capacity miss, never accepted via overflow,
// and must leave the play's committed count intact.
func TestReserveOversizedVisitorCount(t *testing.T) {
    c, store := newTestCoordinator(futurePlay(1, 5))
    ctx := context.Background()

    _, err := c.Reserve(ctx, 100, 1, 3)
    require.NoError(t, err)

    _, err = c.Reserve(ctx, 101, 1, math.MaxUint32)
    assert.ErrorIs(t, err, ErrCapacityExceeded)
    assert.Equal(t, uint32(3), store.reservedSum(1))

    // the earlier rejection must not have corrupted the ledger
    _, err = c.Reserve(ctx, 101, 1, 2)
    assert.NoError(t, err)
    assert.Equal(t, uint32(5), store.reservedSum(1))
}

func TestReservePrimesLedgerFromStore(t *testing.T) {
    // Bookings that predate this process must count against capacity.
    c, store := newTestCoordinator(futurePlay(1, 5))
    store.bookings[900] = Booking{ID: 900, UserID: 55, PlayID: 1, Visitors: 4, Status: StatusReserved}

    _, err := c.Reserve(context.Background(), 100, 1, 2)
    assert.ErrorIs(t, err, ErrCapacityExceeded)

    _, err = c.Reserve(context.Background(), 100, 1, 1)
    assert.NoError(t, err)
}

func TestReserveInsertFailureReleasesCapacity(t *testing.T) {
    c, store := newTestCoordinator(futurePlay(1, 1))
    ctx := context.Background()

    store.failInsert = true
    _, err := c.Reserve(ctx, 100, 1, 1)
    require.Error(t, err)
    assert.NotErrorIs(t, err, ErrCapacityExceeded)

    // the failed insert must not leave a phantom increment behind
    store.failInsert = false
    _, err = c.Reserve(ctx, 100, 1, 1)
    assert.NoError(t, err)
}

// TestReserveNoDoubleAcceptUnderRace fires two concurrent reserves at a
// single-slot play and requires exactly one acceptance and one capacity
// rejection.
func TestReserveNoDoubleAcceptUnderRace(t *testing.T) {
    for i := 0; i < 100; i++ {
        c, store := newTestCoordinator(futurePlay(1, 1))
        ctx := context.Background()

        results := make(chan error, 2)
        var wg sync.WaitGroup
        for _, uid := range []uint64{100, 101} {
            wg.Add(1)
            go func(uid uint64) {
                defer wg.Done()
                _, err := c.Reserve(ctx, uid, 1, 1)
                results <- err
            }(uid)
        }
        wg.Wait()
        close(results)

        var oks, full int
        for err := range results {
            switch {
            case err == nil:
                oks++
            case errors.Is(err, ErrCapacityExceeded):
                full++
            default:
                t.Fatalf("unexpected error: %v", err)
            }
        }
        require.Equal(t, 1, oks)
        require.Equal(t, 1, full)
        require.Equal(t, uint32(1), store.reservedSum(1))
    }
}

// TestCapacityInvariantUnderLoad books and cancels from many goroutines
// and checks that the sum of RESERVED visitors never exceeds the maximum.
func TestCapacityInvariantUnderLoad(t *testing.T) {
    const maxVisitors = 20
    c, store := newTestCoordinator(futurePlay(1, maxVisitors))
    ctx := context.Background()

    var wg sync.WaitGroup
    for uid := uint64(1); uid <= 100; uid++ {
        wg.Add(1)
        go func(uid uint64) {
            defer wg.Done()
            id, err := c.Reserve(ctx, uid, 1, uint32(uid%3+1))
            if err != nil {
                return
            }
            if uid%2 == 0 {
                _, _ = c.Cancel(ctx, uid, id)
            }
        }(uid)
    }
    wg.Wait()

    sum := store.reservedSum(1)
    assert.LessOrEqual(t, sum, uint32(maxVisitors))

    committed, capacity, err := c.Availability(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, sum, committed)
    assert.Equal(t, uint32(maxVisitors), capacity)
}

func TestCancelOutcomes(t *testing.T) {
    c, _ := newTestCoordinator(futurePlay(1, 5))
    ctx := context.Background()

    id, err := c.Reserve(ctx, 100, 1, 3)
    require.NoError(t, err)

    _, err = c.Cancel(ctx, 100, 999)
    assert.ErrorIs(t, err, ErrBookingNotFound)

    _, err = c.Cancel(ctx, 200, id)
    assert.ErrorIs(t, err, ErrNotOwner)

    cancelled, err := c.Cancel(ctx, 100, id)
    require.NoError(t, err)
    assert.Equal(t, StatusCancelled, cancelled.Status)

    b, err := c.GetResult(ctx, id)
    require.NoError(t, err)
    assert.Equal(t, StatusCancelled, b.Status)
}

// TestCancelIdempotent cancels a booking twice.  The second call must
// report ErrAlreadyCancelled and must not release capacity again.
func TestCancelIdempotent(t *testing.T) {
    c, _ := newTestCoordinator(futurePlay(1, 2))
    ctx := context.Background()

    id, err := c.Reserve(ctx, 100, 1, 2)
    require.NoError(t, err)

    _, err = c.Cancel(ctx, 100, id)
    require.NoError(t, err)
    committed, _, err := c.Availability(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, uint32(0), committed)

    _, err = c.Cancel(ctx, 100, id)
    assert.ErrorIs(t, err, ErrAlreadyCancelled)

    // a double release would have wrapped below zero or freed slots that
    // were never booked; committed must still be exactly zero
    committed, _, err = c.Availability(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, uint32(0), committed)
}

func TestCancelFreesCapacityForOthers(t *testing.T) {
    c, _ := newTestCoordinator(futurePlay(1, 1))
    ctx := context.Background()

    id, err := c.Reserve(ctx, 100, 1, 1)
    require.NoError(t, err)

    _, err = c.Reserve(ctx, 101, 1, 1)
    require.ErrorIs(t, err, ErrCapacityExceeded)

    _, err = c.Cancel(ctx, 100, id)
    require.NoError(t, err)

    _, err = c.Reserve(ctx, 101, 1, 1)
    assert.NoError(t, err)
}

func TestGetResultNotFound(t *testing.T) {
    c, _ := newTestCoordinator(futurePlay(1, 5))
    _, err := c.GetResult(context.Background(), 12345)
    assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestAvailabilityUnknownPlay(t *testing.T) {
    c, _ := newTestCoordinator(futurePlay(1, 5))
    _, _, err := c.Availability(context.Background(), 999)
    assert.ErrorIs(t, err, ErrPlayNotFound)
}
