package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/marizoo/marizoo-server/internal/booking"
)

func newBookingRepoMock(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    return NewBookingRepo(db), mock
}

func TestBookingRepoInsert(t *testing.T) {
    repo, mock := newBookingRepoMock(t)

    mock.ExpectExec(`INSERT INTO bookings (user_id, play_id, visitors, status) VALUES (?, ?, ?, ?)`).
        WithArgs(uint64(7), uint64(3), uint32(2), booking.StatusReserved).
        WillReturnResult(sqlmock.NewResult(41, 1))

    b := &booking.Booking{UserID: 7, PlayID: 3, Visitors: 2, Status: booking.StatusReserved}
    id, err := repo.Insert(context.Background(), b)
    require.NoError(t, err)
    assert.Equal(t, uint64(41), id)
    assert.Equal(t, uint64(41), b.ID)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoFindByID(t *testing.T) {
    repo, mock := newBookingRepoMock(t)
    created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

    rows := sqlmock.NewRows([]string{"id", "user_id", "play_id", "visitors", "status", "created_at"}).
        AddRow(41, 7, 3, 2, booking.StatusReserved, created)
    mock.ExpectQuery(`SELECT id, user_id, play_id, visitors, status, created_at FROM bookings WHERE id = ?`).
        WithArgs(uint64(41)).
        WillReturnRows(rows)

    b, ok, err := repo.FindByID(context.Background(), 41)
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, uint64(7), b.UserID)
    assert.Equal(t, uint32(2), b.Visitors)
    assert.Equal(t, created, b.CreatedAt)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoFindByIDAbsent(t *testing.T) {
    repo, mock := newBookingRepoMock(t)

    mock.ExpectQuery(`SELECT id, user_id, play_id, visitors, status, created_at FROM bookings WHERE id = ?`).
        WithArgs(uint64(999)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "play_id", "visitors", "status", "created_at"}))

    _, ok, err := repo.FindByID(context.Background(), 999)
    require.NoError(t, err)
    assert.False(t, ok)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoSumReservedVisitors(t *testing.T) {
    repo, mock := newBookingRepoMock(t)

    mock.ExpectQuery(`SELECT COALESCE(SUM(visitors), 0) FROM bookings WHERE play_id = ? AND status = 'RESERVED'`).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(5))

    sum, err := repo.SumReservedVisitors(context.Background(), 3)
    require.NoError(t, err)
    assert.Equal(t, uint32(5), sum)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoUpdateStatus(t *testing.T) {
    repo, mock := newBookingRepoMock(t)

    mock.ExpectExec(`UPDATE bookings SET status = ? WHERE id = ?`).
        WithArgs(booking.StatusCancelled, uint64(41)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    err := repo.UpdateStatus(context.Background(), 41, booking.StatusCancelled)
    require.NoError(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}
