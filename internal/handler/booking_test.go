package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marizoo/marizoo-server/internal/booking"
	"github.com/marizoo/marizoo-server/internal/repository"
)

// publishedEvent records one call to the handler's publish hook.
type publishedEvent struct {
	kind     string
	bookID   uint64
	playID   uint64
	visitors uint32
}

// newBookingHandler wires a BookingHandler onto a mocked database and
// swaps the broker publish for an in-memory recorder.
func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock, *[]publishedEvent) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	plays := repository.NewPlayRepo(db)
	books := repository.NewBookingRepo(db)
	h := NewBookingHandler(booking.NewCoordinator(plays, books, booking.NewCapacityLedger()), books, plays)

	events := []publishedEvent{}
	h.publish = func(kind string, bookID, _, playID uint64, visitors uint32) {
		events = append(events, publishedEvent{kind: kind, bookID: bookID, playID: playID, visitors: visitors})
	}
	return h, mock, &events
}

func newJSONContext(t *testing.T, method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	return c, rec
}

func expectPlayRow(mock sqlmock.Sqlmock, playID uint64, maxVisitors uint32, at time.Time) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, max_visitors, play_datetime FROM plays")).
		WithArgs(playID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "max_visitors", "play_datetime"}).
			AddRow(playID, maxVisitors, at))
}

func TestCreateBookingSuccess(t *testing.T) {
	h, mock, events := newBookingHandler(t)

	future := time.Now().UTC().Add(48 * time.Hour)
	expectPlayRow(mock, 5, 10, future)
	mock.ExpectQuery("COALESCE").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE user_id = ? AND play_id = ?")).
		WithArgs(uint64(9), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "play_id", "visitors", "status", "created_at"}))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(9), uint64(5), uint32(3), booking.StatusReserved).
		WillReturnResult(sqlmock.NewResult(77, 1))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/books", `{"play_id":5,"visitors":3}`, 9)
	require.NoError(t, h.CreateBooking(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"book_id":77`)
	require.Len(t, *events, 1)
	assert.Equal(t, "booking.reserved", (*events)[0].kind)
	assert.Equal(t, uint64(77), (*events)[0].bookID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingFullyBooked(t *testing.T) {
	h, mock, events := newBookingHandler(t)

	future := time.Now().UTC().Add(24 * time.Hour)
	expectPlayRow(mock, 5, 3, future)
	mock.ExpectQuery("COALESCE").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE user_id = ? AND play_id = ?")).
		WithArgs(uint64(9), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "play_id", "visitors", "status", "created_at"}))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/books", `{"play_id":5,"visitors":1}`, 9)
	require.NoError(t, h.CreateBooking(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "fully booked")
	assert.Empty(t, *events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingClosedPlay(t *testing.T) {
	h, mock, events := newBookingHandler(t)

	expectPlayRow(mock, 5, 10, time.Now().UTC().Add(-time.Hour))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/books", `{"play_id":5,"visitors":1}`, 9)
	require.NoError(t, h.CreateBooking(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "reservation closed")
	assert.Empty(t, *events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingDuplicate(t *testing.T) {
	h, mock, events := newBookingHandler(t)

	future := time.Now().UTC().Add(24 * time.Hour)
	expectPlayRow(mock, 5, 10, future)
	mock.ExpectQuery("COALESCE").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE user_id = ? AND play_id = ?")).
		WithArgs(uint64(9), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "play_id", "visitors", "status", "created_at"}).
			AddRow(11, 9, 5, 2, booking.StatusReserved, time.Now().UTC()))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/books", `{"play_id":5,"visitors":1}`, 9)
	require.NoError(t, h.CreateBooking(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already booked")
	assert.Empty(t, *events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingValidation(t *testing.T) {
	h, _, _ := newBookingHandler(t)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/books", `{"play_id":5,"visitors":0}`, 9)
	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newJSONContext(t, http.MethodPost, "/v1/books", `{"visitors":2}`, 9)
	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBooking(t *testing.T) {
	h, mock, events := newBookingHandler(t)

	bookingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "user_id", "play_id", "visitors", "status", "created_at"}).
			AddRow(11, 9, 5, 2, booking.StatusReserved, time.Now().UTC())
	}
	// loaded once for the ownership check and re-read under the play lock
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ?")).WithArgs(uint64(11)).WillReturnRows(bookingRow())
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ?")).WithArgs(uint64(11)).WillReturnRows(bookingRow())
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(booking.StatusCancelled, uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newJSONContext(t, http.MethodDelete, "/v1/books/11", "", 9)
	c.SetParamNames("id")
	c.SetParamValues("11")
	require.NoError(t, h.CancelBooking(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, *events, 1)
	assert.Equal(t, "booking.cancelled", (*events)[0].kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingNotOwner(t *testing.T) {
	h, mock, events := newBookingHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ?")).WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "play_id", "visitors", "status", "created_at"}).
			AddRow(11, 222, 5, 2, booking.StatusReserved, time.Now().UTC()))

	c, rec := newJSONContext(t, http.MethodDelete, "/v1/books/11", "", 9)
	c.SetParamNames("id")
	c.SetParamValues("11")
	require.NoError(t, h.CancelBooking(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, *events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingNotFound(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ?")).WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/books/404", "", 9)
	c.SetParamNames("id")
	c.SetParamValues("404")
	require.NoError(t, h.GetBooking(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAvailability(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	expectPlayRow(mock, 5, 10, time.Now().UTC().Add(24*time.Hour))
	mock.ExpectQuery("COALESCE").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(4))

	c, rec := newJSONContext(t, http.MethodGet, "/v1/plays/5/availability", "", 0)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.GetAvailability(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining":6`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
