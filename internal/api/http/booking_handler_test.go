package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lendaround-backend/internal/domain"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) Create(ctx context.Context, itemID, borrowerID int32, start, end time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, itemID, borrowerID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingService) Transition(ctx context.Context, bookingID, actorID int32, role domain.ActorRole, target domain.BookingStatus, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, actorID, role, target, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingService) ListForItem(ctx context.Context, itemID int32, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, itemID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockBookingService) ListByBorrower(ctx context.Context, borrowerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, borrowerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

func (m *mockBookingService) ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, lenderID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

func authedRequest(method, target string, body []byte, actorID int32) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), contextKeyActorID, actorID)
	return req.WithContext(ctx)
}

func testRouter(svc *mockBookingService) *mux.Router {
	h := NewBookingHandler(svc)
	r := mux.NewRouter()
	r.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	r.HandleFunc("/bookings", h.ListMyBookings).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id}/status", h.TransitionBooking).Methods(http.MethodPost)
	r.HandleFunc("/items/{id}/bookings", h.ListItemBookings).Methods(http.MethodGet)
	return r
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	body := []byte(`{"item_id": 2, "start_date": "2024-01-05", "end_date": "2024-01-10"}`)

	t.Run("Created", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("Create", mock.Anything, int32(2), int32(3), start, end).
			Return(&domain.Booking{ID: 1, ItemID: 2, BorrowerID: 3, Status: domain.BookingStatusPending}, nil)

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings", body, 3))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got domain.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int32(1), got.ID)
		assert.Equal(t, domain.BookingStatusPending, got.Status)
		svc.AssertExpectations(t)
	})

	t.Run("Conflict maps to 409", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("Create", mock.Anything, int32(2), int32(3), start, end).
			Return(nil, domain.Conflictf("dates no longer available"))

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings", body, 3))

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "CONFLICT", resp.Code)
	})

	t.Run("Validation maps to 422", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("Create", mock.Anything, int32(2), int32(3), start, end).
			Return(nil, domain.Validationf("dates outside availability"))

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings", body, 3))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Bad date", func(t *testing.T) {
		svc := new(mockBookingService)
		bad := []byte(`{"item_id": 2, "start_date": "05/01/2024", "end_date": "2024-01-10"}`)

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings", bad, 3))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Create")
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := new(mockBookingService)
		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBookingHandler_TransitionBooking(t *testing.T) {
	t.Run("Lender confirms", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("Transition", mock.Anything, int32(1), int32(10), domain.RoleLender, domain.BookingStatusConfirmed, "").
			Return(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed, PaymentStatus: domain.PaymentStatusPaid}, nil)

		body := []byte(`{"status": "confirmed", "role": "lender"}`)
		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/1/status", body, 10))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got domain.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)
		svc.AssertExpectations(t)
	})

	t.Run("Illegal edge maps to 409 with distinct code", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("Transition", mock.Anything, int32(1), int32(10), domain.RoleLender, domain.BookingStatusOngoing, "").
			Return(nil, domain.InvalidTransitionf("cannot transition booking from PENDING to ONGOING"))

		body := []byte(`{"status": "ongoing", "role": "lender"}`)
		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/1/status", body, 10))

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "INVALID_TRANSITION", resp.Code)
	})

	t.Run("Wrong actor maps to 403", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("Transition", mock.Anything, int32(1), int32(3), domain.RoleBorrower, domain.BookingStatusConfirmed, "").
			Return(nil, domain.Unauthorizedf("only the lender can confirm"))

		body := []byte(`{"status": "confirmed", "role": "borrower"}`)
		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/1/status", body, 3))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Unknown role rejected before the service", func(t *testing.T) {
		svc := new(mockBookingService)
		body := []byte(`{"status": "confirmed", "role": "admin"}`)

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/1/status", body, 10))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Transition")
	})

	t.Run("Bad id", func(t *testing.T) {
		svc := new(mockBookingService)
		body := []byte(`{"status": "confirmed", "role": "lender"}`)

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/bookings/abc/status", body, 10))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestBookingHandler_GetBooking(t *testing.T) {
	t.Run("Not found maps to 404", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("GetBooking", mock.Anything, int32(3), int32(99)).
			Return(nil, domain.NotFoundf("booking 99"))

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/bookings/99", nil, 3))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookingHandler_ListItemBookings(t *testing.T) {
	t.Run("Occupying filter expands to the calendar statuses", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("ListForItem", mock.Anything, int32(2), domain.OccupyingStatuses).
			Return([]domain.Booking{{ID: 1, ItemID: 2}}, nil)

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/items/2/bookings?status=occupying", nil, 3))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp listBookingsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int32(1), resp.TotalCount)
		svc.AssertExpectations(t)
	})

	t.Run("Unknown status in filter", func(t *testing.T) {
		svc := new(mockBookingService)

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/items/2/bookings?status=returned", nil, 3))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "ListForItem")
	})
}

func TestBookingHandler_ListMyBookings(t *testing.T) {
	t.Run("Defaults to borrower view", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("ListByBorrower", mock.Anything, int32(3), "", int32(1), int32(20)).
			Return([]domain.Booking{{ID: 1, BorrowerID: 3}}, int32(1), nil)

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/bookings", nil, 3))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Lender view with status filter", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("ListByLender", mock.Anything, int32(10), "PENDING", int32(2), int32(5)).
			Return([]domain.Booking{}, int32(0), nil)

		rec := httptest.NewRecorder()
		testRouter(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/bookings?role=lender&status=pending&page=2&page_size=5", nil, 10))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}
