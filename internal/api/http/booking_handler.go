package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"lendaround-backend/internal/domain"
	"lendaround-backend/internal/service"
)

// BookingHandler exposes the booking core over JSON.
type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

type createBookingRequest struct {
	ItemID    int32  `json:"item_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type transitionBookingRequest struct {
	Status string `json:"status"`
	Role   string `json:"role"`
	Reason string `json:"reason,omitempty"`
}

type listBookingsResponse struct {
	Bookings   []domain.Booking `json:"bookings"`
	TotalCount int32            `json:"total_count"`
}

// parseDate accepts either a plain calendar date or a full RFC 3339
// timestamp; rentals with pickup times round partial days up in pricing.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.Validationf("invalid date %q, expected yyyy-mm-dd or RFC 3339", value)
	}
	return t, nil
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body"))
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.Create(r.Context(), req.ItemID, actorID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) TransitionBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}

	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req transitionBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body"))
		return
	}

	role := domain.ActorRole(strings.ToUpper(req.Role))
	if role != domain.RoleBorrower && role != domain.RoleLender {
		writeError(w, domain.Validationf("role must be BORROWER or LENDER"))
		return
	}

	target := domain.BookingStatus(strings.ToUpper(req.Status))
	booking, err := h.bookingSvc.Transition(r.Context(), bookingID, actorID, role, target, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}

	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.GetBooking(r.Context(), actorID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// ListItemBookings serves calendar/overlap displays. An optional comma
// separated status filter narrows the result; "occupying" selects the
// statuses that block the calendar.
func (h *BookingHandler) ListItemBookings(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var statuses []domain.BookingStatus
	if filter := r.URL.Query().Get("status"); filter != "" {
		if filter == "occupying" {
			statuses = domain.OccupyingStatuses
		} else {
			for _, s := range strings.Split(filter, ",") {
				status := domain.BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
				if !status.IsValid() {
					writeError(w, domain.Validationf("unknown booking status %q", s))
					return
				}
				statuses = append(statuses, status)
			}
		}
	}

	bookings, err := h.bookingSvc.ListForItem(r.Context(), itemID, statuses)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listBookingsResponse{Bookings: bookings, TotalCount: int32(len(bookings))})
}

// ListMyBookings lists the caller's bookings as borrower (default) or as
// lender when role=lender.
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}

	status := strings.ToUpper(r.URL.Query().Get("status"))
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	var (
		bookings []domain.Booking
		count    int32
		err      error
	)
	if strings.EqualFold(r.URL.Query().Get("role"), "lender") {
		bookings, count, err = h.bookingSvc.ListByLender(r.Context(), actorID, status, page, pageSize)
	} else {
		bookings, count, err = h.bookingSvc.ListByBorrower(r.Context(), actorID, status, page, pageSize)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listBookingsResponse{Bookings: bookings, TotalCount: count})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid id %q", raw)
	}
	return int32(id), nil
}

func queryInt(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
