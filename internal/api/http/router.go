package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"lendaround-backend/internal/security"
	"lendaround-backend/internal/service"
)

// NewRouter wires the JSON API. Everything under /api/v1 except the health
// endpoint requires a valid bearer token.
func NewRouter(bookingSvc service.BookingService, noteSvc service.NotificationService, tokens security.TokenManager) *mux.Router {
	bookings := NewBookingHandler(bookingSvc)
	notifications := NewNotificationHandler(noteSvc)

	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/bookings", bookings.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookings.ListMyBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", bookings.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/status", bookings.TransitionBooking).Methods(http.MethodPost)
	api.HandleFunc("/items/{id:[0-9]+}/bookings", bookings.ListItemBookings).Methods(http.MethodGet)

	api.HandleFunc("/notifications", notifications.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notifications.MarkAsRead).Methods(http.MethodPost)

	return r
}
