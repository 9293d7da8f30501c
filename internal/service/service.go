package service

import (
	"context"
	"time"

	"lendaround-backend/internal/domain"
)

type BookingService interface {
	Create(ctx context.Context, itemID, borrowerID int32, start, end time.Time) (*domain.Booking, error)
	Transition(ctx context.Context, bookingID, actorID int32, role domain.ActorRole, target domain.BookingStatus, reason string) (*domain.Booking, error)
	GetBooking(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error)
	ListForItem(ctx context.Context, itemID int32, statuses []domain.BookingStatus) ([]domain.Booking, error)
	ListByBorrower(ctx context.Context, borrowerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, lenderEmail, borrowerName, itemName string, start, end time.Time) error
	SendBookingConfirmedNotification(ctx context.Context, borrowerEmail, itemName string, start time.Time) error
	SendBookingCancelledNotification(ctx context.Context, email, itemName, reason string) error
	SendBookingStartedNotification(ctx context.Context, borrowerEmail, itemName string, end time.Time) error
	SendReturnReminderNotification(ctx context.Context, borrowerEmail, itemName string, end time.Time) error
	SendBookingCompletedNotification(ctx context.Context, borrowerEmail, itemName string, depositCents int32) error
	SendBookingDisputedNotification(ctx context.Context, borrowerEmail, itemName string) error
}
