package repository

import (
	"context"

	"lendaround-backend/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	// ListByItem returns the item's bookings whose status is in the given
	// set. Passing nil returns all of them.
	ListByItem(ctx context.Context, itemID int32, statuses []domain.BookingStatus) ([]domain.Booking, error)
	ListByBorrower(ctx context.Context, borrowerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type ItemRepository interface {
	// GetByID loads the item along with its published availability windows.
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
