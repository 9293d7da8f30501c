package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"lendaround-backend/internal/domain"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByItem(ctx context.Context, itemID int32, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, itemID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByBorrower(ctx context.Context, borrowerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, borrowerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, lenderID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, lenderEmail, borrowerName, itemName string, start, end time.Time) error {
	args := m.Called(ctx, lenderEmail, borrowerName, itemName, start, end)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingConfirmedNotification(ctx context.Context, borrowerEmail, itemName string, start time.Time) error {
	args := m.Called(ctx, borrowerEmail, itemName, start)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancelledNotification(ctx context.Context, email, itemName, reason string) error {
	args := m.Called(ctx, email, itemName, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingStartedNotification(ctx context.Context, borrowerEmail, itemName string, end time.Time) error {
	args := m.Called(ctx, borrowerEmail, itemName, end)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminderNotification(ctx context.Context, borrowerEmail, itemName string, end time.Time) error {
	args := m.Called(ctx, borrowerEmail, itemName, end)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCompletedNotification(ctx context.Context, borrowerEmail, itemName string, depositCents int32) error {
	args := m.Called(ctx, borrowerEmail, itemName, depositCents)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingDisputedNotification(ctx context.Context, borrowerEmail, itemName string) error {
	args := m.Called(ctx, borrowerEmail, itemName)
	return args.Error(0)
}

// fakeBookingRepo is an in-memory store used by the concurrency and
// end-to-end lifecycle tests, where testify call expectations would get in
// the way of real interleavings.
type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int32
	bookings map[int32]domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, bookings: make(map[int32]domain.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID
	f.nextID++
	now := time.Now()
	b.CreatedOn = now
	b.UpdatedOn = now
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.NotFoundf("booking %d", id)
	}
	return &b, nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[b.ID]; !ok {
		return domain.NotFoundf("booking %d", b.ID)
	}
	b.UpdatedOn = time.Now()
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookingRepo) ListByItem(ctx context.Context, itemID int32, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.ItemID != itemID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if b.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByBorrower(ctx context.Context, borrowerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.BorrowerID == borrowerID && (status == "" || string(b.Status) == status) {
			out = append(out, b)
		}
	}
	return out, int32(len(out)), nil
}

func (f *fakeBookingRepo) ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.LenderID == lenderID && (status == "" || string(b.Status) == status) {
			out = append(out, b)
		}
	}
	return out, int32(len(out)), nil
}

// fakeItemRepo returns the same item for every lookup.
type fakeItemRepo struct {
	item *domain.Item
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	if f.item == nil || f.item.ID != id {
		return nil, domain.NotFoundf("item %d", id)
	}
	it := *f.item
	return &it, nil
}

// fakeUserRepo returns a stub user for any id.
type fakeUserRepo struct{}

func (fakeUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	return &domain.User{ID: id, Name: "User", Email: "user@test.com"}, nil
}

// fakeNoteRepo swallows notifications.
type fakeNoteRepo struct{}

func (fakeNoteRepo) Create(ctx context.Context, note *domain.Notification) error { return nil }
func (fakeNoteRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	return nil, 0, nil
}
func (fakeNoteRepo) MarkAsRead(ctx context.Context, id, userID int32) error { return nil }

// fakeEmailService swallows mail.
type fakeEmailService struct{}

func (fakeEmailService) SendBookingRequestNotification(ctx context.Context, lenderEmail, borrowerName, itemName string, start, end time.Time) error {
	return nil
}
func (fakeEmailService) SendBookingConfirmedNotification(ctx context.Context, borrowerEmail, itemName string, start time.Time) error {
	return nil
}
func (fakeEmailService) SendBookingCancelledNotification(ctx context.Context, email, itemName, reason string) error {
	return nil
}
func (fakeEmailService) SendBookingStartedNotification(ctx context.Context, borrowerEmail, itemName string, end time.Time) error {
	return nil
}
func (fakeEmailService) SendReturnReminderNotification(ctx context.Context, borrowerEmail, itemName string, end time.Time) error {
	return nil
}
func (fakeEmailService) SendBookingCompletedNotification(ctx context.Context, borrowerEmail, itemName string, depositCents int32) error {
	return nil
}
func (fakeEmailService) SendBookingDisputedNotification(ctx context.Context, borrowerEmail, itemName string) error {
	return nil
}
