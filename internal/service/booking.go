package service

import (
	"context"
	"fmt"
	"time"

	"lendaround-backend/internal/domain"
	"lendaround-backend/internal/logger"
	"lendaround-backend/internal/queue"
	"lendaround-backend/internal/repository"
	"lendaround-backend/internal/utils"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
	events      *queue.Publisher
	locks       *KeyedMutex
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	events *queue.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
		events:      events,
		locks:       NewKeyedMutex(),
	}
}

func itemLockKey(itemID int32) string       { return fmt.Sprintf("item:%d", itemID) }
func bookingLockKey(bookingID int32) string { return fmt.Sprintf("booking:%d", bookingID) }

// Create arbitrates a new booking request. Availability is checked once up
// front to fail fast, then re-checked while holding the per-item lock so two
// racing requests with overlapping ranges can never both commit.
func (s *bookingService) Create(ctx context.Context, itemID, borrowerID int32, start, end time.Time) (*domain.Booking, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, domain.NotFoundf("item %d is not listed for booking", itemID)
	}

	if err := s.checkItemAvailability(ctx, item, start, end); err != nil {
		return nil, err
	}

	quote := utils.ComputeQuote(start, end, item.DailyPriceCents, item.DepositCents)

	booking, err := func() (*domain.Booking, error) {
		unlock := s.locks.Lock(itemLockKey(itemID))
		defer unlock()

		// Another request may have committed between the first check and
		// lock acquisition; decide again on fresh data before inserting.
		if err := s.checkItemAvailability(ctx, item, start, end); err != nil {
			return nil, err
		}

		b := &domain.Booking{
			ItemID:           itemID,
			BorrowerID:       borrowerID,
			LenderID:         item.OwnerID,
			StartDate:        start,
			EndDate:          end,
			TotalDays:        quote.TotalDays,
			TotalAmountCents: quote.TotalAmountCents,
			DepositCents:     quote.DepositCents,
			Status:           domain.BookingStatusPending,
			PaymentStatus:    domain.PaymentStatusUnpaid,
		}
		if err := s.bookingRepo.Create(ctx, b); err != nil {
			return nil, err
		}
		return b, nil
	}()
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, booking, item)
	return booking, nil
}

func (s *bookingService) checkItemAvailability(ctx context.Context, item *domain.Item, start, end time.Time) error {
	occupying, err := s.bookingRepo.ListByItem(ctx, item.ID, domain.OccupyingStatuses)
	if err != nil {
		return err
	}
	return CheckAvailability(item, occupying, start, end, 0)
}

// Transition moves a booking along the lifecycle table on behalf of an
// actor. Authorization is decided here against the booking's borrower and
// lender references; the table itself only defines which edges exist. The
// per-booking lock makes load-apply-persist atomic with respect to
// concurrent transitions on the same booking.
func (s *bookingService) Transition(ctx context.Context, bookingID, actorID int32, role domain.ActorRole, target domain.BookingStatus, reason string) (*domain.Booking, error) {
	if !target.IsValid() {
		return nil, domain.Validationf("unknown booking status %q", target)
	}

	booking, fromStatus, err := func() (*domain.Booking, domain.BookingStatus, error) {
		unlock := s.locks.Lock(bookingLockKey(bookingID))
		defer unlock()

		b, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, "", err
		}

		if err := authorizeTransition(b, actorID, role, target); err != nil {
			return nil, "", err
		}

		effect, err := domain.ApplyTransition(b.Status, target)
		if err != nil {
			return nil, "", err
		}

		from := b.Status
		b.Status = target
		if effect.PaymentStatus != nil {
			b.PaymentStatus = *effect.PaymentStatus
		}
		if effect.RecordCancellation {
			now := time.Now().UTC()
			b.CancelledAt = &now
			b.CancellationReason = reason
		}

		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return nil, "", err
		}
		return b, from, nil
	}()
	if err != nil {
		return nil, err
	}

	s.notifyStatusChanged(ctx, booking, fromStatus, reason)
	return booking, nil
}

// authorizeTransition enforces who may request each edge: cancellation by
// the booking's borrower or lender, everything else by the lender only.
// Whether the edge exists at all is the lifecycle table's decision.
func authorizeTransition(b *domain.Booking, actorID int32, role domain.ActorRole, target domain.BookingStatus) error {
	if target == domain.BookingStatusCancelled {
		switch role {
		case domain.RoleBorrower:
			if b.BorrowerID != actorID {
				return domain.Unauthorizedf("user %d is not the borrower of booking %d", actorID, b.ID)
			}
		case domain.RoleLender:
			if b.LenderID != actorID {
				return domain.Unauthorizedf("user %d is not the lender of booking %d", actorID, b.ID)
			}
		default:
			return domain.Unauthorizedf("role %q may not cancel bookings", role)
		}
		return nil
	}

	if role != domain.RoleLender || b.LenderID != actorID {
		return domain.Unauthorizedf("only the lender of booking %d may set status %s", b.ID, target)
	}
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.BorrowerID != actorID && b.LenderID != actorID {
		return nil, domain.Unauthorizedf("user %d is not a party to booking %d", actorID, bookingID)
	}
	return b, nil
}

func (s *bookingService) ListForItem(ctx context.Context, itemID int32, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	return s.bookingRepo.ListByItem(ctx, itemID, statuses)
}

func (s *bookingService) ListByBorrower(ctx context.Context, borrowerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByBorrower(ctx, borrowerID, status, page, pageSize)
}

func (s *bookingService) ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByLender(ctx, lenderID, status, page, pageSize)
}

// notifyCreated fans out the "new request" notices to the lender. All of it
// is best-effort: a failed email, event, or notification row never fails the
// booking that triggered it.
func (s *bookingService) notifyCreated(ctx context.Context, b *domain.Booking, item *domain.Item) {
	lender, _ := s.userRepo.GetByID(ctx, b.LenderID)
	borrower, _ := s.userRepo.GetByID(ctx, b.BorrowerID)
	if lender != nil && borrower != nil && s.emailSvc != nil {
		if err := s.emailSvc.SendBookingRequestNotification(ctx, lender.Email, borrower.Name, item.Name, b.StartDate, b.EndDate); err != nil {
			logger.Warn("booking request email failed", "booking_id", b.ID, "error", err)
		}
	}

	if lender != nil && borrower != nil {
		note := &domain.Notification{
			UserID:  lender.ID,
			Title:   "New Booking Request",
			Message: fmt.Sprintf("%s requested to borrow %s", borrower.Name, item.Name),
			Attributes: map[string]string{
				"type":       "BOOKING_REQUEST",
				"booking_id": fmt.Sprintf("%d", b.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Warn("booking request notification failed", "booking_id", b.ID, "error", err)
		}
	}

	_ = s.events.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:        b.ID,
		ItemID:           b.ItemID,
		BorrowerID:       b.BorrowerID,
		LenderID:         b.LenderID,
		StartDate:        b.StartDate.Format(time.RFC3339),
		EndDate:          b.EndDate.Format(time.RFC3339),
		TotalDays:        b.TotalDays,
		TotalAmountCents: b.TotalAmountCents,
		DepositCents:     b.DepositCents,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *bookingService) notifyStatusChanged(ctx context.Context, b *domain.Booking, from domain.BookingStatus, reason string) {
	item, _ := s.itemRepo.GetByID(ctx, b.ItemID)
	borrower, _ := s.userRepo.GetByID(ctx, b.BorrowerID)
	lender, _ := s.userRepo.GetByID(ctx, b.LenderID)

	itemName := fmt.Sprintf("item %d", b.ItemID)
	if item != nil {
		itemName = item.Name
	}

	if borrower != nil && s.emailSvc != nil {
		var err error
		switch b.Status {
		case domain.BookingStatusConfirmed:
			err = s.emailSvc.SendBookingConfirmedNotification(ctx, borrower.Email, itemName, b.StartDate)
		case domain.BookingStatusOngoing:
			err = s.emailSvc.SendBookingStartedNotification(ctx, borrower.Email, itemName, b.EndDate)
		case domain.BookingStatusCompleted:
			err = s.emailSvc.SendBookingCompletedNotification(ctx, borrower.Email, itemName, b.DepositCents)
		case domain.BookingStatusDisputed:
			err = s.emailSvc.SendBookingDisputedNotification(ctx, borrower.Email, itemName)
		case domain.BookingStatusCancelled:
			// Cancellation notifies the counterparty below instead.
		}
		if err != nil {
			logger.Warn("booking status email failed", "booking_id", b.ID, "status", b.Status, "error", err)
		}
	}

	if b.Status == domain.BookingStatusCancelled && s.emailSvc != nil {
		// Whoever did not cancel gets the notice; both parties may cancel,
		// so tell both when we cannot tell who acted.
		if lender != nil {
			if err := s.emailSvc.SendBookingCancelledNotification(ctx, lender.Email, itemName, reason); err != nil {
				logger.Warn("booking cancelled email failed", "booking_id", b.ID, "error", err)
			}
		}
		if borrower != nil {
			if err := s.emailSvc.SendBookingCancelledNotification(ctx, borrower.Email, itemName, reason); err != nil {
				logger.Warn("booking cancelled email failed", "booking_id", b.ID, "error", err)
			}
		}
	}

	counterparty := b.BorrowerID
	if b.Status == domain.BookingStatusCancelled {
		counterparty = b.LenderID
	}
	note := &domain.Notification{
		UserID:  counterparty,
		Title:   "Booking Updated",
		Message: fmt.Sprintf("Booking for %s is now %s", itemName, b.Status),
		Attributes: map[string]string{
			"type":       "BOOKING_STATUS",
			"booking_id": fmt.Sprintf("%d", b.ID),
			"status":     string(b.Status),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("booking status notification failed", "booking_id", b.ID, "error", err)
	}

	_ = s.events.PublishBookingStatusChanged(ctx, queue.BookingStatusChangedEvent{
		BookingID:     b.ID,
		ItemID:        b.ItemID,
		BorrowerID:    b.BorrowerID,
		LenderID:      b.LenderID,
		FromStatus:    string(from),
		ToStatus:      string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		Reason:        reason,
		ChangedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}
