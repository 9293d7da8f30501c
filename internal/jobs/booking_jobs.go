package jobs

import (
	"context"
	"time"

	"lendaround-backend/internal/logger"
)

// Reminder jobs only read bookings and send mail; booking status is written
// exclusively through the lifecycle state machine.

type reminderRow struct {
	BookingID     int32
	ItemName      string
	BorrowerEmail string
	Date          time.Time
}

// SendPickupReminders mails borrowers whose confirmed bookings start tomorrow.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		ctx := context.Background()
		tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

		query := `
			SELECT b.id, i.name, u.email, b.start_date
			FROM bookings b
			JOIN items i ON i.id = b.item_id
			JOIN users u ON u.id = b.borrower_id
			WHERE b.status = 'CONFIRMED'
			  AND b.start_date::date = $1
		`
		rows, err := jr.db.QueryContext(ctx, query, tomorrow)
		if err != nil {
			logger.Error("Failed to load pickup reminders", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var rem reminderRow
			if err := rows.Scan(&rem.BookingID, &rem.ItemName, &rem.BorrowerEmail, &rem.Date); err != nil {
				logger.Error("Failed to scan pickup reminder", "error", err)
				continue
			}
			if err := jr.emailSvc.SendBookingConfirmedNotification(ctx, rem.BorrowerEmail, rem.ItemName, rem.Date); err != nil {
				logger.Error("Failed to send pickup reminder", "booking_id", rem.BookingID, "error", err)
				continue
			}
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating pickup reminders", "error", err)
			return
		}
		logger.Info("Sent pickup reminders", "count", count)
	})
}

// SendReturnReminders mails borrowers whose ongoing rentals end tomorrow.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

		query := `
			SELECT b.id, i.name, u.email, b.end_date
			FROM bookings b
			JOIN items i ON i.id = b.item_id
			JOIN users u ON u.id = b.borrower_id
			WHERE b.status = 'ONGOING'
			  AND b.end_date::date = $1
		`
		rows, err := jr.db.QueryContext(ctx, query, tomorrow)
		if err != nil {
			logger.Error("Failed to load return reminders", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var rem reminderRow
			if err := rows.Scan(&rem.BookingID, &rem.ItemName, &rem.BorrowerEmail, &rem.Date); err != nil {
				logger.Error("Failed to scan return reminder", "error", err)
				continue
			}
			if err := jr.emailSvc.SendReturnReminderNotification(ctx, rem.BorrowerEmail, rem.ItemName, rem.Date); err != nil {
				logger.Error("Failed to send return reminder", "booking_id", rem.BookingID, "error", err)
				continue
			}
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating return reminders", "error", err)
			return
		}
		logger.Info("Sent return reminders", "count", count)
	})
}
