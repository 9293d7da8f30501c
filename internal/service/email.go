package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingRequestNotification(ctx context.Context, lenderEmail, borrowerName, itemName string, start, end time.Time) error {
	body := fmt.Sprintf("Hello,\n\n%s requested to borrow your %s from %s to %s.\n\nPlease review the request in your dashboard.\n\nBest regards,\nThe Lendaround Team",
		borrowerName, itemName, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return s.send(lenderEmail, fmt.Sprintf("New booking request for %s", itemName), body)
}

func (s *emailService) SendBookingConfirmedNotification(ctx context.Context, borrowerEmail, itemName string, start time.Time) error {
	body := fmt.Sprintf("Hello,\n\nYour booking for %s was confirmed. The rental starts on %s.\n\nBest regards,\nThe Lendaround Team",
		itemName, start.Format("2006-01-02"))
	return s.send(borrowerEmail, fmt.Sprintf("Booking confirmed - %s", itemName), body)
}

func (s *emailService) SendBookingCancelledNotification(ctx context.Context, email, itemName, reason string) error {
	body := fmt.Sprintf("Hello,\n\nThe booking for %s was cancelled.", itemName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe Lendaround Team"
	return s.send(email, fmt.Sprintf("Booking cancelled - %s", itemName), body)
}

func (s *emailService) SendBookingStartedNotification(ctx context.Context, borrowerEmail, itemName string, end time.Time) error {
	body := fmt.Sprintf("Hello,\n\nYour rental of %s has started. Please return it by %s.\n\nBest regards,\nThe Lendaround Team",
		itemName, end.Format("2006-01-02"))
	return s.send(borrowerEmail, fmt.Sprintf("Rental started - %s", itemName), body)
}

func (s *emailService) SendReturnReminderNotification(ctx context.Context, borrowerEmail, itemName string, end time.Time) error {
	body := fmt.Sprintf("Hello,\n\nA reminder that your rental of %s ends on %s. Please arrange the return with the lender.\n\nBest regards,\nThe Lendaround Team",
		itemName, end.Format("2006-01-02"))
	return s.send(borrowerEmail, fmt.Sprintf("Return reminder - %s", itemName), body)
}

func (s *emailService) SendBookingCompletedNotification(ctx context.Context, borrowerEmail, itemName string, depositCents int32) error {
	body := fmt.Sprintf("Hello,\n\nYour rental of %s is complete. Your deposit of $%.2f has been released.\n\nBest regards,\nThe Lendaround Team",
		itemName, float64(depositCents)/100)
	return s.send(borrowerEmail, fmt.Sprintf("Rental completed - %s", itemName), body)
}

func (s *emailService) SendBookingDisputedNotification(ctx context.Context, borrowerEmail, itemName string) error {
	body := fmt.Sprintf("Hello,\n\nThe lender opened a dispute on your rental of %s. Our support team will contact you.\n\nBest regards,\nThe Lendaround Team", itemName)
	return s.send(borrowerEmail, fmt.Sprintf("Rental disputed - %s", itemName), body)
}
