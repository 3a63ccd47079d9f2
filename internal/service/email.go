package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendReturnReceipt(ctx context.Context, to, name string, rentalID int32, invoiceTotalCents int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Return receipt for rental #%d", rentalID))

	body := fmt.Sprintf("Hello %s,\n\nYour rental #%d has been returned and closed.\n\nInvoice total: $%.2f\n\nThank you for renting with us,\nThe RentalDesk Team", name, rentalID, float64(invoiceTotalCents)/100)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send return receipt: %w", err)
	}

	return nil
}

func (s *emailService) SendOverdueReminder(ctx context.Context, to, name string, rentalID int32, expectedReturnDate string, lateDays int) error {
	m := gomail.NewMessage()
	m.SetHeader("To", to)
	m.SetHeader("From", s.from)
	m.SetHeader("Subject", fmt.Sprintf("Rental #%d is overdue", rentalID))

	body := fmt.Sprintf("Hello %s,\n\nYour rental #%d was expected back on %s and is now %d day(s) overdue.\n\nPlease return the car as soon as possible; late fees accrue daily.\n\nBest regards,\nThe RentalDesk Team", name, rentalID, expectedReturnDate, lateDays)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send overdue reminder: %w", err)
	}

	return nil
}
