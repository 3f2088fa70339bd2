package service

import (
	"context"
	"fmt"
	"strings"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/pricing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailSender is the part of the SendGrid client the email service uses.
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	sender     MailSender
	fromEmail  string
	fromName   string
	adminEmail string
}

// NewEmailService sends through SendGrid. Without an API key messages are only logged.
func NewEmailService(apiKey, fromEmail, fromName, adminEmail string) EmailService {
	if apiKey == "" {
		logger.Warn("SendGrid API key not configured, emails will be logged only")
		return &logEmailService{}
	}
	return NewEmailServiceWithSender(sendgrid.NewSendClient(apiKey), fromEmail, fromName, adminEmail)
}

func NewEmailServiceWithSender(sender MailSender, fromEmail, fromName, adminEmail string) EmailService {
	return &emailService{
		sender:     sender,
		fromEmail:  fromEmail,
		fromName:   fromName,
		adminEmail: adminEmail,
	}
}

func (s *emailService) send(ctx context.Context, toName, toEmail, subject, body string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(toName, toEmail),
		body,
		"",
	)

	logger.ExternalServiceCall("sendgrid", "send", "subject", subject)
	response, err := s.sender.SendWithContext(ctx, message)
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil, "status", response.StatusCode)
	return nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	subject := fmt.Sprintf("Booking confirmed - %s", booking.Reference)
	body := fmt.Sprintf("Hello %s,\n\nThanks for your booking. Here are the details:\n\n%s\nWe'll see you then.\n",
		greetingName(customer), bookingSummary(booking))
	return s.send(ctx, customer.FullName, customer.Email, subject, body)
}

func (s *emailService) SendBookingReminder(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	subject := fmt.Sprintf("Reminder: your valet tomorrow - %s", booking.Reference)
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder of your booking tomorrow:\n\n%s\nPlease make sure the vehicle is accessible.\n",
		greetingName(customer), bookingSummary(booking))
	return s.send(ctx, customer.FullName, customer.Email, subject, body)
}

func (s *emailService) SendAdminBookingNotice(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	if s.adminEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("New booking %s on %s", booking.Reference, booking.ScheduledDate)
	body := fmt.Sprintf("Customer: %s <%s> %s\nGuest account: %t\n\n%s",
		customer.FullName, customer.Email, customer.Phone, customer.IsGuest, bookingSummary(booking))
	if booking.CustomerNotes != "" {
		body += "\nNotes: " + booking.CustomerNotes + "\n"
	}
	return s.send(ctx, "", s.adminEmail, subject, body)
}

func greetingName(c *domain.Customer) string {
	parts := strings.Fields(c.FullName)
	if len(parts) == 0 {
		return "there"
	}
	return parts[0]
}

func bookingSummary(b *domain.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reference: %s\n", b.Reference)
	fmt.Fprintf(&sb, "Date: %s\n", b.ScheduledDate)
	fmt.Fprintf(&sb, "Vehicle: %s %s\n", b.Vehicle.Make, b.Vehicle.Model)
	fmt.Fprintf(&sb, "Address: %s, %s, %s\n", b.Address.Line1, b.Address.City, b.Address.Postcode)
	for _, l := range b.Lines {
		fmt.Fprintf(&sb, "  %s: £%.2f\n", l.ServiceName, pricing.PenceToPounds(l.PricePence))
	}
	if b.TravelSurchargePence > 0 {
		fmt.Fprintf(&sb, "  Travel (%.1f miles): £%.2f\n", b.TravelDistanceMiles, pricing.PenceToPounds(b.TravelSurchargePence))
	}
	fmt.Fprintf(&sb, "Total: £%.2f\n", pricing.PenceToPounds(b.TotalPence))
	return sb.String()
}

// logEmailService stands in when no mail provider is configured.
type logEmailService struct{}

func (logEmailService) SendBookingConfirmation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	logger.Info("Email (not sent): booking confirmation", "to", customer.Email, "reference", booking.Reference)
	return nil
}

func (logEmailService) SendBookingReminder(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	logger.Info("Email (not sent): booking reminder", "to", customer.Email, "reference", booking.Reference)
	return nil
}

func (logEmailService) SendAdminBookingNotice(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	logger.Info("Email (not sent): admin booking notice", "reference", booking.Reference)
	return nil
}
