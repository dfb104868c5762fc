package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"go-foodorder/models"
)

// EmailService sends transactional mail through SendGrid.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance.
func NewEmailService(apiKey, sender string) *EmailService {
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, plainContent, htmlContent string) error {
	from := mail.NewEmail("Food Order", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail provider rejected message: status %d", resp.StatusCode)
	}
	return nil
}

// SendOTPEmail delivers a login passcode.
func (es *EmailService) SendOTPEmail(toEmail, code string) error {
	subject := "Your Login Code"
	plain := fmt.Sprintf("Your one-time passcode is %s. It expires in 5 minutes.", code)
	html := fmt.Sprintf(
		"<strong>Your one-time passcode is %s.</strong><br>It expires in 5 minutes. If you did not request this code, you can ignore this email.",
		code,
	)
	return es.SendEmail(toEmail, subject, plain, html)
}

// SendOrderConfirmationEmail sends an order confirmation email to the user.
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation"
	plain := fmt.Sprintf(
		"Thank you for your order (ID: %s). Total: %.2f. Payment method: %s.",
		order.ID.Hex(), order.TotalAmount, order.PaymentMethod,
	)
	html := fmt.Sprintf(
		"<strong>Thank you for your order!</strong><br>Order ID: %s<br>Total Amount: <strong>%.2f</strong><br>Payment Method: <strong>%s</strong>",
		order.ID.Hex(), order.TotalAmount, order.PaymentMethod,
	)
	return es.SendEmail(toEmail, subject, plain, html)
}
