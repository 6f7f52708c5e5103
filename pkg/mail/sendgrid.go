package mail

import (
	"fmt"

	"github.com/kpatel/shopcart-backend/pkg/logger"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers a plain-text email to a single recipient.
type Sender interface {
	Send(to, subject, body string) error
}

// SendGridClient implements Sender over the SendGrid v3 API.
type SendGridClient struct {
	apiKey      string
	fromAddress string
	fromName    string
}

func NewSendGridClient(apiKey, fromAddress, fromName string) *SendGridClient {
	return &SendGridClient{
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

func (c *SendGridClient) Send(to, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	fromEmail := mail.NewEmail(c.fromName, c.fromAddress)
	toEmail := mail.NewEmail("", to)
	htmlContent := fmt.Sprintf("<pre>%s</pre>", body)

	message := mail.NewSingleEmail(fromEmail, subject, toEmail, body, htmlContent)

	response, err := sendgrid.NewSendClient(c.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}

	if response.StatusCode >= 400 {
		logger.Error("SendGrid rejected the message", nil, map[string]interface{}{
			"status": response.StatusCode,
			"body":   response.Body,
		})
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
		"status":  response.StatusCode,
	})
	return nil
}
