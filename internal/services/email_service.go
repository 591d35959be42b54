package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// EmailService sends transactional email through Resend. All sends are best
// effort: failures are logged and never block the calling flow.
type EmailService struct {
	client    *resend.Client
	logger    *zap.Logger
	fromEmail string
	fromName  string
}

// NewEmailService creates an email service for the given sender identity.
func NewEmailService(apiKey, fromEmail, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:    resend.NewClient(apiKey),
		logger:    logger,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

var accountOpenedTemplate = template.Must(template.New("account_opened").Parse(`
<h2>Welcome to Jaspire, {{.FirstName}}!</h2>
<p>Your investment account has been submitted.</p>
<p>Account number: <strong>{{.AccountNumber}}</strong></p>
{{if .IsMock}}<p><em>This is a demo account. No real brokerage account was opened.</em></p>{{end}}
<p>Your cashback will start auto-investing once your account is approved.</p>
`))

// AccountOpenedData fills the account-opened email template.
type AccountOpenedData struct {
	FirstName     string
	AccountNumber string
	IsMock        bool
}

// SendAccountOpened notifies a user that their investment account was
// submitted.
func (s *EmailService) SendAccountOpened(toEmail string, data AccountOpenedData) {
	var body bytes.Buffer
	if err := accountOpenedTemplate.Execute(&body, data); err != nil {
		s.logger.Error("Failed to render account-opened email", zap.Error(err))
		return
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail),
		To:      []string{toEmail},
		Subject: "Your Jaspire investment account is on its way",
		Html:    body.String(),
		Headers: map[string]string{
			"X-Entity-Ref-ID": uuid.New().String(),
		},
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		s.logger.Error("Failed to send account-opened email",
			zap.String("to", toEmail),
			zap.Error(err))
		return
	}

	s.logger.Info("Sent account-opened email", zap.String("to", toEmail))
}
