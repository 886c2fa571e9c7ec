package email

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Your credits are ready</h2>
  <p>We added <strong>{{.Credits}}</strong> credits to your GenScoutAI account.</p>
  <p>Current balance: <strong>{{.Balance}}</strong> credits.</p>
  <p>Happy scouting!</p>
  <p style="color: #888; font-size: 12px;">&copy; {{.Year}} GenScoutAI</p>
</body>
</html>`))

type receiptData struct {
	Credits int64
	Balance int64
	Year    int
}

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(apiKey, from, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
		logger:   logger.Named("email"),
	}
}

// SendCreditsReceipt satın alma sonrası kredi bilgisini gönderir
func (s *EmailService) SendCreditsReceipt(email string, credits, balance int64) error {
	html, err := RenderReceipt(credits, balance)
	if err != nil {
		s.logger.Error("receipt template failed", zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{email},
		Subject: "Your GenScoutAI credits have been added",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Warn("failed to send receipt", zap.String("to", MaskEmail(email)), zap.Error(err))
		return err
	}

	s.logger.Info("receipt sent", zap.String("id", resp.Id))
	return nil
}

func RenderReceipt(credits, balance int64) (string, error) {
	var body bytes.Buffer
	err := receiptTemplate.Execute(&body, receiptData{
		Credits: credits,
		Balance: balance,
		Year:    time.Now().Year(),
	})
	if err != nil {
		return "", err
	}
	return body.String(), nil
}

// MaskEmail loglar için adresin sadece ilk harfini ve domain'ini bırakır
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
