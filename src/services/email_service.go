package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/username/dealdesk/backend/src/config"
	"github.com/username/dealdesk/backend/src/logger"
	"github.com/username/dealdesk/backend/src/models"
)

func NewEmailService() EmailService {
	if config.Cfg == nil {
		slog.Error("Configuration (config.Cfg) is nil. Email service will default to mock.")
		return &MockEmailService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
		}
	case "smtp":
		if config.Cfg.SMTPServer == "" || config.Cfg.SMTPUser == "" || config.Cfg.SMTPPassword == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("SMTP configuration incomplete. Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		return &SMTPEmailService{
			SMTPServer:   config.Cfg.SMTPServer,
			SMTPPort:     config.Cfg.SMTPPort,
			SMTPUser:     config.Cfg.SMTPUser,
			SMTPPassword: config.Cfg.SMTPPassword,
			SenderEmail:  config.Cfg.SenderEmail,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

func statementSubject(transactionName string) string {
	return fmt.Sprintf("Your commission for %s", transactionName)
}

func statementBody(agentName, transactionName string, role models.AgentRole, amount float64) string {
	return fmt.Sprintf(`Hi %s,

The transaction "%s" has completed. Your %s-side commission share is %.2f.

The amount has been credited to your vesting total.

Thanks,
The DealDesk Team`, agentName, transactionName, role, amount)
}

type SMTPEmailService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

func (s *SMTPEmailService) SendCommissionStatement(toEmail, agentName, transactionName string, role models.AgentRole, amount float64) error {
	from := s.SenderEmail
	to := []string{toEmail}
	subject := statementSubject(transactionName)
	body := statementBody(agentName, transactionName, role, amount)

	header := make(map[string]string)
	header["From"] = from
	header["To"] = toEmail
	header["Subject"] = subject
	header["MIME-version"] = "1.0"
	header["Content-Type"] = "text/plain; charset=\"UTF-8\""
	message := ""
	for k, v := range header {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body
	auth := smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
	if err := smtp.SendMail(addr, auth, from, to, []byte(message)); err != nil {
		logger.L.Error("Failed to send commission statement via SMTP", "error", err, "to", toEmail)
		return fmt.Errorf("failed to send commission statement via SMTP: %w", err)
	}
	logger.L.Info("Commission statement sent successfully via SMTP", "to", toEmail)
	return nil
}

type MailgunEmailService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunEmailService) SendCommissionStatement(toEmail, agentName, transactionName string, role models.AgentRole, amount float64) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	subject := statementSubject(transactionName)
	plainTextBody := statementBody(agentName, transactionName, role, amount)

	htmlBody := fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6;">
			<p>Hi %s,</p>
			<p>The transaction <strong>%s</strong> has completed.</p>
			<p>Your %s-side commission share is <strong>%.2f</strong>. The amount has been credited to your vesting total.</p>
			<p>Thanks,<br>The DealDesk Team</p>
		</body>
	</html>`, agentName, transactionName, role, amount)

	message := s.mg.NewMessage(from, subject, plainTextBody, toEmail)
	message.SetHtml(htmlBody)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()
	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send commission statement via Mailgun", "error", err, "to", toEmail, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Commission statement sent successfully via Mailgun", "to", toEmail, "id", id)
	return nil
}

// MockEmailService logs instead of sending. Used whenever no provider is
// configured, which keeps local development quiet.
type MockEmailService struct{}

func (s *MockEmailService) SendCommissionStatement(toEmail, agentName, transactionName string, role models.AgentRole, amount float64) error {
	if logger.L != nil {
		logger.L.Info("MOCK: commission statement email",
			"to", toEmail, "agent", agentName, "transaction", transactionName, "role", role, "amount", amount)
	}
	return nil
}
