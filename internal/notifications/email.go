package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"bookmyseat/internal/shared/config"
	"bookmyseat/pkg/logger"
)

// EmailService sends rendered confirmation emails.
type EmailService interface {
	SendConfirmation(ctx context.Context, conf BookingConfirmation) error
}

// SMTPConfig contains SMTP connection settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// NewSMTPConfig builds an SMTPConfig from the application email config.
func NewSMTPConfig(email config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      email.SMTPHost,
		Port:      email.SMTPPort,
		Username:  email.SMTPUsername,
		Password:  email.SMTPPassword,
		FromEmail: email.FromEmail,
		FromName:  email.FromName,
		UseTLS:    true,
	}
}

// SMTPEmailService sends confirmation emails over SMTP with STARTTLS.
type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(cfg *SMTPConfig) (*SMTPEmailService, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &SMTPEmailService{
		config: cfg,
		log:    logger.GetDefault(),
	}, nil
}

func (s *SMTPEmailService) SendConfirmation(ctx context.Context, conf BookingConfirmation) error {
	message := s.buildMessage(conf.RecipientEmail, conf.Subject(), conf.HTMLBody(), conf.TextBody())

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, conf.RecipientEmail, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{conf.RecipientEmail}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "confirmation email sent",
		"booking_id", conf.BookingID.String(),
		"recipient", conf.RecipientEmail,
	)
	return nil
}

// sendWithSTARTTLS upgrades the connection before authenticating.
func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.config.Host,
	}
	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

// buildMessage assembles a multipart/alternative email.
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Date":         time.Now().Format(time.RFC1123Z),
		"Content-Type": fmt.Sprintf("multipart/alternative; boundary=%s", boundary),
	}

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n"

	if textBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/plain; charset=UTF-8\r\n\r\n"
		message += textBody + "\r\n"
	}
	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/html; charset=UTF-8\r\n\r\n"
		message += htmlBody + "\r\n"
	}
	message += fmt.Sprintf("--%s--\r\n", boundary)

	return []byte(message)
}

// MockEmailService records sends instead of dialing SMTP, for tests
// and local runs.
type MockEmailService struct {
	log  *logger.Logger
	Sent []BookingConfirmation
	Err  error
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{log: logger.GetDefault()}
}

func (s *MockEmailService) SendConfirmation(ctx context.Context, conf BookingConfirmation) error {
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, conf)
	s.log.InfoContext(ctx, "mock email",
		"recipient", conf.RecipientEmail,
		"subject", conf.Subject(),
	)
	return nil
}
