package email

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers email over SMTP via gomail. A fresh connection is
// dialed per message; volumes here are low enough that pooling is not
// worth the bookkeeping.
type SMTPSender struct {
	config    Config
	templates *TemplateManager
	dialer    *gomail.Dialer
}

func NewSMTPSender(config Config) (Sender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password)

	return &SMTPSender{
		config:    config,
		templates: tm,
		dialer:    dialer,
	}, nil
}

func (s *SMTPSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendTemplate(to []string, subject, templateName string, data interface{}) error {
	htmlBody, err := s.templates.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		Body:     htmlToText(htmlBody),
		HTMLBody: htmlBody,
	})
}

func (s *SMTPSender) SendLoadAlert(to, userName string, data LoadAlertData) error {
	data.UserName = userName
	data.CompanyName = s.config.FromName
	subject := fmt.Sprintf("New load near you: %s to %s", data.PickupCity, data.DeliveryCity)
	return s.SendTemplate([]string{to}, subject, "load_alert", data)
}

func (s *SMTPSender) SendRequestReceived(to, userName string, data RequestReceivedData) error {
	data.UserName = userName
	data.CompanyName = s.config.FromName
	subject := fmt.Sprintf("New request on your load %s", data.LoadRoute)
	return s.SendTemplate([]string{to}, subject, "request_received", data)
}

func (s *SMTPSender) SendRequestDecision(to, userName string, data RequestDecisionData) error {
	data.UserName = userName
	data.CompanyName = s.config.FromName
	subject := fmt.Sprintf("Your request was %s", data.Decision)
	return s.SendTemplate([]string{to}, subject, "request_decision", data)
}

func (s *SMTPSender) SendWelcome(to, userName, role string) error {
	data := WelcomeData{
		TemplateData: TemplateData{
			UserName:    userName,
			CompanyName: s.config.FromName,
		},
		UserRole: role,
	}
	return s.SendTemplate([]string{to}, "Welcome to "+s.config.FromName, "welcome", data)
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// htmlToText produces a rough plain-text alternative from rendered HTML.
func htmlToText(html string) string {
	text := htmlTagRe.ReplaceAllString(html, "")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
