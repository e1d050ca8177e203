package services

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"viemind/config"
	"viemind/i18n"
)

type EmailService struct {
	host       string
	port       string
	username   string
	password   string
	clientURL  string
	translator *i18n.Translator
}

// NewEmailService returns nil when SMTP is not configured
func NewEmailService(cfg *config.Config, translator *i18n.Translator) *EmailService {
	if !cfg.MailEnabled() {
		return nil
	}
	return &EmailService{
		host:       cfg.MailHost,
		port:       cfg.MailPort,
		username:   cfg.MailUsername,
		password:   cfg.MailPassword,
		clientURL:  cfg.ClientURL,
		translator: translator,
	}
}

// SendWelcomeEmail sends the localized account confirmation message
func (s *EmailService) SendWelcomeEmail(to, name, locale string) error {
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	return smtp.SendMail(s.host+":"+s.port, auth, s.username, []string{to}, s.welcomeMessage(to, name, locale))
}

func (s *EmailService) welcomeMessage(to, name, locale string) []byte {
	subject := s.translator.T(locale, "email.welcome.subject", nil)
	body := s.translator.T(locale, "email.welcome.body", map[string]any{
		"Name": name,
		"URL":  s.clientURL + "/competitions",
	})

	htmlTemplate := strings.TrimSpace(`
To: %s
MIME-version: 1.0
Content-Type: text/html; charset="UTF-8"
Subject: %s

<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body style="background-color: #f9fafb; margin: 0; padding: 0; font-family: Arial, sans-serif;">
    <table width="100%%" cellpadding="0" cellspacing="0" style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <tr>
            <td style="background: linear-gradient(to right, #1e3a8a, #2563eb); padding: 40px 20px; text-align: center; border-radius: 12px;">
                <h1 style="color: #ffffff; margin-bottom: 30px; font-size: 24px;">%s</h1>
                <p style="color: #e5e7eb; margin-bottom: 30px; font-size: 16px;">%s</p>
                <a href="%s" style="display: inline-block; background-color: #f59e0b; color: #ffffff; text-decoration: none; padding: 12px 30px; border-radius: 25px; font-weight: bold;">VieMind</a>
            </td>
        </tr>
        <tr>
            <td style="text-align: center; padding-top: 20px;">
                <p style="color: #6b7280; font-size: 14px;">© 2025 VieMind</p>
            </td>
        </tr>
    </table>
</body>
</html>
`)

	return []byte(fmt.Sprintf(htmlTemplate,
		to,
		subject,
		html.EscapeString(subject),
		html.EscapeString(subject),
		html.EscapeString(body),
		s.clientURL,
	))
}

// SendSupportEmail forwards a contact form request to the support inbox
func (s *EmailService) SendSupportEmail(name, email, issueType, subject, message string) error {
	body := fmt.Sprintf(strings.TrimSpace(`
To: %s
Reply-To: %s
MIME-version: 1.0
Content-Type: text/html; charset="UTF-8"
Subject: [Support][%s] %s

<html>
<body style="font-family: Arial, sans-serif;">
    <h2>%s</h2>
    <p><strong>From:</strong> %s &lt;%s&gt;</p>
    <p><strong>Type:</strong> %s</p>
    <p style="white-space: pre-wrap;">%s</p>
</body>
</html>
`),
		s.username,
		headerValue(email),
		headerValue(issueType),
		headerValue(subject),
		html.EscapeString(subject),
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(issueType),
		html.EscapeString(message),
	)

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	return smtp.SendMail(s.host+":"+s.port, auth, s.username, []string{s.username}, []byte(body))
}

// headerValue keeps user input on a single header line
func headerValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
