package mailservice

import (
	"errors"
	"time"

	"github.com/go-mail/mail/v2"
)

var errNoRecipient = errors.New("no notification recipient configured")

// NewMailer returns a Mail that sends through the given SMTP server.
func NewMailer(host string, port int, username, password, sender string, tp TemplateParser) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer: dialer,
		sender: sender,
		parser: tp,
	}
}

// send renders templateFile with data and delivers it to recipient.
func (m *Mail) send(recipient string, data any, templateFile string) error {
	if recipient == "" {
		return errNoRecipient
	}

	rendered, err := m.parser.Render(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", rendered.Subject)
	msg.SetBody("text/plain", rendered.Plain)
	msg.AddAlternative("text/html", rendered.HTML)

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dialer.DialAndSend(msg)
}
