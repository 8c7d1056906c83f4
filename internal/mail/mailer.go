package mail

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/parshjain/stockdesk/internal/config"
)

// Message is a transport-independent mail message.
type Message struct {
	To             []string
	Cc             []string
	Subject        string
	Text           string
	HTML           string
	AttachmentName string
	Attachment     []byte
	Headers        map[string]string
}

// Sender is the transport used by the order pipeline. Verify is the
// explicit health check performed once before a send.
type Sender interface {
	Verify() error
	Send(msg *Message) (string, error)
}

// SMTPMailer sends mail over authenticated SMTP.
type SMTPMailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer creates a mailer from transport configuration.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Verify dials the SMTP server and authenticates, then closes the
// connection. It confirms the transport is reachable without sending.
func (m *SMTPMailer) Verify() error {
	closer, err := m.dialer.Dial()
	if err != nil {
		return err
	}
	return closer.Close()
}

// Send delivers the message and returns the generated Message-ID.
func (m *SMTPMailer) Send(msg *Message) (string, error) {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		gm.SetHeader("Cc", msg.Cc...)
	}
	gm.SetHeader("Subject", msg.Subject)

	messageID := fmt.Sprintf("<%s@stockdesk>", uuid.New().String())
	gm.SetHeader("Message-ID", messageID)

	for key, value := range msg.Headers {
		gm.SetHeader(key, value)
	}

	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}
	if len(msg.Attachment) > 0 {
		attachment := msg.Attachment
		gm.Attach(msg.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return "", err
	}
	return messageID, nil
}
