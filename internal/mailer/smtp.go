package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"recruitment-api/internal/common/config"
	"recruitment-api/internal/common/logger"
)

// SMTPMailer delivers mail over SMTP, with implicit TLS (port 465 style) or
// STARTTLS depending on configuration.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger logger.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, log logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "smtp"}),
	}
}

// Verify dials the server, negotiates TLS, authenticates when credentials are
// configured and issues a NOOP. Nothing is sent.
func (m *SMTPMailer) Verify(ctx context.Context) error {
	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Noop(); err != nil {
		return fmt.Errorf("smtp noop failed: %w", err)
	}

	return client.Quit()
}

// Send delivers the message to its recipient.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	raw, err := BuildMIME(msg)
	if err != nil {
		return err
	}

	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(m.envelopeFrom(msg)); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", msg.To, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	m.logger.Info("message delivered", map[string]interface{}{
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": len(msg.Attachments),
	})

	return client.Quit()
}

// envelopeFrom picks the MAIL FROM address: the authenticated mailbox when
// credentials are configured, otherwise the bare address from the header.
func (m *SMTPMailer) envelopeFrom(msg *Message) string {
	if m.cfg.Username != "" {
		return m.cfg.Username
	}
	if addr, err := mail.ParseAddress(msg.From); err == nil {
		return addr.Address
	}
	return msg.From
}

// connect dials with a bounded timeout and returns an authenticated client.
func (m *SMTPMailer) connect(ctx context.Context) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	dialer := &net.Dialer{Timeout: m.cfg.Timeout}

	var conn net.Conn
	var err error

	if m.cfg.ImplicitTLS {
		tlsConfig := &tls.Config{ServerName: m.cfg.Host}
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	// Deadline covers the whole SMTP conversation so a stalled server cannot
	// hang the pipeline.
	if m.cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(m.cfg.Timeout))
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake failed: %w", err)
	}

	if !m.cfg.ImplicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsConfig := &tls.Config{ServerName: m.cfg.Host}
			if err := client.StartTLS(tlsConfig); err != nil {
				client.Close()
				return nil, fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	return client, nil
}
