package utils

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/techjourney/folio/config"
)

// ErrMailDisabled is returned when no SMTP server is configured.
var ErrMailDisabled = errors.New("smtp not configured")

// Mail is a plain text message.
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// SendMail delivers a plain text email using SMTP settings from config.
func SendMail(m Mail) error {
	cfg := config.Get()
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return ErrMailDisabled
	}
	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	fromName := cfg.SMTPFromName
	if fromName == "" {
		fromName = cfg.SiteName
	}
	msg := buildMessage(fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", fromName), cfg.SMTPFrom), m)

	if !cfg.SMTPTLS {
		return smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{m.To}, msg)
	}

	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))
	c, err := smtp.NewClient(conn, cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: cfg.SMTPHost}); err != nil {
			return err
		}
	}
	if cfg.SMTPUsername != "" {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(cfg.SMTPFrom); err != nil {
		return err
	}
	if err := c.Rcpt(m.To); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from string, m Mail) []byte {
	var b strings.Builder
	header := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%s: %s\r\n", k, v)
		}
	}
	header("From", from)
	header("To", m.To)
	header("Reply-To", m.ReplyTo)
	header("Subject", mime.QEncoding.Encode("UTF-8", m.Subject))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}
