package delivery

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPChannel delivers mail through a single SMTP account.
type SMTPChannel struct {
	host     string
	port     int
	address  string
	password string
}

func NewSMTPChannel(host string, port int, address, password string) *SMTPChannel {
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port <= 0 {
		port = 587
	}
	return &SMTPChannel{host: host, port: port, address: address, password: password}
}

func (c *SMTPChannel) Send(ctx context.Context, address, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.address)
	m.SetHeader("To", address)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(c.host, c.port, c.address, c.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("delivery: smtp send: %w", err)
	}
	return nil
}
