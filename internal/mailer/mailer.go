// Package mailer sends the account verification email over SMTP.
package mailer

import (
	"fmt"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

type Mailer struct {
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	BaseURL string // public origin used to build the verification link
}

func New(host, port, user, pass, from, baseURL string) *Mailer {
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	return &Mailer{Host: host, Port: p, User: user, Pass: pass, From: from, BaseURL: baseURL}
}

func (m *Mailer) SendVerification(to, token string) error {
	link := fmt.Sprintf("%s/users/verify/%s", m.BaseURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify your IronCart account")
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>Welcome to IronCart!</p><p>Please <a href="%s">verify your email address</a> to activate your account.</p><p>The link expires in 24 hours.</p>`,
		link,
	))

	d := gomail.NewDialer(m.Host, m.Port, m.User, m.Pass)
	return d.DialAndSend(msg)
}
