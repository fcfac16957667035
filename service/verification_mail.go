// Package service holds outbound integrations that aren't HTTP handlers
package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// SendVerificationMail delivers the one-time code to a freshly
// registered address. The account record is persisted before this runs,
// so a delivery failure leaves a reusable pending slot behind.
// Declared as a variable so tests can stub out the SMTP dial.
var SendVerificationMail = func(email, username, code string) error {
	from := viper.GetString("mail.sender")
	if email == from {
		return errors.New("invalid email address")
	}

	m := gomail.NewMessage()

	m.SetHeader("From", from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Verification Code")
	m.SetBody("text/html", fmt.Sprintf(
		"Hello %s,<br><br>Your verification code is: <b>%s</b><br><br>This code will expire in 1 hour.",
		username, code))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	if err := d.DialAndSend(m); err != nil {
		return err
	}

	return nil
}
