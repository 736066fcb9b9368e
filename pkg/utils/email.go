package utils

import "gopkg.in/gomail.v2"

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

func SendEmail(message *gomail.Message, config SMTPConfig) error {
	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	if err := d.DialAndSend(message); err != nil {
		return err
	}

	return nil
}
