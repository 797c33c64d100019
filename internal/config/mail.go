package config

import (
	"github.com/knadh/koanf/v2"

	"github.com/studychannel/studychannel/internal/util"
)

func NewMailConfig(config *koanf.Koanf) util.MailConfig {
	return util.MailConfig{
		SMTPHost:       config.String("SMTP_HOST"),
		SMTPPort:       config.Int("SMTP_PORT"),
		SenderName:     config.String("SENDER_NAME"),
		SenderEmail:    config.String("SENDER_EMAIL"),
		SenderPassword: config.String("SENDER_PASSWORD"),
	}
}
