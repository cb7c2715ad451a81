package mailer

import (
	"go.uber.org/fx"

	"github.com/bob1127/eSIM-pwa-sub000/internal/config"
)

// Module provides the SMTP mailer via fx.
var Module = fx.Provide(newMailer)

type mailerParams struct {
	fx.In

	Config *config.Config
}

func newMailer(p mailerParams) Mailer {
	return NewSMTPMailer(
		p.Config.SMTPHost,
		p.Config.SMTPPort,
		p.Config.SMTPUsername,
		p.Config.SMTPPassword,
		p.Config.MailFrom,
	)
}
