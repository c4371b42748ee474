package app

import "github.com/genesislab/siteadmin/internal/mailer"

// MailSenders returns the sender selected by MAIL_DELIVERY and a sender that
// always delivers inline over SMTP. Flows that undo work when delivery fails,
// such as staff invitations, use the inline one.
func MailSenders(cfg *Config, queue mailer.Enqueuer) (selected, inline mailer.Sender) {
	smtp := mailer.NewSMTPSender(SMTPConfig(cfg))
	if cfg.MailDelivery == "smtp" || queue == nil {
		return smtp, smtp
	}
	return mailer.NewQueueSender(queue), smtp
}
