package infrastructure

import (
	"context"

	"bookhub/internal/pkg/bootstrap"
	"bookhub/internal/service/notification/domain"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
)

// SMTPMailer 使用 go-mail 通过 SMTP 发送邮件，每封邮件单独建连。
type SMTPMailer struct {
	cfg    bootstrap.MailConfig
	client *mail.Client
}

func NewSMTPMailer(cfg bootstrap.MailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smtp client")
	}
	return &SMTPMailer{cfg: cfg, client: client}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, e *domain.Email) error {
	msg, err := m.build(e)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to send mail to %s", e.To)
	}
	return nil
}

func (m *SMTPMailer) build(e *domain.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return nil, errors.Wrap(err, "invalid from address")
	}
	if err := msg.To(e.To); err != nil {
		return nil, errors.Wrapf(err, "invalid recipient %q", e.To)
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextHTML, e.HTML)
	return msg, nil
}
