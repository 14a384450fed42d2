// Package smtp provides the email destination: subject and body are each
// rendered from their own template and sent through the configured SMTP
// server.
package smtp

import (
	"context"
	"sync"

	"github.com/wneessen/go-mail"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/logger"
	"github.com/kart-io/mediahook/pkg/template"
)

// Option configures one email destination instance.
type Option struct {
	destination.Options

	Server   string `json:"server" yaml:"server"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// UseSSL selects implicit SSL/TLS (port 465); otherwise STARTTLS is
	// required.
	UseSSL bool `json:"use_ssl" yaml:"use_ssl"`

	From       string   `json:"from" yaml:"from"`
	Recipients []string `json:"recipients" yaml:"recipients"`

	// SubjectTemplate is the base64-encoded subject template source.
	SubjectTemplate string `json:"subject_template,omitempty" yaml:"subject_template,omitempty"`
	// IsHTML sends the body as text/html instead of text/plain.
	IsHTML bool `json:"is_html" yaml:"is_html"`

	subjectOnce sync.Once
	subject     *template.Template
	subjectErr  error
}

// Validate checks the option for send-time viability.
func (o *Option) Validate() error {
	if o.Server == "" {
		return errors.New(errors.ErrInvalidConfig, "smtp destination requires a server")
	}
	if o.Port <= 0 || o.Port > 65535 {
		return errors.New(errors.ErrInvalidConfig, "smtp destination requires a valid port")
	}
	if o.From == "" {
		return errors.New(errors.ErrInvalidConfig, "smtp destination requires a from address")
	}
	if len(o.Recipients) == 0 {
		return errors.New(errors.ErrInvalidConfig, "smtp destination requires at least one recipient")
	}
	if _, err := destination.DecodeTemplate(o.SubjectTemplate); err != nil {
		return err
	}
	return o.Options.Validate()
}

// CompiledSubject decodes and compiles the subject template on first use and
// memoizes the result, mirroring the body template cache.
func (o *Option) CompiledSubject() (*template.Template, error) {
	o.subjectOnce.Do(func() {
		source, err := destination.DecodeTemplate(o.SubjectTemplate)
		if err != nil {
			o.subjectErr = err
			return
		}
		o.subject, o.subjectErr = template.Compile(source)
	})
	return o.subject, o.subjectErr
}

// Client delivers to email destinations.
type Client struct {
	log logger.Logger
}

// NewClient creates an email destination client.
func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard
	}
	return &Client{log: log}
}

// Kind returns the destination kind name.
func (c *Client) Kind() string { return "smtp" }

// Send renders subject and body and delivers the message over SMTP.
func (c *Client) Send(ctx context.Context, opt destination.Option, ev destination.Event) destination.Outcome {
	o, ok := opt.(*Option)
	if !ok {
		return destination.Failed(errors.New(errors.ErrInvalidConfig, "option is not an smtp destination option"))
	}
	if err := o.Validate(); err != nil {
		return destination.Failed(err)
	}

	return destination.Run(ctx, c.Kind(), opt, ev, c.log, func(ctx context.Context, body string) error {
		subjectTpl, err := o.CompiledSubject()
		if err != nil {
			return err
		}
		subject, err := subjectTpl.Render(ev.Data)
		if err != nil {
			return err
		}
		return c.deliver(ctx, o, subject, body)
	})
}

func (c *Client) deliver(ctx context.Context, o *Option, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(o.From); err != nil {
		return errors.New(errors.ErrInvalidConfig, "invalid from address").WithCause(err)
	}
	if err := msg.To(o.Recipients...); err != nil {
		return errors.New(errors.ErrInvalidConfig, "invalid recipient address").WithCause(err)
	}
	msg.Subject(subject)
	if o.IsHTML {
		msg.SetBodyString(mail.TypeTextHTML, body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, body)
	}

	clientOpts := []mail.Option{mail.WithPort(o.Port)}
	if o.UseSSL {
		clientOpts = append(clientOpts, mail.WithSSLPort(true))
	} else {
		clientOpts = append(clientOpts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if o.Username != "" && o.Password != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(o.Username),
			mail.WithPassword(o.Password),
		)
	}

	client, err := mail.NewClient(o.Server, clientOpts...)
	if err != nil {
		return errors.New(errors.ErrTransport, "failed to create mail client").WithCause(err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.New(errors.ErrTransport, "failed to send email").WithCause(err)
	}
	c.log.Debug("email sent", "server", o.Server, "recipients", len(o.Recipients))
	return nil
}
