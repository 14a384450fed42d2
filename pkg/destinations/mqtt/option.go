// Package mqtt provides the message-broker destination. Unlike the
// fire-and-forget HTTP kinds it maintains one long-lived broker connection
// per configured destination instance, owned by the Manager and reconciled
// whenever configuration changes.
package mqtt

import (
	"sync"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/template"
)

// Option configures one broker destination instance.
type Option struct {
	destination.Options

	Server   string `json:"server" yaml:"server"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	UseTLS         bool `json:"use_tls" yaml:"use_tls"`
	SkipCertVerify bool `json:"skip_cert_verify,omitempty" yaml:"skip_cert_verify,omitempty"`

	// QoS is the publish quality of service, 0 through 2.
	QoS byte `json:"qos" yaml:"qos"`

	// TopicTemplate is the base64-encoded topic template source: the topic is
	// itself rendered per event.
	TopicTemplate string `json:"topic_template" yaml:"topic_template"`

	topicOnce sync.Once
	topic     *template.Template
	topicErr  error
}

// Validate checks the option for send-time viability.
func (o *Option) Validate() error {
	if o.Server == "" {
		return errors.New(errors.ErrInvalidConfig, "mqtt destination requires a server")
	}
	if o.Port <= 0 || o.Port > 65535 {
		return errors.New(errors.ErrInvalidConfig, "mqtt destination requires a valid port")
	}
	if o.QoS > 2 {
		return errors.New(errors.ErrInvalidConfig, "mqtt qos must be 0, 1 or 2")
	}
	if _, err := destination.DecodeTemplate(o.TopicTemplate); err != nil {
		return err
	}
	return o.Options.Validate()
}

// CompiledTopic decodes and compiles the topic template on first use and
// memoizes the result.
func (o *Option) CompiledTopic() (*template.Template, error) {
	o.topicOnce.Do(func() {
		source, err := destination.DecodeTemplate(o.TopicTemplate)
		if err != nil {
			o.topicErr = err
			return
		}
		o.topic, o.topicErr = template.Compile(source)
	})
	return o.topic, o.topicErr
}
