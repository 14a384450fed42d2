// Package config defines the configuration object the host persists and
// supplies to mediahook: per destination kind, an ordered list of option
// records. Changes arrive as a whole-object replace, never as a delta.
package config

import (
	"encoding/json"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/destinations/chat"
	"github.com/kart-io/mediahook/pkg/destinations/generic"
	"github.com/kart-io/mediahook/pkg/destinations/genericform"
	"github.com/kart-io/mediahook/pkg/destinations/mqtt"
	"github.com/kart-io/mediahook/pkg/destinations/push"
	"github.com/kart-io/mediahook/pkg/destinations/smtp"
)

// Config holds every configured destination instance, grouped by kind.
type Config struct {
	Generic     []*generic.Option     `json:"generic,omitempty" yaml:"generic,omitempty"`
	GenericForm []*genericform.Option `json:"generic_form,omitempty" yaml:"generic_form,omitempty"`
	Chat        []*chat.Option        `json:"chat,omitempty" yaml:"chat,omitempty"`
	Push        []*push.Option        `json:"push,omitempty" yaml:"push,omitempty"`
	SMTP        []*smtp.Option        `json:"smtp,omitempty" yaml:"smtp,omitempty"`
	MQTT        []*mqtt.Option        `json:"mqtt,omitempty" yaml:"mqtt,omitempty"`
}

// Default returns an empty configuration.
func Default() *Config {
	return &Config{}
}

// Load parses the host's persisted JSON form and normalizes instance ids.
func Load(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Marshal produces the persisted JSON form.
func (c *Config) Marshal() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Normalize assigns instance ids to options that lack one. Persistent broker
// connections key off these ids, so they must be stable within one
// configuration generation.
func (c *Config) Normalize() {
	for _, opts := range c.byKind() {
		for _, o := range opts {
			o.Base().EnsureInstanceID()
		}
	}
}

// Validate checks every enabled option. Disabled options are tolerated
// half-configured; option errors surface per send, never as a dispatcher
// crash, so validation here is advisory.
func (c *Config) Validate() error {
	type validator interface{ Validate() error }
	for _, opts := range c.byKind() {
		for _, o := range opts {
			if !o.Base().Enabled {
				continue
			}
			if v, ok := o.(validator); ok {
				if err := v.Validate(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ByKind returns every option grouped under its destination kind name, the
// generic view the dispatcher fans out over.
func (c *Config) ByKind() map[string][]destination.Option {
	return c.byKind()
}

func (c *Config) byKind() map[string][]destination.Option {
	out := make(map[string][]destination.Option, 6)
	for _, o := range c.Generic {
		out["generic"] = append(out["generic"], o)
	}
	for _, o := range c.GenericForm {
		out["generic-form"] = append(out["generic-form"], o)
	}
	for _, o := range c.Chat {
		out["chat"] = append(out["chat"], o)
	}
	for _, o := range c.Push {
		out["push"] = append(out["push"], o)
	}
	for _, o := range c.SMTP {
		out["smtp"] = append(out["smtp"], o)
	}
	for _, o := range c.MQTT {
		out["mqtt"] = append(out["mqtt"], o)
	}
	return out
}
