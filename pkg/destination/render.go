package destination

import (
	"strings"

	"github.com/kart-io/mediahook/pkg/payload"
)

// RenderBody produces the message body for one send. With SendAllProperties
// set the template is ignored and the full payload is dumped as indented
// JSON; otherwise the option's compiled template renders the payload. The
// result is whitespace-trimmed when TrimWhitespace is set.
//
// Shared by every destination kind: kind-specific clients only add fields to
// the payload before calling it.
func RenderBody(o *Options, data *payload.Payload) (string, error) {
	var body string
	if o.SendAllProperties {
		dump, err := data.JSON()
		if err != nil {
			return "", err
		}
		body = dump
	} else {
		tpl, err := o.CompiledTemplate()
		if err != nil {
			return "", err
		}
		body, err = tpl.Render(data)
		if err != nil {
			return "", err
		}
	}

	if o.TrimWhitespace {
		body = strings.TrimSpace(body)
	}
	return body, nil
}
