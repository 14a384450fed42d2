// Package template compiles the logic-enabled message templates destination
// options carry and renders them against event payloads. Templates use
// handlebars syntax with three registered helpers:
//
//	{{#if_equals a b}}...{{else}}...{{/if_equals}}  case-insensitive equality
//	{{#if_exist a}}...{{else}}...{{/if_exist}}      non-empty test
//	{{link url="https://..." text}}                 literal anchor tag
package template

import (
	"strings"

	"github.com/aymerick/raymond"

	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/payload"
)

// Template is a compiled, reusable render function over a payload. A compiled
// template is immutable and safe for concurrent Render calls.
type Template struct {
	tpl *raymond.Template
}

// Compile parses source and registers the mediahook helpers. Unbalanced or
// invalid block syntax surfaces here as a TEMPLATE_COMPILE_FAILED error.
func Compile(source string) (*Template, error) {
	tpl, err := raymond.Parse(source)
	if err != nil {
		return nil, errors.New(errors.ErrTemplateCompile, "template failed to compile").WithCause(err)
	}
	tpl.RegisterHelpers(map[string]interface{}{
		"if_equals": ifEqualsHelper,
		"if_exist":  ifExistHelper,
		"link":      linkHelper,
	})
	return &Template{tpl: tpl}, nil
}

// Render executes the template against the payload. Helper misuse, such as a
// wrong argument count, surfaces as a TEMPLATE_RENDER_FAILED error.
func (t *Template) Render(p *payload.Payload) (string, error) {
	out, err := t.tpl.Exec(p.Map())
	if err != nil {
		return "", errors.New(errors.ErrTemplateRender, "template failed to render").WithCause(err)
	}
	return out, nil
}

// ifEqualsHelper renders the then branch when the two arguments compare equal
// case-insensitively by string form. Missing values compare as empty strings.
func ifEqualsHelper(a, b interface{}, options *raymond.Options) string {
	if strings.EqualFold(raymond.Str(a), raymond.Str(b)) {
		return options.Fn()
	}
	return options.Inverse()
}

// ifExistHelper renders the then branch when the argument's string form is
// non-empty.
func ifExistHelper(v interface{}, options *raymond.Options) string {
	if raymond.Str(v) != "" {
		return options.Fn()
	}
	return options.Inverse()
}

// linkHelper emits a literal anchor tag from the named url parameter and the
// contextual text value. The only helper that bypasses auto-escaping, since
// it is constructing markup intentionally.
func linkHelper(options *raymond.Options) raymond.SafeString {
	url := options.HashStr("url")
	text := raymond.Str(options.Value("text"))
	return raymond.SafeString(`<a href="` + url + `">` + text + `</a>`)
}
