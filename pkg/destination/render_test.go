package destination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/mediahook/pkg/payload"
)

func TestEncodeDecodeTemplate_RoundTrip(t *testing.T) {
	sources := []string{
		"",
		"{{Name}} added",
		`{{#if_equals ItemType "Movie"}}🎬 {{Name}}{{/if_equals}}`,
		"multi\nline\ttemplate with \"quotes\" & <markup>",
	}
	for _, source := range sources {
		decoded, err := DecodeTemplate(EncodeTemplate(source))
		require.NoError(t, err)
		assert.Equal(t, source, decoded)
	}
}

func TestDecodeTemplate_Invalid(t *testing.T) {
	_, err := DecodeTemplate("not base64!!!")
	require.Error(t, err)
}

func TestRenderBody_Template(t *testing.T) {
	o := &Options{Template: EncodeTemplate("{{Name}} added")}
	p := payload.New()
	p.Set("Name", "Inception")

	body, err := RenderBody(o, p)
	require.NoError(t, err)
	assert.Equal(t, "Inception added", body)
}

func TestRenderBody_CompiledOnce(t *testing.T) {
	o := &Options{Template: EncodeTemplate("{{Name}}")}
	first, err := o.CompiledTemplate()
	require.NoError(t, err)
	second, err := o.CompiledTemplate()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRenderBody_SendAllProperties(t *testing.T) {
	o := &Options{
		SendAllProperties: true,
		Template:          EncodeTemplate("{{Name}} added"),
	}
	p := payload.New()
	p.Set("Name", "Inception")
	p.Set("Year", 2010)

	body, err := RenderBody(o, p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, "Inception", decoded["Name"])
	assert.Equal(t, float64(2010), decoded["Year"])
}

func TestRenderBody_TrimWhitespace(t *testing.T) {
	o := &Options{
		Template:       EncodeTemplate("  {{Name}}  \n"),
		TrimWhitespace: true,
	}
	p := payload.New()
	p.Set("Name", "Inception")

	body, err := RenderBody(o, p)
	require.NoError(t, err)
	assert.Equal(t, "Inception", body)
}

func TestRenderBody_CompileErrorSticks(t *testing.T) {
	o := &Options{Template: EncodeTemplate("{{#if_exist Name}}unclosed")}

	_, err := RenderBody(o, payload.New())
	require.Error(t, err)

	// The cached compile failure persists for the option instance.
	_, err = RenderBody(o, payload.New())
	require.Error(t, err)
}
