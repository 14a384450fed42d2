package destination

import (
	"encoding/base64"

	"github.com/kart-io/mediahook/pkg/errors"
)

// EncodeTemplate encodes raw template source for storage. The host's
// persistence format cannot carry arbitrary template text safely, so
// templates are stored base64-encoded and decoded before compilation.
func EncodeTemplate(source string) string {
	return base64.StdEncoding.EncodeToString([]byte(source))
}

// DecodeTemplate reverses EncodeTemplate. An empty stored value decodes to
// the empty template.
func DecodeTemplate(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.New(errors.ErrInvalidTemplateEncoding, "stored template is not valid base64").WithCause(err)
	}
	return string(raw), nil
}
