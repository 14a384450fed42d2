// Package errors provides coded error types for mediahook.
package errors

// ErrorCode classifies a mediahook error.
type ErrorCode string

// Configuration error codes
const (
	// ErrInvalidConfig indicates a malformed destination option, detected at
	// send time. The single send is skipped; the dispatcher is unaffected.
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"

	// ErrMissingWebhookURI indicates a destination option without a target URI.
	ErrMissingWebhookURI ErrorCode = "MISSING_WEBHOOK_URI"

	// ErrInvalidTemplateEncoding indicates stored template text that could not
	// be decoded before compilation.
	ErrInvalidTemplateEncoding ErrorCode = "INVALID_TEMPLATE_ENCODING"
)

// Template error codes
const (
	// ErrTemplateCompile indicates a template that failed to compile. Sends
	// for that option keep failing until the configuration is corrected.
	ErrTemplateCompile ErrorCode = "TEMPLATE_COMPILE_FAILED"

	// ErrTemplateRender indicates a compiled template that failed at render
	// time, typically a helper invoked with the wrong argument count.
	ErrTemplateRender ErrorCode = "TEMPLATE_RENDER_FAILED"
)

// Delivery error codes
const (
	// ErrTransport indicates a network or protocol failure during delivery.
	// Caught at the destination client boundary and never propagated.
	ErrTransport ErrorCode = "TRANSPORT_FAILED"
)
