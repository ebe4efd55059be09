package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the stable failure classification surfaced to callers so the
// presentation layer can render a localized message for each case.
type ErrorCode string

const (
	// ErrCodeNotFound means the provider could not resolve the city name.
	ErrCodeNotFound ErrorCode = "notFound"
	// ErrCodeInvalidAPIKey means the provider rejected the credential,
	// including the case where no credential was configured at all.
	ErrCodeInvalidAPIKey ErrorCode = "invalidApiKey"
	// ErrCodeRateLimit means the provider is throttling us.
	ErrCodeRateLimit ErrorCode = "rateLimit"
	// ErrCodeGeneric covers every other transport or server failure.
	ErrCodeGeneric ErrorCode = "generic"
)

// ErrMissingAPIKey is returned by the upstream client when no credential is
// configured. Misconfiguration surfaces at first use, not at startup.
var ErrMissingAPIKey = errors.New("weather api key is not configured")

// UpstreamError is a typed failure from the weather provider. Status holds
// the upstream HTTP status when a response was received, 0 for network-level
// failures with no response.
type UpstreamError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("upstream %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("upstream %s: status %d: %s", e.Endpoint, e.Status, e.Message)
}

// Classify maps an upstream failure to its stable error code. Raw provider
// errors never leak past the aggregation service; every failure degrades to
// exactly one of the four codes.
func Classify(err error) ErrorCode {
	if errors.Is(err, ErrMissingAPIKey) {
		return ErrCodeInvalidAPIKey
	}

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return ErrCodeGeneric
	}

	switch ue.Status {
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusUnauthorized:
		return ErrCodeInvalidAPIKey
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	default:
		return ErrCodeGeneric
	}
}
