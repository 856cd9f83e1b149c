package provider

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind классифицирует ошибки провайдерского API.
type ErrorKind string

const (
	KindBadRequest      ErrorKind = "bad_request"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindPaymentRequired ErrorKind = "payment_required"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindPayloadTooLarge ErrorKind = "payload_too_large"
	KindValidation      ErrorKind = "validation"
	KindRateLimited     ErrorKind = "rate_limited"
	KindServer          ErrorKind = "server"
	KindNetwork         ErrorKind = "network"
	KindTimeout         ErrorKind = "timeout"
)

// APIError — типизированная ошибка провайдерского API. Kind определяет
// retry-политику и HTTP-статус, который увидит вызывающая сторона.
type APIError struct {
	Status  int
	Kind    ErrorKind
	Message string
	// Fields содержит пофидовые сообщения из ответа 422.
	Fields map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("provider %s (%d): %s: %s", e.Kind, e.Status, e.Message, e.fieldSummary())
	}
	if e.Status > 0 {
		return fmt.Sprintf("provider %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
}

// Retryable сообщает, имеет ли смысл повторять запрос. Повторяем только 5xx
// и таймауты; сетевые ошибки уровня DNS/connect не исчезнут за пару секунд.
func (e *APIError) Retryable() bool {
	return e.Kind == KindServer || e.Kind == KindTimeout
}

func (e *APIError) fieldSummary() string {
	parts := make([]string, 0, len(e.Fields))
	for field, messages := range e.Fields {
		parts = append(parts, field+": "+strings.Join(messages, ", "))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// errorResponse — wire-формат тела ошибки провайдера.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Code    int                 `json:"code,omitempty"`
}

// mapStatusError переводит HTTP-статус и тело ошибки в APIError.
// Тексты повторяют таксономию документации провайдера.
func mapStatusError(status int, body errorResponse) *APIError {
	message := body.Message

	switch status {
	case 400:
		if message == "" {
			message = "the request can't be parsed as valid JSON"
		}
		return &APIError{Status: status, Kind: KindBadRequest, Message: "bad request: " + message}
	case 401:
		return &APIError{Status: status, Kind: KindUnauthorized, Message: "unauthorized: missing or invalid API credentials"}
	case 402:
		return &APIError{Status: status, Kind: KindPaymentRequired, Message: "payment required: API account quota exceeded"}
	case 403:
		return &APIError{Status: status, Kind: KindForbidden, Message: "forbidden: credentials have no access to this resource"}
	case 404:
		return &APIError{Status: status, Kind: KindNotFound, Message: "not found: route or resource does not exist"}
	case 413:
		return &APIError{Status: status, Kind: KindPayloadTooLarge, Message: "request entity too large"}
	case 422:
		if message == "" {
			message = "invalid request"
		}
		return &APIError{Status: status, Kind: KindValidation, Message: "validation error: " + message, Fields: body.Errors}
	case 429:
		return &APIError{Status: status, Kind: KindRateLimited, Message: "too many requests: provider rate limit hit"}
	default:
		if message == "" {
			message = "unexpected provider error"
		}
		if status >= 500 {
			return &APIError{Status: status, Kind: KindServer, Message: fmt.Sprintf("server error (%d): %s, safe to retry", status, message)}
		}
		return &APIError{Status: status, Kind: KindBadRequest, Message: message}
	}
}
