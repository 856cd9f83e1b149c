package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/provider"
)

// errorBody — единый формат ошибок API. Debug заполняется только в
// development-окружении: stack trace и внутренние детали наружу не утекают.
type errorBody struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details string      `json:"details,omitempty"`
	Debug   interface{} `json:"debug,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message, details string) {
	respondJSON(w, status, errorBody{Error: message, Details: details})
}

// mapDomainStatus переводит доменные и провайдерские ошибки в HTTP-статусы
// согласно таксономии: валидация — 400, rate limit — 429, сеть — 502,
// таймаут — 504, 4xx провайдера — как есть.
func mapDomainStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrAddressRequired),
		errors.Is(err, domain.ErrAddressFieldRequired),
		errors.Is(err, domain.ErrQuantityInvalid),
		errors.Is(err, domain.ErrProductIDRequired),
		errors.Is(err, domain.ErrVariantIDRequired),
		errors.Is(err, domain.ErrLineItemsRequired),
		errors.Is(err, domain.ErrInvalidOrderData),
		errors.Is(err, domain.ErrNoValidVariant),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrProductNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	}

	var rateErr *provider.RateLimitError
	if errors.As(err, &rateErr) {
		return http.StatusTooManyRequests
	}

	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case provider.KindTimeout:
			return http.StatusGatewayTimeout
		case provider.KindNetwork, provider.KindServer:
			return http.StatusBadGateway
		case provider.KindRateLimited:
			return http.StatusTooManyRequests
		default:
			if apiErr.Status >= 400 && apiErr.Status < 500 {
				return apiErr.Status
			}
			return http.StatusBadGateway
		}
	}

	return http.StatusInternalServerError
}

// respondDomainError отдаёт ошибку с корректным статусом и, для rate limit,
// заголовком Retry-After.
func (h *handlerEnv) respondDomainError(w http.ResponseWriter, logger *log.Entry, err error, message string) {
	status := mapDomainStatus(err)

	var rateErr *provider.RateLimitError
	if errors.As(err, &rateErr) {
		w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rateErr.RetryAfter.Seconds()))
	}

	if status >= 500 {
		logger.WithError(err).Error(message)
	} else {
		logger.WithError(err).Warn(message)
	}

	body := errorBody{Error: message, Details: err.Error()}
	if h.development {
		body.Debug = map[string]interface{}{"originalError": err.Error()}
	}
	respondJSON(w, status, body)
}

// handlerEnv — общее окружение HTTP-обработчиков.
type handlerEnv struct {
	development bool
}
