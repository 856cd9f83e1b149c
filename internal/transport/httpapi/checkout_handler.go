package httpapi

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/service/checkout"
)

// checkoutHandler обслуживает расчёт корзины и оформление заказа.
type checkoutHandler struct {
	service *checkout.Service
	logger  *log.Entry
	env     *handlerEnv
}

func newCheckoutHandler(service *checkout.Service, logger *log.Entry, env *handlerEnv) *checkoutHandler {
	if logger == nil {
		logger = log.New().WithField("component", "http_checkout")
	}
	return &checkoutHandler{service: service, logger: logger, env: env}
}

// Calculate — POST /api/checkout/calculate. Best-effort: расчёт не падает из-за
// провайдера, fallbackUsed сообщает клиенту о деградации.
func (h *checkoutHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.service.Calculate(r.Context(), toCartItems(req.CartItems), req.ShippingAddress.toDomain())
	if err != nil {
		h.env.respondDomainError(w, h.logger, err, "failed to calculate order cost")
		return
	}

	respondJSON(w, http.StatusOK, calculateResponse{
		Success:         true,
		Calculation:     toCalculationDTO(result.Calculation),
		ShippingOptions: toShippingOptionDTOs(result.ShippingOptions),
		FallbackUsed:    result.FallbackUsed,
	})
}

// PlaceOrder — POST /api/checkout. Строгий путь: любая проблема валидации или
// провайдера прерывает оформление. Неудача отправки в производство ошибкой не
// является: заказ создан, paymentProcessed=false.
func (h *checkoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	// processPayment по умолчанию true: явный false нужен только для отложенной оплаты.
	processPayment := true
	if req.ProcessPayment != nil {
		processPayment = *req.ProcessPayment
	}

	result, err := h.service.PlaceOrder(r.Context(), toCartItems(req.CartItems), req.ShippingAddress.toDomain(), processPayment)
	if err != nil {
		h.env.respondDomainError(w, h.logger, err, "failed to place order")
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse{
		Success:          true,
		PaymentProcessed: result.PaymentProcessed,
		Order:            toOrderDTO(result.Order),
		Message:          result.Message,
	})
}
