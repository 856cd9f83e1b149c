package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ordersHandler проксирует список и чтение заказов провайдера.
type ordersHandler struct {
	provider domain.FulfillmentProvider
	logger   *log.Entry
	env      *handlerEnv
}

func newOrdersHandler(provider domain.FulfillmentProvider, logger *log.Entry, env *handlerEnv) *ordersHandler {
	if logger == nil {
		logger = log.New().WithField("component", "http_orders")
	}
	return &ordersHandler{provider: provider, logger: logger, env: env}
}

// List — GET /api/orders?page&limit.
func (h *ordersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageParams(r)

	result, err := h.provider.ListOrders(r.Context(), page, limit)
	if err != nil {
		h.env.respondDomainError(w, h.logger, err, "failed to list orders")
		return
	}

	orders := make([]orderDTO, 0, len(result.Orders))
	for _, o := range result.Orders {
		orders = append(orders, toOrderDTO(o))
	}
	respondJSON(w, http.StatusOK, ordersListResponse{
		Success:    true,
		Orders:     orders,
		Pagination: toPaginationDTO(result.Pagination),
	})
}

// Get — GET /api/orders/{id}.
func (h *ordersHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "order id is required", "")
		return
	}

	order, err := h.provider.GetOrder(r.Context(), orderID)
	if err != nil {
		h.env.respondDomainError(w, h.logger, err, "failed to get order")
		return
	}

	respondJSON(w, http.StatusOK, orderResponse{Success: true, Order: toOrderDTO(order)})
}

// parsePageParams читает page/limit из query, подставляя значения по умолчанию
// и отсекая заведомо некорректные.
func parsePageParams(r *http.Request) (page, limit int) {
	page, limit = defaultPage, defaultLimit
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= maxLimit {
			limit = v
		}
	}
	return page, limit
}
