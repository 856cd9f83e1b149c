package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

// productsHandler отдаёт каталог провайдера в витринном виде:
// только включённые варианты, цена "от", картинка по умолчанию.
type productsHandler struct {
	provider domain.FulfillmentProvider
	logger   *log.Entry
	env      *handlerEnv
}

func newProductsHandler(provider domain.FulfillmentProvider, logger *log.Entry, env *handlerEnv) *productsHandler {
	if logger == nil {
		logger = log.New().WithField("component", "http_products")
	}
	return &productsHandler{provider: provider, logger: logger, env: env}
}

// List — GET /api/products?page&limit.
func (h *productsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageParams(r)

	result, err := h.provider.ListProducts(r.Context(), page, limit)
	if err != nil {
		h.env.respondDomainError(w, h.logger, err, "failed to list products")
		return
	}

	products := make([]storefrontProductDTO, 0, len(result.Products))
	for _, p := range result.Products {
		// Скрытые продукты и продукты без включённых вариантов в витрину не попадают.
		if !p.Visible || len(p.EnabledVariants()) == 0 {
			continue
		}
		products = append(products, toStorefrontProductDTO(p))
	}
	respondJSON(w, http.StatusOK, productsListResponse{
		Success:    true,
		Products:   products,
		Pagination: toPaginationDTO(result.Pagination),
	})
}

// Get — GET /api/products/{id}.
func (h *productsHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "product id is required", "")
		return
	}

	product, err := h.provider.GetProduct(r.Context(), productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		// В контексте каталога отсутствие продукта — 404, а не ошибка валидации.
		respondError(w, http.StatusNotFound, "product not found", productID)
		return
	}
	if err != nil {
		h.env.respondDomainError(w, h.logger, err, "failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, productResponse{Success: true, Product: toStorefrontProductDTO(product)})
}
