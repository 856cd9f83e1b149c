package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/metrics"
)

const (
	// DefaultBaseURL — адрес REST API провайдера.
	DefaultBaseURL = "https://api.printify.com/v1"
	// DefaultRequestTimeout — таймаут одного запроса.
	DefaultRequestTimeout = 45 * time.Second
	// DefaultMaxRetries — количество попыток в requestWithRetry.
	DefaultMaxRetries = 3

	userAgent = "merchstore/1.0"
)

var (
	// ErrTokenRequired — не задан API-токен провайдера.
	ErrTokenRequired = errors.New("provider API token is required")
	// ErrShopIDRequired — не задан идентификатор магазина.
	ErrShopIDRequired = errors.New("provider shop id is required")
)

// BackoffFunc возвращает задержку перед повторной попыткой с данным номером.
type BackoffFunc func(attempt int) time.Duration

// ExponentialBackoff — задержка 2^attempt секунд, как требует провайдер.
func ExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// Config описывает настройки клиента провайдера.
type Config struct {
	Token          string
	ShopID         string
	BaseURL        string
	RequestTimeout time.Duration
	MaxRetries     int
	// RateWindowWait — пауза после ответа 429 перед повтором (полное окно лимита).
	RateWindowWait time.Duration
}

// Client — HTTP-клиент провайдерского API с лимитером, таймаутом и retry.
// Реализует domain.FulfillmentProvider.
type Client struct {
	baseURL        string
	token          string
	shopID         string
	httpc          *http.Client
	limiter        *RateLimiter
	logger         *log.Entry
	metrics        *metrics.CheckoutMetrics
	requestTimeout time.Duration
	maxRetries     int
	rateWindowWait time.Duration
	backoff        BackoffFunc
	sleep          func(time.Duration)
}

// NewClient конструирует клиента. Token и ShopID обязательны.
func NewClient(cfg Config, limiter *RateLimiter, m *metrics.CheckoutMetrics, logger *log.Entry) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrTokenRequired
	}
	if cfg.ShopID == "" {
		return nil, ErrShopIDRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RateWindowWait <= 0 {
		cfg.RateWindowWait = DefaultRateWindow
	}
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRateLimit, DefaultRateWindow)
	}
	if logger == nil {
		logger = log.New().WithField("component", "provider-client")
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		token:          cfg.Token,
		shopID:         cfg.ShopID,
		httpc:          &http.Client{},
		limiter:        limiter,
		logger:         logger,
		metrics:        m,
		requestTimeout: cfg.RequestTimeout,
		maxRetries:     cfg.MaxRetries,
		rateWindowWait: cfg.RateWindowWait,
		backoff:        ExponentialBackoff,
		sleep:          time.Sleep,
	}, nil
}

// RateLimitStatus возвращает состояние локального лимитера.
func (c *Client) RateLimitStatus() RateLimitStatus {
	return c.limiter.Status()
}

// request выполняет один запрос: лимитер, таймаут, маппинг ошибок, декодирование.
func (c *Client) request(ctx context.Context, method, endpoint string, body, out interface{}) error {
	if err := c.limiter.CheckAndConsume(); err != nil {
		if c.metrics != nil {
			c.metrics.RecordRateLimited()
		}
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return c.classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody errorResponse
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr == nil && len(raw) > 0 {
			if parseErr := json.Unmarshal(raw, &errBody); parseErr != nil {
				errBody = errorResponse{Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status)}
			}
		}
		apiErr := mapStatusError(resp.StatusCode, errBody)
		c.logger.WithFields(log.Fields{
			"endpoint": endpoint,
			"method":   method,
			"status":   resp.StatusCode,
			"kind":     apiErr.Kind,
		}).Warn("provider request failed")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

// classifyTransportError разделяет таймауты и сетевые ошибки уровня DNS/connect.
// Первые имеет смысл повторить, вторые — нет.
func (c *Client) classifyTransportError(err error) *APIError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
		return &APIError{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("request timeout: provider API took too long to respond (%s)", c.requestTimeout),
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{
			Kind:    KindNetwork,
			Message: "dns error: cannot resolve provider API host, check connectivity",
		}
	}

	return &APIError{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("network error: unable to connect to provider API: %v", err),
	}
}

// requestWithRetry повторяет запрос по политике: 5xx и таймауты — экспоненциальный
// backoff 2^attempt секунд; 429 — ожидание полного окна лимита; клиентские 4xx
// и ошибки DNS/connect не повторяются и сразу уходят вызывающему.
func (c *Client) requestWithRetry(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err := c.request(ctx, method, endpoint, body, out)
		if err == nil {
			if c.metrics != nil {
				c.metrics.RecordProviderRequest(endpoint, "ok")
			}
			if attempt > 1 {
				c.logger.WithFields(log.Fields{
					"endpoint": endpoint,
					"attempt":  attempt,
				}).Info("provider request succeeded after retry")
			}
			return nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			// Ошибки лимитера и сериализации не ретраим.
			if c.metrics != nil {
				c.metrics.RecordProviderRequest(endpoint, "error")
			}
			return err
		}

		if apiErr.Kind == KindRateLimited {
			if attempt < c.maxRetries {
				c.logger.WithField("endpoint", endpoint).Warn("provider rate limited, waiting full window before retry")
				if c.metrics != nil {
					c.metrics.RecordProviderRetry()
				}
				c.sleep(c.rateWindowWait)
				continue
			}
			break
		}

		if !apiErr.Retryable() {
			if c.metrics != nil {
				c.metrics.RecordProviderRequest(endpoint, "error")
			}
			return err
		}

		if attempt < c.maxRetries {
			delay := c.backoff(attempt)
			c.logger.WithFields(log.Fields{
				"endpoint": endpoint,
				"attempt":  attempt,
				"delay":    delay,
				"error":    err,
			}).Warn("provider request failed, retrying")
			if c.metrics != nil {
				c.metrics.RecordProviderRetry()
			}
			c.sleep(delay)
		}
	}

	if c.metrics != nil {
		c.metrics.RecordProviderRequest(endpoint, "error")
	}
	return lastErr
}

// GetProduct возвращает продукт каталога или domain.ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	var wire wireProduct
	endpoint := fmt.Sprintf("/shops/%s/products/%s.json", c.shopID, productID)
	if err := c.requestWithRetry(ctx, http.MethodGet, endpoint, nil, &wire); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindNotFound {
			return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		return domain.Product{}, err
	}
	return toDomainProduct(wire), nil
}

// ListProducts возвращает страницу каталога.
func (c *Client) ListProducts(ctx context.Context, page, limit int) (domain.ProductPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	var wire wireProductList
	endpoint := fmt.Sprintf("/shops/%s/products.json?page=%d&limit=%d", c.shopID, page, limit)
	if err := c.requestWithRetry(ctx, http.MethodGet, endpoint, nil, &wire); err != nil {
		return domain.ProductPage{}, err
	}

	products := make([]domain.Product, 0, len(wire.Data))
	for _, p := range wire.Data {
		products = append(products, toDomainProduct(p))
	}
	return domain.ProductPage{
		Products:   products,
		Pagination: toPagination(wire.CurrentPage, wire.LastPage, wire.Total, wire.NextPageURL, wire.PrevPageURL),
	}, nil
}

// CalculateShipping запрашивает стоимость доставки у провайдера.
// Fallback-таблица живёт уровнем выше, в shipping.Estimator.
func (c *Client) CalculateShipping(ctx context.Context, items []domain.LineItem, address domain.ShippingAddress) (domain.ShippingQuote, error) {
	body := wireShippingRequest{
		LineItems: toWireLineItems(items),
		AddressTo: toWireAddress(address),
	}

	var wire wireShippingResponse
	endpoint := fmt.Sprintf("/shops/%s/orders/shipping.json", c.shopID)
	if err := c.requestWithRetry(ctx, http.MethodPost, endpoint, body, &wire); err != nil {
		return domain.ShippingQuote{}, err
	}

	standard := wire.Standard
	if standard == 0 {
		standard = wire.ShippingCost
	}
	if standard == 0 {
		// Провайдер иногда отвечает без standard-поля; 500 центов — его базовый тариф.
		standard = 500
	}
	return domain.ShippingQuote{
		StandardMinor: standard,
		ExpressMinor:  wire.Express,
		PriorityMinor: wire.Priority,
	}, nil
}

// CreateOrder создаёт заказ у провайдера. Черновик должен быть провалидирован
// вызывающей стороной; здесь происходит только передача.
func (c *Client) CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	body := wireOrderRequest{
		ExternalID:               draft.ExternalID,
		Label:                    draft.Label,
		LineItems:                toWireLineItems(draft.LineItems),
		SendShippingNotification: true,
		AddressTo:                toWireAddress(draft.AddressTo.Normalize()),
	}

	var wire wireOrder
	endpoint := fmt.Sprintf("/shops/%s/orders.json", c.shopID)
	if err := c.requestWithRetry(ctx, http.MethodPost, endpoint, body, &wire); err != nil {
		return domain.Order{}, err
	}
	return toDomainOrder(wire), nil
}

// GetOrder возвращает заказ или domain.ErrOrderNotFound.
func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var wire wireOrder
	endpoint := fmt.Sprintf("/shops/%s/orders/%s.json", c.shopID, orderID)
	if err := c.requestWithRetry(ctx, http.MethodGet, endpoint, nil, &wire); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindNotFound {
			return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
		}
		return domain.Order{}, err
	}
	return toDomainOrder(wire), nil
}

// ListOrders возвращает страницу заказов магазина.
func (c *Client) ListOrders(ctx context.Context, page, limit int) (domain.OrderPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	var wire wireOrderList
	endpoint := fmt.Sprintf("/shops/%s/orders.json?page=%d&limit=%d", c.shopID, page, limit)
	if err := c.requestWithRetry(ctx, http.MethodGet, endpoint, nil, &wire); err != nil {
		return domain.OrderPage{}, err
	}

	orders := make([]domain.Order, 0, len(wire.Data))
	for _, o := range wire.Data {
		orders = append(orders, toDomainOrder(o))
	}
	return domain.OrderPage{
		Orders:     orders,
		Pagination: toPagination(wire.CurrentPage, wire.LastPage, wire.Total, wire.NextPageURL, wire.PrevPageURL),
	}, nil
}

// SendToProduction отправляет заказ в производство. Проверка статуса перед
// вызовом — обязанность order.Lifecycle.
func (c *Client) SendToProduction(ctx context.Context, orderID string) error {
	endpoint := fmt.Sprintf("/shops/%s/orders/%s/send_to_production.json", c.shopID, orderID)
	return c.requestWithRetry(ctx, http.MethodPost, endpoint, nil, nil)
}

// CancelOrder запрашивает отмену; провайдер сам решает, допустима ли она.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	endpoint := fmt.Sprintf("/shops/%s/orders/%s/cancel.json", c.shopID, orderID)
	return c.requestWithRetry(ctx, http.MethodPost, endpoint, nil, nil)
}

// HealthCheck выполняет лёгкую пробу API одним запросом без retry.
func (c *Client) HealthCheck(ctx context.Context) error {
	endpoint := fmt.Sprintf("/shops/%s/products.json?page=1&limit=1", c.shopID)
	var wire wireProductList
	return c.request(ctx, http.MethodGet, endpoint, nil, &wire)
}

var _ domain.FulfillmentProvider = (*Client)(nil)
