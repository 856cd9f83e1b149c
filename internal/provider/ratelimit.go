package provider

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultRateLimit — лимит провайдера: 600 запросов в минуту.
	DefaultRateLimit = 600
	// DefaultRateWindow — длина окна лимита.
	DefaultRateWindow = time.Minute
)

// RateLimitError возвращается, когда локальный счётчик исчерпал окно.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter.Round(time.Second))
}

// RateLimitStatus — снапшот состояния лимитера для health/debug ручек.
type RateLimitStatus struct {
	RequestCount int
	WindowStart  time.Time
	Limited      bool
}

// RateLimiter считает исходящие запросы в скользящем окне фиксированной длины.
// Экземпляр создаётся явно и передаётся клиенту: никакого глобального состояния,
// в тестах можно подменить часы.
type RateLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	now         func() time.Time
}

// NewRateLimiter создаёт лимитер с заданным потолком и окном.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// CheckAndConsume выполняется синхронно перед каждым исходящим запросом,
// включая повторные попытки. Проверка окна и инкремент — одна критическая секция.
func (l *RateLimiter) CheckAndConsume() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.limit {
		return &RateLimitError{RetryAfter: l.window - now.Sub(l.windowStart)}
	}

	l.count++
	return nil
}

// Status возвращает копию текущего состояния окна.
func (l *RateLimiter) Status() RateLimitStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return RateLimitStatus{
		RequestCount: l.count,
		WindowStart:  l.windowStart,
		Limited:      l.count >= l.limit,
	}
}
