package services

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"aarika/internal/logger"
)

// Exchange is one captured HTTP round trip. Bodies are kept verbatim;
// credential headers are masked.
type Exchange struct {
	Method       string
	URL          string
	Status       int
	RequestSize  int
	ResponseSize int
	Headers      map[string][]string
	Duration     time.Duration
	Err          string
}

// DebugTransport is an http.RoundTripper that logs every model request at
// debug level and remembers the most recent exchange.
type DebugTransport struct {
	base http.RoundTripper
	now  func() time.Time

	mu   sync.RWMutex
	last *Exchange
}

// NewDebugTransport wraps base; a nil base uses http.DefaultTransport.
func NewDebugTransport(base http.RoundTripper) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{base: base, now: time.Now}
}

// RoundTrip implements http.RoundTripper.
func (dt *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := dt.now()
	exchange := &Exchange{
		Method:  req.Method,
		URL:     req.URL.Redacted(),
		Headers: sanitizeHeaders(req.Header),
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			logger.Error("Failed to capture request", "error", err)
		}
		// Restore the body for actual transmission.
		req.Body = io.NopCloser(bytes.NewReader(body))
		exchange.RequestSize = len(body)
	}

	resp, err := dt.base.RoundTrip(req)
	exchange.Duration = dt.now().Sub(start)

	if err != nil {
		exchange.Err = err.Error()
		dt.store(exchange)
		return resp, err
	}

	exchange.Status = resp.StatusCode
	if resp.Body != nil {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			logger.Error("Failed to capture response", "error", readErr)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
		exchange.ResponseSize = len(body)
	}

	dt.store(exchange)
	return resp, nil
}

func (dt *DebugTransport) store(exchange *Exchange) {
	dt.mu.Lock()
	dt.last = exchange
	dt.mu.Unlock()

	logger.Debug("HTTP exchange",
		"method", exchange.Method,
		"url", exchange.URL,
		"status", exchange.Status,
		"request_bytes", exchange.RequestSize,
		"response_bytes", exchange.ResponseSize,
		"duration_ms", exchange.Duration.Milliseconds(),
		"error", exchange.Err)
}

// LastExchange returns a copy of the most recent exchange, or nil.
func (dt *DebugTransport) LastExchange() *Exchange {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	if dt.last == nil {
		return nil
	}
	cp := *dt.last
	return &cp
}

// sanitizeHeaders masks credential headers.
func sanitizeHeaders(headers http.Header) map[string][]string {
	sanitized := make(map[string][]string, len(headers))

	for name, values := range headers {
		lowerName := strings.ToLower(name)
		if strings.Contains(lowerName, "authorization") ||
			strings.Contains(lowerName, "api-key") ||
			strings.Contains(lowerName, "token") {
			if len(values) > 0 && len(values[0]) > 10 {
				sanitized[name] = []string{values[0][:10] + "***[MASKED]***"}
			} else {
				sanitized[name] = []string{"***[MASKED]***"}
			}
			continue
		}
		sanitized[name] = values
	}

	return sanitized
}
