package nifiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artuross/nifi2go/internal/defaults"
	"github.com/artuross/nifi2go/internal/util/retry"
	"github.com/artuross/nifi2go/internal/util/timeutil"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/artuross/nifi2go/internal/repository/nifiapi"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is returned for responses with an unexpected status code.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound

	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}

	return false
}

// Transient reports whether the request may succeed when repeated.
func (e *StatusError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type Repository struct {
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	retry        retry.Config
	newTicker    timeutil.NewTickerFunc
	pollInterval time.Duration
	pageSize     int
	tracer       trace.Tracer
}

// New creates a client for the REST API rooted at baseURL, for example
// https://localhost:8443/nifi-api.
func New(baseURL string, options ...func(*Repository)) *Repository {
	repository := Repository{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   defaults.HTTPClient,
		limiter:      rate.NewLimiter(rate.Limit(20), 5),
		retry:        retry.DefaultConfig(),
		newTicker:    timeutil.NewTicker,
		pollInterval: 500 * time.Millisecond,
		pageSize:     1000,
		tracer:       defaults.TracerProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&repository)
	}

	return &repository
}

func WithHTTPClient(httpClient *http.Client) func(*Repository) {
	return func(r *Repository) {
		r.httpClient = httpClient
	}
}

func WithTracerProvider(tp trace.TracerProvider) func(*Repository) {
	return func(r *Repository) {
		r.tracer = tp.Tracer(tracerName)
	}
}

func WithRateLimiter(limiter *rate.Limiter) func(*Repository) {
	return func(r *Repository) {
		r.limiter = limiter
	}
}

func WithRetry(cfg retry.Config) func(*Repository) {
	return func(r *Repository) {
		r.retry = cfg
	}
}

// WithPolling sets how provenance queries are polled until they finish.
func WithPolling(newTicker timeutil.NewTickerFunc, interval time.Duration) func(*Repository) {
	return func(r *Repository) {
		r.newTicker = newTicker
		r.pollInterval = interval
	}
}

// WithPageSize sets the number of provenance events requested per query.
func WithPageSize(size int) func(*Repository) {
	return func(r *Repository) {
		r.pageSize = max(size, 1)
	}
}

// doRequest sends a JSON request and decodes the JSON response into out.
// 429 responses are retried. Network errors and 5xx responses are retried
// only for idempotent methods, since a failed POST may still have created a
// resource on the server.
func (r *Repository) doRequest(ctx context.Context, method, path string, queryParams url.Values, in, out any) error {
	fullURL := r.baseURL + path
	if len(queryParams) > 0 {
		fullURL += "?" + queryParams.Encode()
	}

	var payload []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode JSON body: %w", err)
		}

		payload = data
	}

	idempotent := method != http.MethodPost

	return retry.Do(ctx, r.retry, func() error {
		if err := r.limiter.Wait(ctx); err != nil {
			return retry.NonRetryable(fmt.Errorf("wait for rate limiter: %w", err))
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
		if err != nil {
			return retry.NonRetryable(fmt.Errorf("create HTTP request: %w", err))
		}

		request.Header.Set("Accept", "application/json")
		if payload != nil {
			request.Header.Set("Content-Type", "application/json")
		}

		response, err := r.httpClient.Do(request)
		if err != nil {
			if ctx.Err() != nil || !idempotent {
				return retry.NonRetryable(fmt.Errorf("send HTTP request: %w", err))
			}

			return fmt.Errorf("send HTTP request: %w", err)
		}
		defer response.Body.Close()

		responseBody, err := io.ReadAll(response.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		if response.StatusCode < 200 || response.StatusCode > 299 {
			statusErr := &StatusError{
				StatusCode: response.StatusCode,
				Message:    strings.TrimSpace(string(responseBody)),
			}

			if statusErr.StatusCode == http.StatusTooManyRequests || (idempotent && statusErr.Transient()) {
				return statusErr
			}

			return retry.NonRetryable(statusErr)
		}

		if out == nil || len(responseBody) == 0 {
			return nil
		}

		if err := json.Unmarshal(responseBody, out); err != nil {
			return retry.NonRetryable(fmt.Errorf("decode JSON body: %w", err))
		}

		return nil
	})
}
