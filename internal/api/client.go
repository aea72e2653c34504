package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fjod/go_lessons/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the remote lesson service. Every call goes through a
// circuit breaker; a non-2xx status counts as a failure and trips it the
// same way a transport error does.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "lesson-service",
		Timeout: 30 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

// ListLessons fetches the full catalog (GET /lessons).
func (c *Client) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	resp, err := c.do(ctx, http.MethodGet, "/lessons", nil)
	if err != nil {
		return nil, err
	}
	return decodeLessons(resp)
}

// SearchLessons delegates matching to the remote service (GET /search?q=).
func (c *Client) SearchLessons(ctx context.Context, term string) ([]domain.Lesson, error) {
	resp, err := c.do(ctx, http.MethodGet, "/search?q="+url.QueryEscape(term), nil)
	if err != nil {
		return nil, err
	}
	return decodeLessons(resp)
}

// CreateOrder persists the order (POST /orders). The response body is
// ignored; only the status matters.
func (c *Client) CreateOrder(ctx context.Context, order domain.CheckoutRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/orders", order)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// UpdateLessonSpace pushes a new remaining-slot count (PUT /lessons/:id).
func (c *Client) UpdateLessonSpace(ctx context.Context, lessonID string, space int) error {
	payload := map[string]int{"space": space}
	resp, err := c.do(ctx, http.MethodPut, "/lessons/"+url.PathEscape(lessonID), payload)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	return c.breaker.Execute(func() (*http.Response, error) {
		var body *bytes.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("marshal %s %s payload: %w", method, path, err)
			}
			body = bytes.NewReader(data)
		} else {
			body = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%s %s returned %s", method, path, resp.Status)
		}
		return resp, nil
	})
}
