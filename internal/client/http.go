package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"recordweb/internal/model"
	"recordweb/internal/requestid"
)

// HTTPClient is the net/http implementation of Client for one resource.
// It is safe for concurrent use by multiple goroutines.
type HTTPClient struct {
	baseURL  string
	resource model.Resource
	http     *http.Client
	metrics  *Metrics
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the overall per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithMetrics records every upstream call in m.
func WithMetrics(m *Metrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

// New creates a client for res rooted at baseURL (e.g. http://localhost:8080).
// The default transport is wrapped with otelhttp so trace context reaches the API.
func New(baseURL string, res model.Resource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:  baseURL,
		resource: res,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) collectionURL() string {
	return c.baseURL + "/" + c.resource.Name
}

func (c *HTTPClient) itemURL(id string) string {
	return c.collectionURL() + "/" + url.PathEscape(id)
}

// List returns GET /{resource}. A null body yields an empty slice.
func (c *HTTPClient) List(ctx context.Context) ([]model.Record, error) {
	var out []model.Record
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

// Get returns GET /{resource}/{id}.
func (c *HTTPClient) Get(ctx context.Context, id string) (model.Record, error) {
	var out model.Record
	if err := c.do(ctx, http.MethodGet, c.itemURL(id), nil, &out); err != nil {
		return model.Record{}, err
	}
	return out, nil
}

// Create issues POST /{resource} with rec as the body.
func (c *HTTPClient) Create(ctx context.Context, rec model.Record) (*Result, error) {
	return c.mutate(ctx, http.MethodPost, c.collectionURL(), rec)
}

// Update issues PUT /{resource}/{id} with the full record.
func (c *HTTPClient) Update(ctx context.Context, id string, rec model.Record) (*Result, error) {
	return c.mutate(ctx, http.MethodPut, c.itemURL(id), rec)
}

// Delete issues DELETE /{resource}/{id}.
func (c *HTTPClient) Delete(ctx context.Context, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Ping issues GET /{resource} and discards the body.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.collectionURL(), nil, nil)
}

// mutate decodes the {<singular>: Record, message: string} envelope.
func (c *HTTPClient) mutate(ctx context.Context, method, u string, rec model.Record) (*Result, error) {
	var env map[string]json.RawMessage
	if err := c.do(ctx, method, u, rec, &env); err != nil {
		return nil, err
	}

	res := &Result{}
	if raw, ok := env[c.resource.Singular]; ok {
		if err := json.Unmarshal(raw, &res.Record); err != nil {
			return nil, &RequestError{Method: method, URL: u, Err: fmt.Errorf("decode %s: %w", c.resource.Singular, err)}
		}
	}
	if raw, ok := env["message"]; ok {
		if err := json.Unmarshal(raw, &res.Message); err != nil {
			return nil, &RequestError{Method: method, URL: u, Err: fmt.Errorf("decode message: %w", err)}
		}
	}
	return res, nil
}

func (c *HTTPClient) do(ctx context.Context, method, u string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Method: method, URL: u, Err: fmt.Errorf("encode body: %w", err)}
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return &RequestError{Method: method, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(c.resource.Name, method, "error", time.Since(start))
		return &RequestError{Method: method, URL: u, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.observe(c.resource.Name, method, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &RequestError{
			Method:     method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &RequestError{Method: method, URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
