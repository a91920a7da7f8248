// Package cartclient talks to the cart storage service over HTTP/JSON.
package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
)

const cartsPath = "/api/storefront/carts"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

var _ ports.CartService = (*Client)(nil)

// Client implements ports.CartService. Session token, request id and
// idempotency key are taken from the call context by interceptors.Transport.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its transport is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// New returns a client for the service at baseURL. timeout bounds every
// call; zero means no limit.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(interceptors.NewTransport(nil)),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type lineItemJSON struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type lineItemsRequest struct {
	LineItems []lineItemJSON `json:"lineItems"`
}

type cartJSON struct {
	ID string `json:"id"`
}

type errorJSON struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (c *Client) ListActiveCarts(ctx context.Context) ([]entity.CartReference, error) {
	var carts []cartJSON
	if err := c.do(ctx, "list carts", http.MethodGet, cartsPath, nil, &carts, bodyRequired); err != nil {
		return nil, err
	}
	refs := make([]entity.CartReference, 0, len(carts))
	for _, cj := range carts {
		refs = append(refs, entity.CartReference{CartID: cj.ID})
	}
	return refs, nil
}

func (c *Client) CreateCart(ctx context.Context, items []entity.LineItem) (*entity.Cart, error) {
	var cj cartJSON
	if err := c.do(ctx, "create cart", http.MethodPost, cartsPath, toRequest(items), &cj, bodyOptional); err != nil {
		return nil, err
	}
	return &entity.Cart{ID: cj.ID}, nil
}

func (c *Client) AppendItems(ctx context.Context, cartID string, items []entity.LineItem) (*entity.Cart, error) {
	path := cartsPath + "/" + url.PathEscape(cartID) + "/items"
	var cj cartJSON
	if err := c.do(ctx, "append items", http.MethodPost, path, toRequest(items), &cj, bodyOptional); err != nil {
		return nil, err
	}
	if cj.ID == "" {
		cj.ID = cartID
	}
	return &entity.Cart{ID: cj.ID}, nil
}

func toRequest(items []entity.LineItem) lineItemsRequest {
	out := lineItemsRequest{LineItems: make([]lineItemJSON, len(items))}
	for i, it := range items {
		out.LineItems[i] = lineItemJSON{ProductID: int(it.ProductID), Quantity: it.Quantity}
	}
	return out
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any, need bodyPolicy) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cart service %s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "cart service unreachable", "op", op, "error", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "cart service call",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if need == bodyOptional {
			// The write already happened; only the status decides.
			slog.WarnContext(ctx, "cart service write returned no cart body",
				"op", op,
				"status", resp.StatusCode,
				"error", err,
			)
			return nil
		}
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// bodyPolicy says whether a 2xx response must carry a decodable body.
type bodyPolicy bool

const (
	bodyRequired bodyPolicy = true
	bodyOptional bodyPolicy = false
)

// decodeError never fails: an unreadable body still yields a ServiceError
// carrying the status code.
func decodeError(resp *http.Response) error {
	se := &ServiceError{Status: resp.StatusCode}
	var ej errorJSON
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&ej); err == nil {
		se.Title = ej.Title
		se.Detail = ej.Detail
	}
	return se
}
