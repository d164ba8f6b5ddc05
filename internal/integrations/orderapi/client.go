package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/pkg/errors"
)

const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultUser     = "api-user"
	DefaultPassword = "change-me"
)

type Client struct {
	baseURL  string
	user     string
	password string
	httpc    *http.Client
}

// New builds a client without a request timeout: a stalled call blocks until
// the transport gives up or ctx is done.
func New(baseURL, user, password string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		user:     user,
		password: password,
		httpc:    &http.Client{},
	}
}

// WithHTTPClient swaps the underlying transport (tests, custom TLS).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.httpc = h
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Call performs one request against the order API and decodes a 2xx body
// into out. body == nil sends no payload.
func (c *Client) Call(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		text, _ := io.ReadAll(resp.Body)
		msg := string(text)
		if msg == "" {
			msg = statusPhrase(resp)
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func (c *Client) RegisterOrder(ctx context.Context, in models.RegisterOrderRequest) (models.Order, error) {
	var o models.Order
	err := c.Call(ctx, http.MethodPost, "/api/orders", in, &o)
	return o, err
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	var o models.Order
	err := c.Call(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID), nil, &o)
	return o, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, in models.UpdateOrderStatusRequest) (models.Order, error) {
	var o models.Order
	err := c.Call(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(orderID)+"/status", in, &o)
	return o, err
}

func (c *Client) ListOrders(ctx context.Context, q models.ListQuery) ([]models.Order, error) {
	var out []models.Order
	if err := c.Call(ctx, http.MethodGet, ListPath(q), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// statusPhrase returns the reason phrase the server sent, falling back to the
// standard text for the code.
func statusPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
