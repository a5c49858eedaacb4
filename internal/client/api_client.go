// Package client is the Go consumer of the order API: a REST client for
// staff and customer operations and a realtime subscriber for staff boards.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/pkg/errs"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response. It unwraps to the errs sentinel matching its status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return errs.ErrValueIsInvalid
	case e.StatusCode == http.StatusUnauthorized:
		return errs.ErrCredentialsAreInvalid
	case e.StatusCode == http.StatusNotFound:
		return errs.ErrObjectNotFound
	case e.StatusCode == http.StatusConflict:
		return errs.ErrObjectAlreadyExists
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode >= http.StatusInternalServerError:
		return errs.ErrServiceIsUnavailable
	default:
		return nil
	}
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// LineItemRequest is one line of a submitted order.
type LineItemRequest struct {
	ItemID    kernel.UUID  `json:"itemId"`
	Name      string       `json:"name"`
	UnitPrice kernel.Money `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	Image     string       `json:"image,omitempty"`
}

// OrderRequest is the body of POST /api/orders.
type OrderRequest struct {
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	Table         string            `json:"table"`
	LineItems     []LineItemRequest `json:"lineItems"`
	Notes         string            `json:"notes,omitempty"`
	Total         *kernel.Money     `json:"total,omitempty"`
}

// StaffSession is the result of a successful login.
type StaffSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Staff     struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"staff"`
}

// APIClient talks to the HTTP API. Login stores the token for later staff calls.
type APIClient struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &APIClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// SetToken installs a staff token obtained elsewhere.
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *APIClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *APIClient) Login(ctx context.Context, username, password string) (StaffSession, error) {
	var session StaffSession
	err := c.do(ctx, c.http.R().
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&session),
		http.MethodPost, "/api/auth/login")
	if err != nil {
		return StaffSession{}, err
	}
	c.SetToken(session.Token)
	return session, nil
}

// ListRecent fetches the staff snapshot. A zero limit uses the server default.
func (c *APIClient) ListRecent(ctx context.Context, limit int) ([]readmodel.OrderView, error) {
	var body struct {
		Orders []readmodel.OrderView `json:"orders"`
	}
	req := c.staff().SetResult(&body)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	if err := c.do(ctx, req, http.MethodGet, "/api/orders"); err != nil {
		return nil, err
	}
	return body.Orders, nil
}

func (c *APIClient) ChangeStatus(ctx context.Context, orderID string, target order.Status) (readmodel.OrderView, error) {
	var body struct {
		Order readmodel.OrderView `json:"order"`
	}
	req := c.staff().
		SetPathParam("id", orderID).
		SetBody(map[string]order.Status{"status": target}).
		SetResult(&body)
	if err := c.do(ctx, req, http.MethodPatch, "/api/orders/{id}/status"); err != nil {
		return readmodel.OrderView{}, err
	}
	return body.Order, nil
}

// SubmitOrder places a customer order.
func (c *APIClient) SubmitOrder(ctx context.Context, submission OrderRequest) (readmodel.OrderView, error) {
	var body struct {
		Order readmodel.OrderView `json:"order"`
	}
	req := c.http.R().SetBody(submission).SetResult(&body)
	if err := c.do(ctx, req, http.MethodPost, "/api/orders"); err != nil {
		return readmodel.OrderView{}, err
	}
	return body.Order, nil
}

// Menu lists available items, optionally restricted to one category.
func (c *APIClient) Menu(ctx context.Context, category string) ([]readmodel.MenuItemView, error) {
	var body struct {
		MenuItems []readmodel.MenuItemView `json:"menuItems"`
	}
	req := c.http.R().SetResult(&body)
	if category != "" {
		req.SetQueryParam("category", category)
	}
	if err := c.do(ctx, req, http.MethodGet, "/api/menu"); err != nil {
		return nil, err
	}
	return body.MenuItems, nil
}

func (c *APIClient) staff() *resty.Request {
	return c.http.R().SetAuthToken(c.Token())
}

func (c *APIClient) do(ctx context.Context, req *resty.Request, method, path string) error {
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return errs.NewServiceIsUnavailableErrorWithCause("order api", err)
	}
	if resp.IsSuccess() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	var envelope errorEnvelope
	if json.Unmarshal(resp.Body(), &envelope) == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
