// Package client is the HTTP consumer of the trip API. It implements
// the same contract as the server-side store so the session controller
// can treat remote and local data uniformly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Cuutu/brasil2026/internal/core"
	"github.com/Cuutu/brasil2026/internal/store"
)

// TransportError wraps a network-level failure (connection refused,
// timeout, DNS). Callers use it to decide between degrading and
// surfacing the error.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "api unreachable: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from a reachable API. The message is the
// server's error field when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the trip API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ store.Store = (*Client)(nil)

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) ListPersons(ctx context.Context) ([]core.Person, error) {
	var persons []core.Person
	if err := c.do(ctx, http.MethodGet, "/api/persons", nil, &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

func (c *Client) CreatePerson(ctx context.Context, name string) (core.Person, error) {
	var person core.Person
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/persons", body, &person); err != nil {
		return core.Person{}, err
	}
	return person, nil
}

func (c *Client) DeletePerson(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/persons?id="+url.QueryEscape(id), nil, nil)
}

func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var expenses []core.Expense
	if err := c.do(ctx, http.MethodGet, "/api/expenses", nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (c *Client) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	var created core.Expense
	body := map[string]any{
		"description": e.Description,
		"amountBRL":   e.AmountBRL,
		"paidBy":      e.PaidBy,
		"category":    e.Category,
	}
	if err := c.do(ctx, http.MethodPost, "/api/expenses", body, &created); err != nil {
		return core.Expense{}, err
	}
	return created, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/expenses?id="+url.QueryEscape(id), nil, nil)
}

func (c *Client) ListItems(ctx context.Context) ([]core.ImportantItem, error) {
	var items []core.ImportantItem
	if err := c.do(ctx, http.MethodGet, "/api/important", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, it core.ImportantItem) (core.ImportantItem, error) {
	var created core.ImportantItem
	body := map[string]any{
		"link":        it.Link,
		"information": it.Information,
		"amountBRL":   it.AmountBRL,
		"addedBy":     it.AddedBy,
	}
	if err := c.do(ctx, http.MethodPost, "/api/important", body, &created); err != nil {
		return core.ImportantItem{}, err
	}
	return created, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/important?id="+url.QueryEscape(id), nil, nil)
}

// ExchangeRates fetches the current rate snapshot. The server answers
// 200 even when it fell back to the static pair.
func (c *Client) ExchangeRates(ctx context.Context) (core.ExchangeRates, error) {
	var rates core.ExchangeRates
	if err := c.do(ctx, http.MethodGet, "/api/exchange", nil, &rates); err != nil {
		return core.ExchangeRates{}, err
	}
	return rates, nil
}

// do runs one request and decodes the response into out when non-nil.
// 503 maps to store.ErrUnavailable, network failures to TransportError,
// other non-2xx answers to APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return store.ErrUnavailable
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func errorMessage(body io.Reader) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&e); err == nil && e.Error != "" {
		return e.Error
	}
	return "unexpected response"
}
