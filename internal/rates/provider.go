// Package rates fetches BRL conversion rates from external providers with
// ordered fallback and a cached snapshot.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Provider fetches the value of 1 BRL in USD and ARS from one source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (usd, ars float64, err error)
}

var defaultClient = &http.Client{Timeout: 10 * time.Second}

// Frankfurter queries the Frankfurter API
// (https://api.frankfurter.dev/latest?from=BRL&to=USD,ARS).
type Frankfurter struct {
	URL    string
	Client *http.Client
}

func (p *Frankfurter) Name() string { return "frankfurter" }

func (p *Frankfurter) Fetch(ctx context.Context) (float64, float64, error) {
	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := getJSON(ctx, p.Client, p.URL, &body); err != nil {
		return 0, 0, err
	}

	usd, ars := body.Rates["USD"], body.Rates["ARS"]
	if usd <= 0 || ars <= 0 {
		return 0, 0, fmt.Errorf("incomplete rates: USD=%v ARS=%v", usd, ars)
	}
	return usd, ars, nil
}

// OpenERAPI queries the open ExchangeRate-API endpoint
// (https://open.er-api.com/v6/latest/BRL). Its payload carries a "result"
// discriminator that must read "success" before the rates are trusted.
type OpenERAPI struct {
	URL    string
	Client *http.Client
}

func (p *OpenERAPI) Name() string { return "exchangerate-api" }

func (p *OpenERAPI) Fetch(ctx context.Context) (float64, float64, error) {
	var body struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := getJSON(ctx, p.Client, p.URL, &body); err != nil {
		return 0, 0, err
	}

	if body.Result != "success" {
		return 0, 0, fmt.Errorf("provider reported result %q", body.Result)
	}
	usd, ars := body.Rates["USD"], body.Rates["ARS"]
	if usd <= 0 || ars <= 0 {
		return 0, 0, fmt.Errorf("incomplete rates: USD=%v ARS=%v", usd, ars)
	}
	return usd, ars, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	if client == nil {
		client = defaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode rates: %w", err)
	}
	return nil
}
