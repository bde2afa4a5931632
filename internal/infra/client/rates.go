// Package client contains HTTP clients for external APIs. The tracker has
// exactly one: the blue-dollar quote API used by the salary auto-poster.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// RatesClient fetches the blue-dollar quote from dolarapi.
type RatesClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewRatesClient creates a new RatesClient. The http.Client should carry a
// short timeout; rate fetches must never hold up a balance read.
func NewRatesClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *RatesClient {
	return &RatesClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// blueQuote maps the dolarapi response. Only the sell side is used.
type blueQuote struct {
	Compra float64 `json:"compra"`
	Venta  float64 `json:"venta"`
}

// SellRate fetches the current sell rate with retry, circuit breaker, and
// tracing. Implements port.RateFetcher.
func (c *RatesClient) SellRate(ctx context.Context) (float64, error) {
	ctx, span := tracer.Start(ctx, "RatesClient.SellRate")
	defer span.End()

	var quote blueQuote

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/v1/dolares/blue", c.baseURL)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("rates API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&quote)
		})
	})

	if err != nil {
		return 0, &domain.ErrExternalService{Service: "rates", Err: err}
	}

	if quote.Venta <= 0 {
		return 0, &domain.ErrExternalService{
			Service: "rates",
			Err:     fmt.Errorf("non-numeric sell rate in quote"),
		}
	}

	span.SetAttributes(attribute.Float64("rate.venta", quote.Venta))
	return quote.Venta, nil
}
