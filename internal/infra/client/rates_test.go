package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TomyRioss/misstress/internal/infra/client"
	"github.com/TomyRioss/misstress/internal/infra/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.RatesClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return client.NewRatesClient(
		&http.Client{Timeout: 2 * time.Second},
		srv.URL,
		resilience.NewCircuitBreaker("rates-test"),
		resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond},
	)
}

func TestSellRate_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/dolares/blue" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"compra": 1400, "venta": 1450.5}`))
	})

	rate, err := c.SellRate(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rate != 1450.5 {
		t.Errorf("expected 1450.5, got %f", rate)
	}
}

func TestSellRate_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := c.SellRate(context.Background()); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestSellRate_MissingRate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"compra": 1400}`))
	})

	if _, err := c.SellRate(context.Background()); err == nil {
		t.Fatal("expected error on quote without a sell rate")
	}
}

func TestSellRate_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	if _, err := c.SellRate(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
