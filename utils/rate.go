package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultRateURL = "https://api.binance.com/api/v3/ticker/price?symbol=USDTRUB"

// serviceError is returned when the rate source answers with a non-200 status.
type serviceError struct {
	StatusCode int
	Message    string
}

func (e *serviceError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// RateService fetches the USDT/RUB rate and caches it for ttl.
type RateService struct {
	httpClient *http.Client
	url        string
	ttl        time.Duration

	mu        sync.Mutex
	rate      decimal.Decimal
	expiresAt time.Time
}

func NewRateService(url string, ttl time.Duration) *RateService {
	if url == "" {
		url = DefaultRateURL
	}
	return &RateService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        url,
		ttl:        ttl,
	}
}

// USDTRUB returns the number of roubles per USDT rounded to kopecks.
func (s *RateService) USDTRUB(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Now().Before(s.expiresAt) {
		return s.rate, nil
	}

	rate, err := s.fetch(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	s.rate = rate
	s.expiresAt = time.Now().Add(s.ttl)
	return rate, nil
}

func (s *RateService) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("request to rate source failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &serviceError{
			StatusCode: resp.StatusCode,
			Message:    "bad response from rate source",
		}
	}

	var data tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse rate response: %w", err)
	}

	price, err := decimal.NewFromString(data.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price format from rate source: %w", err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate source returned non-positive price %s", data.Price)
	}

	return price.Round(RubPlaces), nil
}
