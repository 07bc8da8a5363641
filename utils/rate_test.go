package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateServiceCachesPrice(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"symbol":"USDTRUB","price":"95.12700000"}`))
	}))
	defer srv.Close()

	rates := NewRateService(srv.URL, time.Minute)
	rate, err := rates.USDTRUB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "95.13", rate.String())

	_, err = rates.USDTRUB(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRateServiceRefetchesAfterTTL(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"symbol":"USDTRUB","price":"90"}`))
	}))
	defer srv.Close()

	rates := NewRateService(srv.URL, 0)
	for i := 0; i < 3; i++ {
		_, err := rates.USDTRUB(context.Background())
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, calls.Load())
}

func TestRateServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusServiceUnavailable, `{}`},
		{"bad json", http.StatusOK, `not json`},
		{"bad price", http.StatusOK, `{"price":"n/a"}`},
		{"zero price", http.StatusOK, `{"price":"0"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRateService(srv.URL, time.Minute).USDTRUB(context.Background())
			assert.Error(t, err)
		})
	}
}
