package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLatestPrices(t *testing.T) {
	quotes := map[string]string{
		"AAPL": "185.64",
		"MSFT": "370.87",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Path[len("/v1/quote/"):]
		price, ok := quotes[symbol]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(quoteResponse{Symbol: symbol, Price: price})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zerolog.Nop())

	t.Run("fetches quotes per symbol", func(t *testing.T) {
		prices, err := client.LatestPrices(context.Background(), []string{"AAPL", "MSFT"})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(185.64).Equal(prices["AAPL"]))
		assert.True(t, decimal.NewFromFloat(370.87).Equal(prices["MSFT"]))
	})

	t.Run("unknown symbol prices at zero", func(t *testing.T) {
		prices, err := client.LatestPrices(context.Background(), []string{"AAPL", "MISSING"})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(185.64).Equal(prices["AAPL"]))
		assert.True(t, prices["MISSING"].IsZero())
	})

	t.Run("empty symbol list yields empty snapshot", func(t *testing.T) {
		prices, err := client.LatestPrices(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, prices)
	})

	t.Run("cancelled context aborts the fetch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.LatestPrices(ctx, []string{"AAPL"})
		require.Error(t, err)
	})
}

func TestClientMalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol": "AAPL", "price": "not-a-number"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zerolog.Nop())

	prices, err := client.LatestPrices(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.True(t, prices["AAPL"].IsZero())
}
