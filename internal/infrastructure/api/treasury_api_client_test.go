package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func rateServer(t *testing.T, recordDate, rate string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("filter"), "country:eq:")
		assert.Contains(t, r.URL.Query().Get("filter"), "record_date:lte:")
		assert.Equal(t, "-record_date", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":[{"country":"Euro Zone","exchange_rate":%q,"record_date":%q}]}`, rate, recordDate)
	}))
}

func newTestClient(baseURL string) *TreasuryAPIClient {
	return NewTreasuryAPIClient(baseURL, nil, logger.NewJSONLogger(nil, logger.ErrorLevel))
}

func TestGetRate(t *testing.T) {
	ctx := context.Background()
	refDate := time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Returns the most recent rate on or before the date", func(t *testing.T) {
		server := rateServer(t, "2023-06-30", "0.85")
		defer server.Close()

		rate, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.NoError(t, err)
		assert.Equal(t, "EUR", rate.Currency)
		assert.Equal(t, "0.85", rate.Rate.String())
		assert.Equal(t, time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), rate.Date)
	})

	t.Run("Normalizes the currency code", func(t *testing.T) {
		server := rateServer(t, "2023-06-30", "0.85")
		defer server.Close()

		rate, err := newTestClient(server.URL).GetRate(ctx, " eur ", refDate)

		assert.NoError(t, err)
		assert.Equal(t, "EUR", rate.Currency)
	})

	t.Run("Rate dated exactly six months before is accepted", func(t *testing.T) {
		server := rateServer(t, "2023-01-15", "0.85")
		defer server.Close()

		rate, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), rate.Date)
	})

	t.Run("Rate one day older than the window is rejected", func(t *testing.T) {
		server := rateServer(t, "2023-01-14", "0.85")
		defer server.Close()

		_, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConversionUnavailable, apperr.KindOf(err))
	})

	t.Run("Rate dated after the reference date is rejected", func(t *testing.T) {
		server := rateServer(t, "2023-07-16", "0.85")
		defer server.Close()

		_, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConversionUnavailable, apperr.KindOf(err))
	})

	t.Run("Unsupported currency is invalid without a request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("rate source should not be contacted for unsupported currencies")
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetRate(ctx, "XYZ", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindInvalidValue, apperr.KindOf(err))
	})

	t.Run("Empty data set is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[]}`)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConversionUnavailable, apperr.KindOf(err))
	})

	t.Run("Malformed rate value is unavailable", func(t *testing.T) {
		server := rateServer(t, "2023-06-30", "not-a-number")
		defer server.Close()

		_, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConversionUnavailable, apperr.KindOf(err))
	})

	t.Run("Malformed date value is unavailable", func(t *testing.T) {
		server := rateServer(t, "June 30th", "0.85")
		defer server.Close()

		_, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConversionUnavailable, apperr.KindOf(err))
	})

	t.Run("Non-positive rate is unavailable", func(t *testing.T) {
		server := rateServer(t, "2023-06-30", "0")
		defer server.Close()

		_, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConversionUnavailable, apperr.KindOf(err))
	})

	t.Run("Server errors are translated, not leaked", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConversionUnavailable, apperr.KindOf(err))
	})

	t.Run("Transport failures are translated, not leaked", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused from here on

		_, err := newTestClient(server.URL).GetRate(ctx, "EUR", refDate)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConversionUnavailable, apperr.KindOf(err))
	})
}
