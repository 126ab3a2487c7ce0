// Package api implements the Treasury fiscal data client used as the
// exchange rate source.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the Treasury "Rates of Exchange" endpoint.
	DefaultBaseURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service/v1/accounting/od/rates_of_exchange"

	// rateValidityMonths is how far back a rate may be dated relative to
	// the reference date before it is considered stale. The boundary at
	// exactly this many months is still valid.
	rateValidityMonths = 6
)

// currencyToCountry maps supported ISO currency codes to the country
// names the Treasury API records rates under.
var currencyToCountry = map[string]string{
	"EUR": "Euro Zone",
	"GBP": "United Kingdom",
	"CAD": "Canada",
	"JPY": "Japan",
	"AUD": "Australia",
	"CHF": "Switzerland",
	"MXN": "Mexico",
	"CNY": "China",
	"INR": "India",
	"BRL": "Brazil",
	"KRW": "Korea",
	"SGD": "Singapore",
	"HKD": "Hong Kong",
	"SEK": "Sweden",
	"NOK": "Norway",
	"DKK": "Denmark",
	"NZD": "New Zealand",
	"ZAR": "South Africa",
	"THB": "Thailand",
	"PHP": "Philippines",
}

// TreasuryAPIClient fetches exchange rates from the Treasury fiscal data
// API. It is the only network collaborator; a single request is made per
// conversion with no retry loop.
type TreasuryAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewTreasuryAPIClient creates a new Treasury API client. An empty
// baseURL selects the production endpoint; a nil httpClient gets a
// 10-second timeout default.
func NewTreasuryAPIClient(baseURL string, httpClient *http.Client, log logger.Logger) *TreasuryAPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TreasuryAPIClient{baseURL: baseURL, httpClient: httpClient, logger: log}
}

// treasuryResponse is the subset of the Treasury API payload we consume.
type treasuryResponse struct {
	Data []struct {
		Country      string `json:"country"`
		ExchangeRate string `json:"exchange_rate"`
		RecordDate   string `json:"record_date"`
	} `json:"data"`
}

// GetRate returns the most recent rate for currency dated on or before
// date. Rates older than the validity window, dated after the reference
// date, or otherwise unusable fail with ConversionUnavailable.
func (c *TreasuryAPIClient) GetRate(ctx context.Context, currency string, date time.Time) (*entity.ExchangeRate, error) {
	normalized := strings.ToUpper(strings.TrimSpace(currency))

	country, ok := currencyToCountry[normalized]
	if !ok {
		return nil, apperr.Invalid("currency %s is not supported", normalized)
	}

	reqURL := c.buildRequestURL(country, date)

	c.logger.Debug("Requesting exchange rate", map[string]interface{}{
		"currency": normalized,
		"date":     date.Format("2006-01-02"),
		"url":      reqURL,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.ConversionUnavailable(err, "unable to retrieve exchange rate, please try again later")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Treasury API request failed", map[string]interface{}{
			"currency": normalized,
			"error":    err.Error(),
		})
		return nil, apperr.ConversionUnavailable(err, "unable to retrieve exchange rate, please try again later")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.ConversionUnavailable(err, "unable to retrieve exchange rate, please try again later")
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Treasury API returned error status", map[string]interface{}{
			"currency": normalized,
			"status":   resp.StatusCode,
		})
		return nil, apperr.ConversionUnavailable(
			fmt.Errorf("treasury API status %d", resp.StatusCode),
			"unable to retrieve exchange rate, please try again later")
	}

	var payload treasuryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.ConversionUnavailable(err, "unable to process exchange rate data, please try again later")
	}

	if len(payload.Data) == 0 {
		return nil, apperr.ConversionUnavailable(nil,
			"no exchange rate available for %s on or before %s", normalized, date.Format("2006-01-02"))
	}

	record := payload.Data[0]

	rateDate, err := time.Parse("2006-01-02", record.RecordDate)
	if err != nil {
		c.logger.Error("Treasury API returned invalid date", map[string]interface{}{
			"currency": normalized,
			"value":    record.RecordDate,
		})
		return nil, apperr.ConversionUnavailable(err, "unable to process exchange rate data, please try again later")
	}

	rate, err := decimal.NewFromString(record.ExchangeRate)
	if err != nil {
		c.logger.Error("Treasury API returned invalid rate", map[string]interface{}{
			"currency": normalized,
			"value":    record.ExchangeRate,
		})
		return nil, apperr.ConversionUnavailable(err, "unable to process exchange rate data, please try again later")
	}

	if rate.Sign() <= 0 {
		return nil, apperr.ConversionUnavailable(nil,
			"exchange rate for %s is not a positive value", normalized)
	}

	// The API filter already excludes future dates, but the payload is
	// not trusted: enforce the recency window on what actually came back.
	oldestValid := date.AddDate(0, -rateValidityMonths, 0)
	if rateDate.After(date) || rateDate.Before(oldestValid) {
		return nil, apperr.ConversionUnavailable(nil,
			"no exchange rate within %d months of %s for %s",
			rateValidityMonths, date.Format("2006-01-02"), normalized)
	}

	return &entity.ExchangeRate{Currency: normalized, Date: rateDate, Rate: rate}, nil
}

func (c *TreasuryAPIClient) buildRequestURL(country string, date time.Time) string {
	filter := fmt.Sprintf("record_date:lte:%s,country:eq:%s", date.Format("2006-01-02"), country)

	query := url.Values{}
	query.Set("filter", filter)
	query.Set("sort", "-record_date")
	query.Set("page[size]", "1")

	return c.baseURL + "?" + query.Encode()
}
