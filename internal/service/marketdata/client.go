// Package marketdata fetches fed-funds futures quotes and the current target
// band from public chart and data APIs, behind a TTL cache and a token-bucket
// limiter on outbound requests.
package marketdata

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"RateWatch/internal/domain/models"
	"RateWatch/internal/domain/repository"
	"RateWatch/internal/service/ratelimit"
	"RateWatch/pkg/cache"
	"RateWatch/pkg/config"
	xhttp "RateWatch/pkg/http"
	"RateWatch/pkg/logger"
)

const (
	futuresCacheKey  = "marketdata:futures"
	targetCacheKey   = "marketdata:target_rate"
	historicalPrefix = "marketdata:historical"

	limiterKey = "outbound"
	lockTTL    = 30 * time.Second

	seriesUpper = "DFEDTARU"
	seriesLower = "DFEDTARL"
)

// Client implements repository.MarketData against a Yahoo-style chart API
// (futures prices) and a FRED-style observations API (target band).
type Client struct {
	chartURL    string
	fredURL     string
	fredKey     string
	monthsAhead int
	maxRPS      float64
	fallback    models.TargetRateBand

	futuresTTL    time.Duration
	targetTTL     time.Duration
	historicalTTL time.Duration

	http    *xhttp.Client
	cache   cache.Service
	limiter *ratelimit.Limiter
	log     *logger.Logger
	metrics repository.Metrics
	now     func() time.Time
}

func NewClient(
	cfg *config.Config,
	httpClient *xhttp.Client,
	cacheSvc cache.Service,
	limiter *ratelimit.Limiter,
	log *logger.Logger,
	metrics repository.Metrics,
) *Client {
	md := cfg.MarketData
	return &Client{
		chartURL:      md.ChartURL,
		fredURL:       md.FredURL,
		fredKey:       md.FredAPIKey,
		monthsAhead:   md.MonthsAhead,
		maxRPS:        md.MaxRPS,
		fallback:      models.TargetRateBand{Lower: md.FallbackBand.Lower, Upper: md.FallbackBand.Upper},
		futuresTTL:    md.CacheTTL.Futures,
		targetTTL:     md.CacheTTL.TargetRate,
		historicalTTL: md.CacheTTL.Historical,
		http:          httpClient,
		cache:         cacheSvc,
		limiter:       limiter,
		log:           log,
		metrics:       metrics,
		now:           time.Now,
	}
}

// chartResponse is the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type fredResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FuturesPrices returns a quote per listed contract month, most recent close
// first converted to an implied rate. Contracts without usable prices are
// skipped; an empty slice is not an error.
func (c *Client) FuturesPrices(ctx context.Context) ([]models.FuturesQuote, error) {
	if cached, err := cache.GetJSON[[]models.FuturesQuote](ctx, c.cache, futuresCacheKey); err == nil {
		c.metrics.RecordCache("futures", true)
		return *cached, nil
	}
	c.metrics.RecordCache("futures", false)

	locked, _ := c.cache.TryLock(ctx, futuresCacheKey+":lock", lockTTL)

	quotes := make([]models.FuturesQuote, 0, c.monthsAhead+2)
	for _, cm := range ContractMonths(c.now(), c.monthsAhead) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		price, ok := c.latestClose(ctx, cm.Ticker)
		if !ok || price <= 0 {
			continue
		}
		implied := round4(100.0 - price)
		c.metrics.RecordImpliedRate(cm.Ticker, implied)
		quotes = append(quotes, models.FuturesQuote{
			Contract:    cm.Ticker,
			Month:       cm.Month,
			Year:        cm.Year,
			Price:       round4(price),
			ImpliedRate: implied,
		})
	}
	c.metrics.RecordFetch("futures")

	if locked {
		if err := cache.SetJSON(ctx, c.cache, futuresCacheKey, quotes, c.futuresTTL); err != nil {
			c.log.Warn("futures cache write failed", logger.Error(err))
		}
		if err := c.cache.Unlock(ctx, futuresCacheKey+":lock"); err != nil {
			c.log.Warn("futures cache unlock failed", logger.Error(err))
		}
	}

	c.log.Debug("fetched futures snapshot", logger.Int("contracts", len(quotes)))
	return quotes, nil
}

// TargetRate never fails: on a missing API key or any upstream problem it
// returns the configured fallback band, flagged as such.
func (c *Client) TargetRate(ctx context.Context) (models.TargetRateBand, models.DataSource) {
	if cached, err := cache.GetJSON[models.TargetRateBand](ctx, c.cache, targetCacheKey); err == nil {
		c.metrics.RecordCache("target_rate", true)
		return *cached, models.SourceLive
	}
	c.metrics.RecordCache("target_rate", false)

	if c.fredKey == "" {
		c.metrics.RecordFallback("target_rate")
		return c.fallback, models.SourceFallback
	}

	upper, errU := c.fredObservation(ctx, seriesUpper)
	lower, errL := c.fredObservation(ctx, seriesLower)
	if errU != nil || errL != nil || upper < lower {
		c.log.Warn("target band fetch failed, using fallback",
			logger.Error(firstErr(errU, errL)))
		c.metrics.RecordError("target_rate")
		c.metrics.RecordFallback("target_rate")
		return c.fallback, models.SourceFallback
	}
	c.metrics.RecordFetch("target_rate")

	band := models.TargetRateBand{Lower: lower, Upper: upper}
	if err := cache.SetJSON(ctx, c.cache, targetCacheKey, band, c.targetTTL); err != nil {
		c.log.Warn("target band cache write failed", logger.Error(err))
	}
	return band, models.SourceLive
}

// HistoricalFutures returns daily closes for the given contracts over the
// lookback window, aligned on a shared ascending date axis. Contracts that
// cannot be fetched are left out of the series map.
func (c *Client) HistoricalFutures(ctx context.Context, contracts []string, lookbackDays int) (*models.HistoricalPrices, error) {
	key := cache.GenerateKeyWithParams(historicalPrefix, contracts, lookbackDays)
	if cached, err := cache.GetJSON[models.HistoricalPrices](ctx, c.cache, key); err == nil {
		c.metrics.RecordCache("historical", true)
		return cached, nil
	}
	c.metrics.RecordCache("historical", false)

	locked, _ := c.cache.TryLock(ctx, key+":lock", lockTTL)

	rng := fmt.Sprintf("%dd", lookbackDays)
	closesByContract := make(map[string]map[string]*float64, len(contracts))
	dateSet := make(map[string]struct{})

	for _, ticker := range contracts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result, err := c.fetchChart(ctx, ticker, rng)
		if err != nil {
			c.log.Warn("historical fetch failed",
				logger.String("contract", ticker), logger.Error(err))
			c.metrics.RecordError("historical")
			continue
		}
		closes := dailyCloses(result)
		if len(closes) == 0 {
			continue
		}
		closesByContract[ticker] = closes
		for d := range closes {
			dateSet[d] = struct{}{}
		}
	}
	c.metrics.RecordFetch("historical")

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	hist := &models.HistoricalPrices{
		Dates:  dates,
		Series: make(map[string][]*float64, len(closesByContract)),
	}
	for ticker, closes := range closesByContract {
		aligned := make([]*float64, len(dates))
		for i, d := range dates {
			aligned[i] = closes[d]
		}
		hist.Series[ticker] = aligned
	}

	if locked {
		if err := cache.SetJSON(ctx, c.cache, key, hist, c.historicalTTL); err != nil {
			c.log.Warn("historical cache write failed", logger.Error(err))
		}
		if err := c.cache.Unlock(ctx, key+":lock"); err != nil {
			c.log.Warn("historical cache unlock failed", logger.Error(err))
		}
	}
	return hist, nil
}

// latestClose returns the most recent non-nil close over the past few days.
func (c *Client) latestClose(ctx context.Context, ticker string) (float64, bool) {
	result, err := c.fetchChart(ctx, ticker, "5d")
	if err != nil {
		c.log.Debug("no quote for contract",
			logger.String("contract", ticker), logger.Error(err))
		return 0, false
	}
	if len(result.Indicators.Quote) == 0 {
		return 0, false
	}
	closes := result.Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil {
			return *closes[i], true
		}
	}
	return 0, false
}

func (c *Client) fetchChart(ctx context.Context, ticker, rng string) (*chartResult, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.maxRPS, c.maxRPS); err != nil {
		return nil, err
	}

	var resp chartResponse
	err := c.http.GetJSON(ctx, c.chartURL+"/"+ticker, map[string][]string{
		"range":    {rng},
		"interval": {"1d"},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart api: %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart api: no result for %s", ticker)
	}
	return &resp.Chart.Result[0], nil
}

// dailyCloses maps ISO dates to closes for one chart result.
func dailyCloses(result *chartResult) map[string]*float64 {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	closes := result.Indicators.Quote[0].Close
	out := make(map[string]*float64, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}
		date := time.Unix(ts, 0).UTC().Format("2006-01-02")
		out[date] = closes[i]
	}
	return out
}

// fredObservation returns the latest value of a FRED series.
func (c *Client) fredObservation(ctx context.Context, seriesID string) (float64, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.maxRPS, c.maxRPS); err != nil {
		return 0, err
	}

	var resp fredResponse
	err := c.http.GetJSON(ctx, c.fredURL, map[string][]string{
		"series_id":  {seriesID},
		"api_key":    {c.fredKey},
		"file_type":  {"json"},
		"sort_order": {"desc"},
		"limit":      {"1"},
	}, &resp)
	if err != nil {
		return 0, err
	}
	if len(resp.Observations) == 0 {
		return 0, fmt.Errorf("fred: no observations for %s", seriesID)
	}
	v, err := strconv.ParseFloat(resp.Observations[0].Value, 64)
	if err != nil {
		return 0, fmt.Errorf("fred: bad value %q for %s", resp.Observations[0].Value, seriesID)
	}
	return v, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

var _ repository.MarketData = (*Client)(nil)
