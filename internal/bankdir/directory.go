// Package bankdir looks up Vietnamese banks in the VietQR directory and builds
// display-only transfer QR image URLs.
//
// The remote list is cached in-process. Calls go through a circuit breaker and
// a bounded retry, and a built-in list is served whenever the remote call
// fails, so lookups never block past the configured timeout. Concurrent
// lookups share one remote call.
package bankdir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/metrics"
	"github.com/mmynk/groupsplit/internal/models"
)

const (
	// DefaultURL is the public VietQR bank list endpoint.
	DefaultURL = "https://api.vietqr.io/v2/banks"
	// DefaultTTL is how long a fetched list is served from cache.
	DefaultTTL = time.Hour
	// DefaultTimeout bounds one lookup, retries included.
	DefaultTimeout = 5 * time.Second
	// DefaultMaxTries is the number of attempts per lookup.
	DefaultMaxTries = 3

	successCode = "00"
)

// Lookup sources recorded in metrics and logs.
const (
	SourceCache    = "cache"
	SourceRemote   = "remote"
	SourceStale    = "stale"
	SourceFallback = "fallback"
)

// Config configures a Directory. Zero values take the defaults above; an empty
// URL disables remote lookups and always serves the built-in list.
type Config struct {
	URL      string
	TTL      time.Duration
	Timeout  time.Duration
	MaxTries uint

	// RetryInterval is the first backoff delay between attempts.
	RetryInterval time.Duration
}

// Directory is a cached bank directory. It is safe for concurrent use.
type Directory struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	now     func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	banks     []models.Bank
	fetchedAt time.Time
}

// Option configures a Directory.
type Option func(*Directory)

// WithHTTPClient sets the client used for remote lookups.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Directory) { d.client = c }
}

// WithMetrics records lookups and breaker state into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Directory) { d.metrics = m }
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// New creates a Directory.
func New(cfg Config, opts ...Option) *Directory {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = DefaultMaxTries
	}

	d := &Directory{
		cfg:    cfg,
		client: http.DefaultClient,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "bank-directory",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
			if d.metrics != nil {
				d.metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
			}
		},
	})
	return d
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (d *Directory) record(source string) {
	if d.metrics != nil {
		d.metrics.BankLookups.WithLabelValues(source).Inc()
	}
}

// Banks returns the bank list. A list fetched within the TTL is served from
// cache; otherwise the remote directory is queried. When that fails the last
// fetched list is served if there is one, else the built-in list. Banks never
// returns an empty list.
func (d *Directory) Banks(ctx context.Context) []models.Bank {
	d.mu.Lock()
	if len(d.banks) > 0 && d.now().Sub(d.fetchedAt) < d.cfg.TTL {
		banks := append([]models.Bank(nil), d.banks...)
		d.mu.Unlock()
		d.record(SourceCache)
		return banks
	}
	d.mu.Unlock()

	if d.cfg.URL != "" {
		banks, err := d.refresh(ctx)
		if err == nil {
			d.record(SourceRemote)
			return append([]models.Bank(nil), banks...)
		}
		slog.Warn("Bank directory lookup failed", "error", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.banks) > 0 {
		d.record(SourceStale)
		return append([]models.Bank(nil), d.banks...)
	}
	d.record(SourceFallback)
	return FallbackBanks()
}

// refresh fetches the remote list once for all concurrent callers. A caller
// whose context ends stops waiting; the shared fetch runs on until its own
// timeout and still fills the cache.
func (d *Directory) refresh(ctx context.Context) ([]models.Bank, error) {
	ch := d.group.DoChan("banks", func() (interface{}, error) {
		banks, err := d.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.banks = banks
		d.fetchedAt = d.now()
		d.mu.Unlock()
		slog.Info("Bank directory refreshed", "count", len(banks))
		return banks, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Bank), nil
	case <-ctx.Done():
		return nil, apperrors.Timeout("bank directory lookup abandoned", ctx.Err())
	}
}

// Find returns the banks whose BIN, code, name or short name contains query,
// case-insensitively. An empty query returns every bank.
func (d *Directory) Find(ctx context.Context, query string) []models.Bank {
	banks := d.Banks(ctx)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return banks
	}

	var matches []models.Bank
	for _, b := range banks {
		for _, field := range []string{b.BIN, b.Code, b.Name, b.ShortName} {
			if strings.Contains(strings.ToLower(field), q) {
				matches = append(matches, b)
				break
			}
		}
	}
	return matches
}

// ByBIN returns the bank with the given BIN.
func (d *Directory) ByBIN(ctx context.Context, bin string) (models.Bank, bool) {
	for _, b := range d.Banks(ctx) {
		if b.BIN == bin {
			return b, true
		}
	}
	return models.Bank{}, false
}

// remoteBank is one entry of the VietQR list. IDs are numeric upstream and
// strings in the built-in list.
type remoteBank struct {
	ID                any    `json:"id"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	BIN               string `json:"bin"`
	ShortName         string `json:"shortName"`
	Logo              string `json:"logo"`
	TransferSupported int    `json:"transferSupported"`
	LookupSupported   int    `json:"lookupSupported"`
	SwiftCode         string `json:"swift_code"`
}

// bankListResponse is the VietQR list payload. Data is either the bank array
// itself or an object holding it under "banks".
type bankListResponse struct {
	Code string          `json:"code"`
	Desc string          `json:"desc"`
	Data json.RawMessage `json:"data"`
}

func (r bankListResponse) banks() ([]remoteBank, error) {
	var list []remoteBank
	if err := json.Unmarshal(r.Data, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Banks []remoteBank `json:"banks"`
	}
	if err := json.Unmarshal(r.Data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Banks, nil
}

func (d *Directory) fetch(ctx context.Context) ([]models.Bank, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	result, err := d.breaker.Execute(func() (interface{}, error) {
		b := backoff.NewExponentialBackOff()
		if d.cfg.RetryInterval > 0 {
			b.InitialInterval = d.cfg.RetryInterval
		}
		return backoff.Retry(ctx, func() ([]models.Bank, error) {
			return d.fetchOnce(ctx)
		},
			backoff.WithBackOff(b),
			backoff.WithMaxTries(d.cfg.MaxTries),
		)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.Timeout("bank directory lookup timed out", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "bank directory unavailable", err)
	}
	return result.([]models.Bank), nil
}

func (d *Directory) fetchOnce(ctx context.Context) ([]models.Bank, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch banks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("bank directory returned %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("bank directory returned %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var payload bankListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode banks: %w", err))
	}
	if payload.Code != successCode {
		return nil, backoff.Permanent(fmt.Errorf("unexpected bank directory response: code=%q desc=%q", payload.Code, payload.Desc))
	}
	list, err := payload.banks()
	if err != nil || len(list) == 0 {
		return nil, backoff.Permanent(fmt.Errorf("bank directory response has no banks: %q", payload.Desc))
	}

	banks := make([]models.Bank, 0, len(list))
	for _, b := range list {
		banks = append(banks, models.Bank{
			ID:                formatID(b.ID),
			Name:              b.Name,
			Code:              b.Code,
			BIN:               b.BIN,
			ShortName:         b.ShortName,
			Logo:              b.Logo,
			TransferSupported: b.TransferSupported,
			LookupSupported:   b.LookupSupported,
			SwiftCode:         b.SwiftCode,
		})
	}
	return banks, nil
}

func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprint(id)
	}
}
