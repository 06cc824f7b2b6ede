package bankdir

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/metrics"
)

const remoteList = `{
  "code": "00",
  "desc": "Get Bank list successful! Total 2 banks",
  "data": [
    {"id": 17, "name": "Ngân hàng TMCP Công thương Việt Nam", "code": "ICB", "bin": "970415",
     "shortName": "VietinBank", "logo": "https://api.vietqr.io/img/ICB.png",
     "transferSupported": 1, "lookupSupported": 1, "swift_code": "ICBVVNVX"},
    {"id": 43, "name": "Ngân hàng TMCP Ngoại Thương Việt Nam", "code": "VCB", "bin": "970436",
     "shortName": "Vietcombank", "logo": "https://api.vietqr.io/img/VCB.png",
     "transferSupported": 1, "lookupSupported": 1, "swift_code": null}
  ]
}`

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func newDirectory(url string, clock *fakeClock, opts ...Option) *Directory {
	cfg := Config{URL: url, TTL: time.Hour, Timeout: 2 * time.Second, MaxTries: 2, RetryInterval: time.Millisecond}
	return New(cfg, append([]Option{WithClock(clock.now)}, opts...)...)
}

func TestBanks_CachesWithinTTL(t *testing.T) {
	srv, calls := newServer(t, okHandler(remoteList))
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := metrics.New()
	d := newDirectory(srv.URL, clock, WithMetrics(m))
	ctx := context.Background()

	banks := d.Banks(ctx)
	require.Len(t, banks, 2)
	assert.Equal(t, "17", banks[0].ID)
	assert.Equal(t, "ICBVVNVX", banks[0].SwiftCode)

	clock.advance(59 * time.Minute)
	d.Banks(ctx)
	assert.Equal(t, int32(1), calls.Load())

	clock.advance(2 * time.Minute)
	d.Banks(ctx)
	assert.Equal(t, int32(2), calls.Load())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BankLookups.WithLabelValues(SourceRemote)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BankLookups.WithLabelValues(SourceCache)))
}

func TestBanks_ConcurrentCallersShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	srv, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		okHandler(remoteList)(w, r)
	})
	d := newDirectory(srv.URL, &fakeClock{t: time.Unix(1_700_000_000, 0)})

	const callers = 8
	var started, done sync.WaitGroup
	results := make([][]string, callers)
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			for _, b := range d.Banks(context.Background()) {
				results[i] = append(results[i], b.BIN)
			}
		}(i)
	}
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range results {
		assert.Equal(t, []string{"970415", "970436"}, results[i], "caller %d", i)
	}
}

func TestBanks_CallerStopsWaitingOnItsDeadline(t *testing.T) {
	release := make(chan struct{})
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		okHandler(remoteList)(w, r)
	})
	t.Cleanup(func() { close(release) })
	d := newDirectory(srv.URL, &fakeClock{t: time.Unix(1_700_000_000, 0)})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	banks := d.Banks(ctx)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, banks, len(FallbackBanks()))
}

func TestBanks_AcceptsWrappedList(t *testing.T) {
	srv, _ := newServer(t, okHandler(`{"code":"00","desc":"ok","data":{"banks":[{"id":"1","bin":"970422","code":"VIB"}]}}`))
	d := newDirectory(srv.URL, &fakeClock{t: time.Now()})

	banks := d.Banks(context.Background())
	require.Len(t, banks, 1)
	assert.Equal(t, "VIB", banks[0].Code)
}

func TestBanks_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		tries   int32
	}{
		{
			name: "server error is retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			tries: 2,
		},
		{
			name:    "bad response code is not retried",
			handler: okHandler(`{"code":"99","desc":"maintenance","data":[]}`),
			tries:   1,
		},
		{
			name:    "malformed body is not retried",
			handler: okHandler(`<html>`),
			tries:   1,
		},
		{
			name: "client error is not retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusForbidden)
			},
			tries: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newServer(t, tt.handler)
			d := newDirectory(srv.URL, &fakeClock{t: time.Now()})

			banks := d.Banks(context.Background())
			assert.Equal(t, FallbackBanks(), banks)
			assert.Equal(t, tt.tries, calls.Load())
		})
	}
}

func TestBanks_ServesStaleListWhenRefreshFails(t *testing.T) {
	var failing atomic.Bool
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		okHandler(remoteList)(w, r)
	})
	clock := &fakeClock{t: time.Now()}
	d := newDirectory(srv.URL, clock)
	ctx := context.Background()

	require.Len(t, d.Banks(ctx), 2)
	failing.Store(true)
	clock.advance(2 * time.Hour)

	banks := d.Banks(ctx)
	require.Len(t, banks, 2)
	assert.Equal(t, "ICB", banks[0].Code)
}

func TestBanks_NoURLServesFallback(t *testing.T) {
	d := New(Config{})
	assert.Len(t, d.Banks(context.Background()), 8)
}

func TestFetch_TimeoutIsDistinct(t *testing.T) {
	release := make(chan struct{})
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	d := New(Config{URL: srv.URL, Timeout: 50 * time.Millisecond, MaxTries: 1})
	_, err := d.fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)

	// Banks still answers.
	assert.Len(t, d.Banks(context.Background()), 8)
}

func TestFind(t *testing.T) {
	d := New(Config{})
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{"vcb", []string{"VCB"}},
		{"9704", []string{"VCB", "ICB", "BIDV", "TCB", "HDB", "TPB", "MB", "VIB"}},
		{"970432", []string{"MB"}},
		{"tiên phong", []string{"TPB"}},
		{"BANK", []string{"VCB", "ICB", "TCB", "HDB", "TPB", "MB"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var codes []string
			for _, b := range d.Find(ctx, tt.query) {
				codes = append(codes, b.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}

	assert.Len(t, d.Find(ctx, "  "), 8)
}
