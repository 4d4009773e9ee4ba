package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(t *testing.T, status int, body string) (*httptest.Server, url.Values) {
	t.Helper()
	got := url.Values{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range r.URL.Query() {
			got[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestFetchConvertsOunceToGram(t *testing.T) {
	// 0.0005 oz per USD -> 2000 USD per oz.
	srv, query := feed(t, http.StatusOK, `{"success":true,"base":"USD","timestamp":1700000000,"rates":{"XAU":0.0005}}`)

	q, err := NewClient("key-123", srv.URL).Fetch(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 2000/31.1035, q.PricePerGram, 1e-9)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), q.Timestamp)

	assert.Equal(t, "key-123", query.Get("api_key"))
	assert.Equal(t, "USD", query.Get("base"))
	assert.Equal(t, "XAU", query.Get("currencies"))
}

func TestGramsPerTroyOunce(t *testing.T) {
	assert.Equal(t, 31.1035, GramsPerTroyOunce)
	assert.Equal(t, 1.0, PerGram(31.1035))
}

func TestFetchMissingKey(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	_, err := NewClient("", srv.URL).Fetch(context.Background())
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "METAL_PRICE_API_KEY", cerr.Missing)
	assert.Zero(t, calls)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv, _ := feed(t, http.StatusTooManyRequests, `{"success":false}`)

	_, err := NewClient("k", srv.URL).Fetch(context.Background())
	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, http.StatusTooManyRequests, uerr.StatusCode)
}

func TestFetchLogicalFailure(t *testing.T) {
	srv, _ := feed(t, http.StatusOK, `{"success":false,"error":{"statusCode":101,"message":"invalid api key"}}`)

	_, err := NewClient("k", srv.URL).Fetch(context.Background())
	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Zero(t, uerr.StatusCode)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestFetchBadPayloads(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"success":true,"rates":{}}`,
		`{"success":true,"rates":{"XAU":0}}`,
		`{"success":true,"rates":{"XAU":-1}}`,
	} {
		srv, _ := feed(t, http.StatusOK, body)
		_, err := NewClient("k", srv.URL).Fetch(context.Background())
		var uerr *UpstreamError
		assert.True(t, errors.As(err, &uerr), body)
	}
}

func TestFetchTransportError(t *testing.T) {
	srv, _ := feed(t, http.StatusOK, `{}`)
	addr := srv.URL
	srv.Close()

	_, err := NewClient("k", addr).Fetch(context.Background())
	var uerr *UpstreamError
	assert.True(t, errors.As(err, &uerr))
}

func TestFetchHonoursContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient("k", srv.URL).Fetch(ctx)
	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
