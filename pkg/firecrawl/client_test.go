package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc, opts ...Option) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-api-key", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	return srv, c
}

func TestScrape(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantTitle  string
		wantURL    string
		wantMD     string
		wantErr    bool
		wantAPIErr bool
		wantStatus int
	}{
		{
			name: "happy path",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/scrape", r.URL.Path)
				assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req ScrapeRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "https://example.com/about", req.URL)
				assert.Equal(t, []string{"markdown"}, req.Formats)

				json.NewEncoder(w).Encode(ScrapeResponse{
					Success: true,
					Data: PageData{
						URL:        "https://example.com/about",
						Markdown:   "# About Us",
						Title:      "About",
						StatusCode: 200,
					},
				})
			},
			wantTitle: "About",
			wantURL:   "https://example.com/about",
			wantMD:    "# About Us",
		},
		{
			name: "metadata only",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":true,"data":{"markdown":"# Docs","metadata":{"title":"Docs","sourceURL":"https://example.com/docs","statusCode":200}}}`))
			},
			wantTitle: "Docs",
			wantURL:   "https://example.com/docs",
			wantMD:    "# Docs",
		},
		{
			name: "unsuccessful body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":false,"error":"blocked by robots.txt"}`))
			},
			wantErr: true,
		},
		{
			name: "auth error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
			},
			wantErr:    true,
			wantAPIErr: true,
			wantStatus: 401,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limited"}`))
			},
			wantErr:    true,
			wantAPIErr: true,
			wantStatus: 429,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, tt.handler)
			resp, err := c.Scrape(context.Background(), ScrapeRequest{
				URL:     "https://example.com/about",
				Formats: []string{"markdown"},
			})

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantAPIErr {
					var apiErr *APIError
					require.ErrorAs(t, err, &apiErr)
					assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				}
				return
			}
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.wantTitle, resp.Data.PageTitle())
			assert.Equal(t, tt.wantURL, resp.Data.PageURL())
			assert.Equal(t, 200, resp.Data.PageStatus())
			assert.Equal(t, tt.wantMD, resp.Data.Markdown)
		})
	}
}

func TestScrape_UnsuccessfulMessage(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"blocked by robots.txt"}`))
	})

	_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked by robots.txt")
}

func TestContextCancellation(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Should never reach here
		t.Fatal("request should have been cancelled")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.Scrape(ctx, ScrapeRequest{URL: "https://example.com"})
	require.Error(t, err)
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()
	e := &APIError{StatusCode: 429, Body: `{"error":"rate limited"}`}
	assert.Equal(t, `firecrawl: HTTP 429: {"error":"rate limited"}`, e.Error())
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()
	customClient := &http.Client{}
	c := NewClient("key", WithHTTPClient(customClient))
	hc := c.(*httpClient)
	assert.Equal(t, customClient, hc.http)
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()
	c := NewClient("key", WithTimeout(5*time.Second)).(*httpClient)
	assert.Equal(t, 5*time.Second, c.http.Timeout)

	c = NewClient("key", WithTimeout(0)).(*httpClient)
	assert.Equal(t, 60*time.Second, c.http.Timeout)
}

func TestWithRateLimit(t *testing.T) {
	t.Parallel()
	c := NewClient("key", WithRateLimit(2)).(*httpClient)
	require.NotNil(t, c.limiter)
	assert.InDelta(t, 2.0, float64(c.limiter.Limit()), 0.001)
	assert.Equal(t, 2, c.limiter.Burst())

	c = NewClient("key", WithRateLimit(0)).(*httpClient)
	assert.Nil(t, c.limiter)
}

func TestRateLimitedScrapeSucceeds(t *testing.T) {
	calls := 0
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"success":true,"data":{"markdown":"ok"}}`))
	}, WithRateLimit(100))

	for range 3 {
		_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestMalformedJSON(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{not json`))
	})

	_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
