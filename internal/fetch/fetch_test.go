package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobharvest/internal/cache"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(retries int) *Client {
	return NewClient(ClientOptions{
		Timeout:   2 * time.Second,
		Retries:   retries,
		BaseDelay: time.Millisecond,
	}, discardLogger())
}

func TestClientGetAppendsQuery(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{UserAgent: "jobharvest-test"}, discardLogger())
	body, err := c.Get(context.Background(), srv.URL+"/jobs", url.Values{"q": {"data intern"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, "q=data+intern", gotQuery)
	assert.Equal(t, "jobharvest-test", gotUA)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient(2).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "recovered")
	}))
	defer srv.Close()

	body, err := testClient(2).Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", body)
	assert.EqualValues(t, 2, calls.Load())
}

func TestClientSingleAttemptByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(0).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(nil))
	assert.False(t, isRetryable(context.Canceled))
	assert.True(t, isRetryable(&HTTPError{StatusCode: 429}))
	assert.True(t, isRetryable(&HTTPError{StatusCode: 500}))
	assert.False(t, isRetryable(&HTTPError{StatusCode: 403}))
	assert.True(t, isRetryable(fmt.Errorf("dial tcp: connection refused")))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
}

const listingHTML = `<html><body>
<div class="jobsearch-SerpJobCard"><a data-tn-element="jobTitle" href="/rc/clk?jk=1">Data Intern</a></div>
</body></html>`

func TestListingFetcherUsesCache(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var lastQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		mu.Lock()
		lastQuery = r.URL.Query()
		mu.Unlock()
		fmt.Fprint(w, listingHTML)
	}))
	defer srv.Close()

	store := cache.Open[string](filepath.Join(t.TempDir(), "job_postings.json"))
	f := NewListingFetcher(ListingOptions{
		BaseURL:  srv.URL + "/jobs",
		Query:    "data intern",
		Location: "United States",
		TTLDays:  15,
	}, testClient(0), store, discardLogger())

	ctx := context.Background()
	doc, err := f.FetchPage(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("div.jobsearch-SerpJobCard").Length())
	mu.Lock()
	assert.False(t, lastQuery.Has("start"))
	mu.Unlock()

	_, err = f.FetchPage(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load(), "second fetch served from cache")

	_, err = f.FetchPage(ctx, 10)
	require.NoError(t, err)
	mu.Lock()
	assert.Equal(t, "10", lastQuery.Get("start"))
	mu.Unlock()
	assert.EqualValues(t, 2, calls.Load())

	_, ok := store.Get(srv.URL + "/jobs?l-United States_q-data intern_start-10")
	assert.True(t, ok)
}

func TestListingFetcherDoesNotCacheFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := cache.Open[string](filepath.Join(t.TempDir(), "job_postings.json"))
	f := NewListingFetcher(ListingOptions{BaseURL: srv.URL, Query: "q", Location: "l", TTLDays: 15}, testClient(0), store, discardLogger())

	_, err := f.FetchPage(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestDetailFetcherKeyedByURL(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `<div class="jobsearch-JobComponent-description">Python and SQL</div>`)
	}))
	defer srv.Close()

	store := cache.Open[string](filepath.Join(t.TempDir(), "detail_pages.json"))
	f := NewDetailFetcher(15, testClient(0), store, discardLogger())

	u := srv.URL + "/rc/clk?jk=abc"
	for i := 0; i < 3; i++ {
		doc, err := f.FetchDetail(context.Background(), u)
		require.NoError(t, err)
		assert.Equal(t, "Python and SQL", doc.Find("div.jobsearch-JobComponent-description").Text())
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, []string{cache.NormalizeID(u)}, store.Keys())
}
