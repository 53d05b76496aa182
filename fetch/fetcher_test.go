package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newsbrief/newsbrief/feed"
	"github.com/newsbrief/newsbrief/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Mirror Feed</title>
    <item>
      <title>An Entry</title>
      <link>https://example.com/entry</link>
    </item>
  </channel>
</rss>`

func testSource(feedURL string) model.Source {
	return model.Source{
		ID:       "test",
		Name:     "Test",
		FeedURL:  feedURL,
		Category: model.CategoryNews,
		Enabled:  true,
	}
}

func TestFetcher_Mirrors(t *testing.T) {
	f := New(feed.NewParser(), WithRelays("https://relay.test/raw?url=%s"))

	mirrors := f.Mirrors(testSource("https://example.com/rss?page=1"))
	require.Len(t, mirrors, 2)
	assert.Equal(t, "https://example.com/rss?page=1", mirrors[0], "direct endpoint comes first")
	assert.Equal(t, "https://relay.test/raw?url=https%3A%2F%2Fexample.com%2Frss%3Fpage%3D1", mirrors[1])
}

func TestFetcher_FetchSourceDirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, minimalRSS)
	}))
	defer srv.Close()

	f := New(feed.NewParser(), WithRelays())
	articles, err := f.FetchSource(context.Background(), testSource(srv.URL))
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "An Entry", articles[0].Title)
}

func TestFetcher_MirrorFallback(t *testing.T) {
	// Direct endpoint is down; relay serves the feed.
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	var relayHits int
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relayHits++
		assert.NotEmpty(t, r.URL.Query().Get("url"), "relay should receive the escaped feed URL")
		fmt.Fprint(w, minimalRSS)
	}))
	defer relay.Close()

	f := New(feed.NewParser(), WithRelays(relay.URL+"/raw?url=%s"))
	articles, err := f.FetchSource(context.Background(), testSource(down.URL))
	require.NoError(t, err)
	assert.Len(t, articles, 1)
	assert.Equal(t, 1, relayHits)
}

func TestFetcher_EmptyParseTriesNextMirror(t *testing.T) {
	// First mirror returns a 200 with unparseable junk; the relay has
	// the real feed. A successful HTTP status is not enough.
	junk := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not a feed</html>")
	}))
	defer junk.Close()

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, minimalRSS)
	}))
	defer relay.Close()

	f := New(feed.NewParser(), WithRelays(relay.URL+"/raw?url=%s"))
	articles, err := f.FetchSource(context.Background(), testSource(junk.URL))
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestFetcher_AllMirrorsFail(t *testing.T) {
	statuses := []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError}
	for _, status := range statuses {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			f := New(feed.NewParser(), WithRelays(srv.URL+"/relay?url=%s"))
			articles, err := f.FetchSource(context.Background(), testSource(srv.URL))
			assert.Error(t, err)
			assert.Empty(t, articles)
		})
	}
}

func TestFetcher_AttemptTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, minimalRSS)
	}))
	defer slow.Close()

	f := New(feed.NewParser(), WithRelays(), WithTimeout(20*time.Millisecond))
	_, err := f.FetchSource(context.Background(), testSource(slow.URL))
	assert.Error(t, err, "a slow mirror is abandoned after its timeout")
}

func TestFetcher_FetchAllSettlesEverySource(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, minimalRSS)
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	sources := []model.Source{
		testSource(good.URL),
		testSource(bad.URL),
		testSource(good.URL),
	}
	sources[1].ID = "dead"
	sources[2].ID = "other"

	f := New(feed.NewParser(), WithRelays())
	results := f.FetchAll(context.Background(), sources)
	require.Len(t, results, 3, "every source settles, success or failure")

	assert.NoError(t, results[0].Err)
	assert.Len(t, results[0].Articles, 1)

	assert.Error(t, results[1].Err, "a dead source fails quietly")
	assert.Empty(t, results[1].Articles)

	assert.NoError(t, results[2].Err, "a dead source never blocks its siblings")
	assert.Len(t, results[2].Articles, 1)
}

func TestFetcher_FetchAllEmptySourceList(t *testing.T) {
	f := New(feed.NewParser(), WithRelays())
	results := f.FetchAll(context.Background(), nil)
	assert.Empty(t, results)
}
