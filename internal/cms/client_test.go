package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, ttl time.Duration) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL:  srv.URL + "/api/v1",
		APIKey:   "secret-key",
		Timeout:  time.Second,
		CacheTTL: ttl,
	}, zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })
	return client, &hits
}

func TestFetchObjectSendsAPIKey(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/home", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-MICROCMS-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"concept_title_en":"Concept","concept_title_jp":"コンセプト"}`))
	}, 0)

	rec := client.FetchObject(context.Background(), "home")
	require.NotNil(t, rec)
	assert.Equal(t, "コンセプト", rec["concept_title_jp"])
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchListReadsContents(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/gallery", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "-publishedAt", r.URL.Query().Get("orders"))
		_, _ = w.Write([]byte(`{"contents":[{"id":"a","category":["GOLD"]},null,{"id":"b"}],"totalCount":2,"offset":0,"limit":100}`))
	}, 0)

	list := client.FetchList(context.Background(), "gallery", ListOptions{Orders: "-publishedAt"})
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0]["id"])
	assert.Equal(t, "b", list[1]["id"])
}

func TestFetchFailuresYieldEmptyResults(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, _ *http.Request) {
			http.NotFound(w, nil)
		}},
		{"malformed json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"contents":[`))
		}},
		{"array body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[1,2,3]`))
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, tc.handler, 0)

			assert.Nil(t, client.FetchObject(context.Background(), "home"))
			list := client.FetchList(context.Background(), "gallery", ListOptions{})
			require.NotNil(t, list)
			assert.Empty(t, list)
		})
	}
}

func TestUnconfiguredClientMakesNoRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, nil)
	assert.False(t, client.Configured())
	assert.Nil(t, client.FetchObject(context.Background(), "home"))
	list := client.FetchList(context.Background(), "gallery", ListOptions{})
	require.NotNil(t, list)
	assert.Empty(t, list)
	assert.Zero(t, hits.Load())

	assert.True(t, NewClient(Config{ServiceDomain: "saraobi", APIKey: "k"}, nil).Configured())
}

func TestInvalidEndpointRejected(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, 0)
	assert.Nil(t, client.FetchObject(context.Background(), "../admin"))
	assert.Nil(t, client.FetchObject(context.Background(), " "))
	assert.Zero(t, hits.Load())
}

func TestCacheServesRepeatFetches(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"image":{"url":"a"}}`))
	}, time.Minute)

	first := client.FetchObject(context.Background(), "home")
	require.NotNil(t, first)
	first["image"].(map[string]any)["url"] = "mutated"

	second := client.FetchObject(context.Background(), "home")
	require.NotNil(t, second)
	assert.Equal(t, "a", second["image"].(map[string]any)["url"])
	assert.Equal(t, int32(1), hits.Load())
}

func TestWithoutCacheEveryFetchHitsServer(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, 0)
	client.FetchObject(context.Background(), "home")
	client.FetchObject(context.Background(), "home")
	assert.Equal(t, int32(2), hits.Load())
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	c := newRecordCache(time.Minute)
	c.now = func() time.Time { return now }
	c.put("k", []byte("v"))

	got, ok := c.get("k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))

	now = now.Add(2 * time.Minute)
	_, ok = c.get("k")
	assert.False(t, ok)

	var disabled *recordCache
	disabled.put("k", []byte("v"))
	_, ok = disabled.get("k")
	assert.False(t, ok)
}

func TestOptimizeImage(t *testing.T) {
	t.Parallel()

	got := OptimizeImage("https://images.microcms-assets.io/assets/x/hero.jpg", 1200)
	assert.Equal(t, "https://images.microcms-assets.io/assets/x/hero.jpg?fm=webp&q=85&w=1200", got)

	assert.Equal(t, "https://example.com/a.jpg", OptimizeImage("https://example.com/a.jpg", 800))
	assert.Equal(t, "", OptimizeImage("  ", 800))
	assert.Equal(t, "://bad", OptimizeImage("://bad", 800))
	assert.Contains(t, OptimizeImage("https://images.microcms-assets.io/a.png?w=10", 0), "w=10")
}
