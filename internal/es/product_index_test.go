package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_shopping/internal/models"
	"github.com/Skotchmaster/online_shopping/pkg/config"
)

type fakeCluster struct {
	indexed    map[string]map[string]any
	lastSearch map[string]any
	failSearch bool
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasPrefix(r.URL.Path, "/products/_doc/") && r.Method == http.MethodPut:
		id := strings.TrimPrefix(r.URL.Path, "/products/_doc/")
		var doc map[string]any
		_ = json.NewDecoder(r.Body).Decode(&doc)
		f.indexed[id] = doc
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case strings.HasPrefix(r.URL.Path, "/products/_doc/") && r.Method == http.MethodDelete:
		id := strings.TrimPrefix(r.URL.Path, "/products/_doc/")
		if _, ok := f.indexed[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		delete(f.indexed, id)
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case r.URL.Path == "/products/_search":
		if f.failSearch {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"boom"}`)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&f.lastSearch)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":12},"hits":[
			{"_source":{"id":3,"name":"Green Tea","price":"4.50","category":"kitchen"}}
		]}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestIndex(t *testing.T) (*ProductIndex, *fakeCluster) {
	t.Helper()
	cluster := &fakeCluster{indexed: map[string]map[string]any{}}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), config.Config{ElasticURL: srv.URL})
	require.NoError(t, err)
	return &ProductIndex{Client: client, Name: "products"}, cluster
}

func TestProductIndex_IndexAndRemove(t *testing.T) {
	idx, cluster := newTestIndex(t)
	ctx := context.Background()

	prod := &models.Product{ID: 5, Name: "Lamp", Price: decimal.RequireFromString("12.00")}
	require.NoError(t, idx.Index(ctx, prod))
	require.Contains(t, cluster.indexed, "5")
	assert.Equal(t, "Lamp", cluster.indexed["5"]["name"])

	require.NoError(t, idx.Remove(ctx, 5))
	assert.NotContains(t, cluster.indexed, "5")

	assert.NoError(t, idx.Remove(ctx, 9), "missing document is ignored")
}

func TestProductIndex_Search(t *testing.T) {
	idx, cluster := newTestIndex(t)

	total, items, err := idx.Search(context.Background(), "tea", 10, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, items, 1)
	assert.EqualValues(t, 3, items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("4.50")))

	assert.EqualValues(t, 10, cluster.lastSearch["from"])
	assert.EqualValues(t, 5, cluster.lastSearch["size"])
	mm := cluster.lastSearch["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "tea", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
}

func TestProductIndex_SearchError(t *testing.T) {
	idx, cluster := newTestIndex(t)
	cluster.failSearch = true

	_, _, err := idx.Search(context.Background(), "tea", 0, 10)
	assert.Error(t, err)
}
