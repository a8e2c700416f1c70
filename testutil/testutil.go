// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/pokepoll/catalog"
	"github.com/danielhkuo/pokepoll/cliparse"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/store"
)

// SetupTestDB opens a fresh SQLite store in a temp dir with the full schema.
func SetupTestDB(t *testing.T) *store.SQLStore {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	s, err := store.Open(context.Background(), store.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Default()
	cfg.DatabaseURL = "file::memory:"
	cfg.AdminKeySalt = "test-admin-salt"
	cfg.IdentitySalt = ""
	return cfg
}

// Pokemon used across tests. Names are the catalog's canonical keys.
var (
	Pikachu   = models.ItemAttrs{Name: "pikachu", BaseExp: 112, Height: 4, Weight: 60, SpriteImgURL: "https://sprites.test/25.png"}
	Charizard = models.ItemAttrs{Name: "charizard", BaseExp: 267, Height: 17, Weight: 905, SpriteImgURL: "https://sprites.test/6.png"}
	Bulbasaur = models.ItemAttrs{Name: "bulbasaur", BaseExp: 64, Height: 7, Weight: 69, SpriteImgURL: "https://sprites.test/1.png"}
	MrMime    = models.ItemAttrs{Name: "mr-mime", BaseExp: 161, Height: 13, Weight: 545, SpriteImgURL: "https://sprites.test/122.png"}
)

// FakeCatalog serves a fixed set of items keyed by normalized name.
type FakeCatalog struct {
	mu    sync.Mutex
	items map[string]models.ItemAttrs
	// Err, when set, is returned for every lookup.
	Err   error
	calls atomic.Int32
}

// NewFakeCatalog returns a catalog knowing the given items, or the default
// test set when none are given.
func NewFakeCatalog(items ...models.ItemAttrs) *FakeCatalog {
	if len(items) == 0 {
		items = []models.ItemAttrs{Pikachu, Charizard, Bulbasaur, MrMime}
	}
	c := &FakeCatalog{items: make(map[string]models.ItemAttrs)}
	for _, item := range items {
		c.items[item.Name] = item
	}
	return c
}

// Alias makes name resolve to the same entry as canonical.
func (c *FakeCatalog) Alias(name, canonical string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[catalog.Normalize(name)] = c.items[canonical]
}

func (c *FakeCatalog) FetchItem(ctx context.Context, name string) (models.ItemAttrs, error) {
	c.calls.Add(1)
	if c.Err != nil {
		return models.ItemAttrs{}, c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[catalog.Normalize(name)]
	if !ok {
		return models.ItemAttrs{}, models.Errorf(models.ErrNotFound, "could not find item %s", strings.TrimSpace(name))
	}
	return item, nil
}

// Calls returns how many lookups were made.
func (c *FakeCatalog) Calls() int {
	return int(c.calls.Load())
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
