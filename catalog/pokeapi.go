// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package catalog resolves item names against PokeAPI.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gosimple/slug"
	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/pokepoll/metrics"
	"github.com/danielhkuo/pokepoll/models"
)

// DefaultBaseURL is the public PokeAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client looks items up in PokeAPI.
type Client struct {
	baseURL string
	client  *http.Client
	cache   Cache
	ttl     time.Duration
	group   singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithCache stores successful lookups in c for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.ttl = ttl
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) {
		cl.client = hc
	}
}

// NewClient creates a PokeAPI client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize turns a user-typed name into the catalog's key ("Mr. Mime" -> "mr-mime").
func Normalize(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// FetchItem returns the attributes for name. Unknown names yield a
// models.ErrNotFound error; transport and decoding failures yield
// models.ErrUnavailable. Concurrent lookups of the same name share one request.
func (c *Client) FetchItem(ctx context.Context, name string) (models.ItemAttrs, error) {
	key := Normalize(name)
	if key == "" {
		return models.ItemAttrs{}, models.Errorf(models.ErrNotFound, "could not find item %s", name)
	}

	if c.cache != nil {
		if attrs, ok := c.cache.Get(ctx, key); ok {
			metrics.CatalogLookups.WithLabelValues("cache_hit").Inc()
			return attrs, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		attrs, err := c.fetch(ctx, key, name)
		if err == nil && c.cache != nil {
			c.cache.Set(ctx, key, attrs, c.ttl)
		}
		return attrs, err
	})
	if err != nil {
		return models.ItemAttrs{}, err
	}
	return v.(models.ItemAttrs), nil
}

func (c *Client) fetch(ctx context.Context, key, name string) (models.ItemAttrs, error) {
	reqURL := c.baseURL + "/pokemon/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.ItemAttrs{}, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.CatalogLookups.WithLabelValues("error").Inc()
		slog.Warn("catalog request failed", "name", key, "error", err)
		return models.ItemAttrs{}, models.Unavailable("item catalog is unavailable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.CatalogLookups.WithLabelValues("not_found").Inc()
		return models.ItemAttrs{}, models.Errorf(models.ErrNotFound, "could not find item %s", name)
	case resp.StatusCode != http.StatusOK:
		metrics.CatalogLookups.WithLabelValues("error").Inc()
		slog.Warn("catalog returned unexpected status", "name", key, "status", resp.StatusCode)
		return models.ItemAttrs{}, models.Unavailable("item catalog is unavailable",
			fmt.Errorf("catalog status %d", resp.StatusCode))
	}

	var p pokemon
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		metrics.CatalogLookups.WithLabelValues("error").Inc()
		return models.ItemAttrs{}, models.Unavailable("item catalog is unavailable",
			fmt.Errorf("decode catalog response: %w", err))
	}

	metrics.CatalogLookups.WithLabelValues("fetched").Inc()

	attrs := models.ItemAttrs{
		Name:         p.Name,
		BaseExp:      p.BaseExperience,
		Height:       p.Height,
		Weight:       p.Weight,
		SpriteImgURL: p.Sprites.FrontDefault,
	}
	if attrs.Name == "" {
		attrs.Name = key
	}
	return attrs, nil
}

type pokemon struct {
	Name           string  `json:"name"`
	BaseExperience float64 `json:"base_experience"`
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
	Sprites        struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}
