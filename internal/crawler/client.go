// Package crawler is a read-only gateway to the external store catalog. It
// passes listings through as-is: no caching, no retries, failures surface to
// the caller untouched.
package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items,omitempty"`
}

type Item struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID string          `json:"category_id"`
}

type StoreContent struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListStores(ctx context.Context) ([]Store, error) {
	var stores []Store
	if err := c.get(ctx, "/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *Client) GetStoreContent(ctx context.Context, storeID string) (*StoreContent, error) {
	var content StoreContent
	if err := c.get(ctx, "/stores/"+url.PathEscape(storeID), nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *Client) GetItems(ctx context.Context, categoryID string, itemIDs []string) ([]Item, error) {
	query := url.Values{}
	query.Set("category_id", categoryID)
	query.Set("item_ids", strings.Join(itemIDs, ","))

	var items []Item
	if err := c.get(ctx, "/items", query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("crawler: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("crawler: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("crawler: %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("crawler: decode %s: %w", path, err)
	}
	return nil
}
