// Package inventory содержит клиентов каталога и склада.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
	"github.com/vladislavdragonenkov/cartstore/internal/version"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client — HTTP-клиент REST API склада:
//
//	GET {base}/stock/{id}    -> {"id": 1, "amount": 3}
//	GET {base}/products/{id} -> {"id": 1, "title": "...", "price": 179.9, "image": "..."}
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient создаёт клиента. timeout <= 0 заменяется значением по умолчанию.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("inventory base url is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse inventory base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("inventory base url must be http(s), got %q", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		clone := *httpClient
		clone.Timeout = timeout
		httpClient = &clone
	}
	return &Client{baseURL: u, http: httpClient}, nil
}

// GetStock запрашивает остаток товара.
func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	var stock domain.Stock
	if err := c.get(ctx, "stock", productID, &stock); err != nil {
		return domain.Stock{}, err
	}
	if stock.Amount < 0 {
		return domain.Stock{}, fmt.Errorf("%w: negative stock %d for product %d", domain.ErrInventoryUnavailable, stock.Amount, productID)
	}
	stock.ProductID = productID
	return stock, nil
}

// GetProduct запрашивает карточку товара.
func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	var product domain.Product
	if err := c.get(ctx, "products", productID, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Client) get(ctx context.Context, resource string, productID int64, out any) error {
	endpoint := c.baseURL.JoinPath(resource, strconv.FormatInt(productID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent("inventory"))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: get %s/%d: %v", domain.ErrInventoryUnavailable, resource, productID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s/%d: %w", resource, productID, domain.ErrProductNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: get %s/%d: status %d", domain.ErrInventoryUnavailable, resource, productID, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s/%d: %v", domain.ErrInventoryUnavailable, resource, productID, err)
	}
	return nil
}

var _ domain.InventoryClient = (*Client)(nil)
