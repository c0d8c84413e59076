package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mkovac/erpsync/internal/config"
	"github.com/mkovac/erpsync/internal/domain"
)

// Client talks to the remote accounting API. It classifies responses into the
// taxonomy the sync engine branches on (not-found, conflict, rate-limited,
// server error) and absorbs one rate-limit round itself: on 429 it sleeps the
// configured delay and retries the identical request, up to a hard attempt
// cap. Callers decide whether to retry further.
type Client struct {
	http    *http.Client
	baseURL string
	orgID   int64
	limit   config.RateLimit
	logger  *zap.Logger
}

func New(cfg config.ERP, limit config.RateLimit, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if limit.MaxAttempts < 1 {
		limit.MaxAttempts = 1
	}
	return &Client{
		http:    httpClient,
		baseURL: cfg.BaseURL,
		orgID:   cfg.OrgID,
		limit:   limit,
		logger:  logger,
	}
}

func (c *Client) orgPath(path string) string {
	return fmt.Sprintf("%s/api/orgs/%d%s", c.baseURL, c.orgID, path)
}

// do issues one logical request. The loop is the bounded replacement for the
// retry-by-recursion the remote's 429 behaviour tends to provoke.
func (c *Client) do(ctx context.Context, token, method, rawURL string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.limit.MaxAttempts; attempt++ {
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%s %s: read body: %w", method, rawURL, err)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return respBody, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrNotFound
		case resp.StatusCode == http.StatusConflict:
			return nil, fmt.Errorf("%w: %s", domain.ErrConflict, respBody)
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = domain.ErrRateLimited
			if attempt == c.limit.MaxAttempts {
				break
			}
			c.logger.Warn("remote rate limit, backing off",
				zap.String("method", method),
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Duration("delay", c.limit.Delay),
			)
			if err := sleep(ctx, c.limit.Delay); err != nil {
				return nil, err
			}
			continue
		default:
			return nil, &domain.RemoteError{Status: resp.StatusCode, Body: respBody}
		}
		break
	}
	return nil, lastErr
}

// GetItemByCode is the fast path of item resolution.
func (c *Client) GetItemByCode(ctx context.Context, token, code string) (*Item, error) {
	u := c.orgPath("/items/code(" + url.PathEscape(code) + ")")
	body, err := c.do(ctx, token, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	if item.ItemID == 0 {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

// ListItems pages through nothing: the page size is chosen large enough to
// cover the whole catalog in one response.
func (c *Client) ListItems(ctx context.Context, token string, pageSize int) ([]Item, error) {
	u := c.orgPath("/items") + "?PageSize=" + strconv.Itoa(pageSize)
	body, err := c.do(ctx, token, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var page itemPage
	if err := json.Unmarshal(body, &page); err == nil {
		if page.Rows != nil {
			return page.Rows, nil
		}
		if page.Items != nil {
			return page.Items, nil
		}
	}
	// Some deployments answer with a bare array.
	var items []Item
	if err := json.Unmarshal(body, &items); err == nil && items != nil {
		return items, nil
	}
	return nil, fmt.Errorf("item listing: unexpected response shape: %s", truncate(body, 256))
}

func (c *Client) GetCustomerByCode(ctx context.Context, token, code string) (*Customer, error) {
	u := c.orgPath("/customers/code(" + url.PathEscape(code) + ")")
	body, err := c.do(ctx, token, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var cust Customer
	if err := json.Unmarshal(body, &cust); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}
	if cust.CustomerID == 0 {
		return nil, domain.ErrNotFound
	}
	return &cust, nil
}

func (c *Client) CreateCustomer(ctx context.Context, token string, p CustomerPayload) (*Customer, error) {
	body, err := c.do(ctx, token, http.MethodPost, c.orgPath("/customers"), p)
	if err != nil {
		return nil, err
	}
	var cust Customer
	if err := json.Unmarshal(body, &cust); err != nil || cust.CustomerID == 0 {
		// The create succeeded but the body did not carry the id; the caller
		// falls back to a lookup by code.
		return nil, nil
	}
	return &cust, nil
}

func (c *Client) AddCustomerContact(ctx context.Context, token string, customerID int64, p ContactPayload) error {
	u := c.orgPath("/customers/" + strconv.FormatInt(customerID, 10) + "/contacts")
	_, err := c.do(ctx, token, http.MethodPost, u, p)
	return err
}

// FindOrderByReference looks for an already-synced order. Returns
// domain.ErrNotFound when no exact reference match exists.
func (c *Client) FindOrderByReference(ctx context.Context, token, reference string) (*RemoteOrder, error) {
	u := c.orgPath("/orders") + "?reference=" + url.QueryEscape(reference)
	body, err := c.do(ctx, token, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var page orderPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode order listing: %w", err)
	}
	for i := range page.Rows {
		if page.Rows[i].Reference == reference {
			return &page.Rows[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// CreateOrder submits the order document. A nil CreatedOrder with nil error
// means the remote accepted the request without confirming the outcome (the
// empty-array success quirk); the caller must reconcile.
func (c *Client) CreateOrder(ctx context.Context, token string, p OrderPayload, idempotencyKey string) (*CreatedOrder, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	u := c.orgPath("/orders")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", u, err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("POST %s: read body: %w", u, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var created CreatedOrder
		if err := json.Unmarshal(respBody, &created); err == nil && created.ID != 0 {
			return &created, nil
		}
		c.logger.Debug("order create accepted without id",
			zap.String("reference", p.Reference),
			zap.ByteString("body", respBody),
		)
		return nil, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", domain.ErrConflict, respBody)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	default:
		return nil, &domain.RemoteError{Status: resp.StatusCode, Body: respBody}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
