package cin7

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	headerAccountID      = "api-auth-accountid"
	headerApplicationKey = "api-auth-applicationkey"
)

// CallLog describes one completed API call. The application key is
// never included.
type CallLog struct {
	Endpoint   string
	Method     string
	StatusCode int
	Duration   time.Duration
	RequestLen int
	Err        string
}

// LogFunc receives a CallLog after every API call.
type LogFunc func(CallLog)

// Options configures a Client beyond its credentials.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	MinInterval  time.Duration
	MaxPages     int
	PageLimit    int
	MaxRetries   int
	RetryBackoff time.Duration
}

func (o *Options) applyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://inventory.dearsystems.com/ExternalApi/v2/"
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MinInterval == 0 {
		o.MinInterval = 340 * time.Millisecond
	}
	if o.MaxPages == 0 {
		o.MaxPages = 100
	}
	if o.PageLimit == 0 {
		o.PageLimit = 100
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}
	if o.RetryBackoff == 0 {
		o.RetryBackoff = 2 * time.Second
	}
}

// Client talks to the Cin7 external API for one credential. Calls are
// spaced at least MinInterval apart to stay under the ERP's rate limit.
type Client struct {
	accountID      string
	applicationKey string
	opts           Options
	httpClient     *http.Client
	logger         *zap.Logger
	logFunc        LogFunc

	mu       sync.Mutex
	lastCall time.Time
}

// ClientOption is a functional option for Client configuration
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogFunc installs a per-call log hook
func WithLogFunc(fn LogFunc) ClientOption {
	return func(c *Client) {
		c.logFunc = fn
	}
}

// NewClient creates a client for one set of ERP credentials.
func NewClient(accountID, applicationKey string, opts Options, logger *zap.Logger, copts ...ClientOption) *Client {
	opts.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		accountID:      accountID,
		applicationKey: applicationKey,
		opts:           opts,
		httpClient:     &http.Client{Timeout: opts.Timeout},
		logger:         logger.Named("cin7"),
	}
	for _, opt := range copts {
		opt(c)
	}
	return c
}

// throttle blocks until MinInterval has passed since the previous call.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	wait := c.opts.MinInterval - time.Since(c.lastCall)
	if wait > 0 {
		c.lastCall = c.lastCall.Add(c.opts.MinInterval)
	} else {
		c.lastCall = time.Now()
	}
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// do executes one API call with throttling, 429 retries, and logging.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.opts.RetryBackoff * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.throttle(ctx); err != nil {
			return err
		}

		err := c.doOnce(ctx, method, endpoint, query, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !(apiErr.IsRateLimited() || apiErr.StatusCode >= 500) {
			return err
		}
		c.logger.Warn("retrying ERP call",
			zap.String("endpoint", endpoint),
			zap.Int("status", apiErr.StatusCode),
			zap.Int("attempt", attempt+1),
		)
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, endpoint string, query url.Values, payload []byte, out interface{}) error {
	u, err := url.JoinPath(c.opts.BaseURL, endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set(headerAccountID, c.accountID)
	req.Header.Set(headerApplicationKey, c.applicationKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	entry := CallLog{
		Endpoint:   endpoint,
		Method:     method,
		Duration:   duration,
		RequestLen: len(payload),
	}
	if err != nil {
		entry.Err = err.Error()
		c.emit(entry)
		return fmt.Errorf("ERP request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	entry.StatusCode = resp.StatusCode
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.Err = err.Error()
		c.emit(entry)
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Details:    parseErrorDetails(respBody),
			Body:       string(respBody),
		}
		entry.Err = apiErr.Error()
		c.emit(entry)
		return apiErr
	}
	c.emit(entry)

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
		}
	}
	return nil
}

func (c *Client) emit(entry CallLog) {
	fields := []zap.Field{
		zap.String("endpoint", entry.Endpoint),
		zap.String("method", entry.Method),
		zap.Int("status", entry.StatusCode),
		zap.Duration("duration", entry.Duration),
	}
	if entry.Err != "" {
		fields = append(fields, zap.String("error", entry.Err))
		c.logger.Warn("ERP call", fields...)
	} else {
		c.logger.Debug("ERP call", fields...)
	}
	if c.logFunc != nil {
		c.logFunc(entry)
	}
}

// parseErrorDetails extracts the Cin7 error array, which arrives either
// as a bare array or wrapped in an Errors field.
func parseErrorDetails(body []byte) []ErrorDetail {
	var details []ErrorDetail
	if err := json.Unmarshal(body, &details); err == nil {
		return details
	}
	var wrapped struct {
		Errors []ErrorDetail `json:"Errors"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return wrapped.Errors
	}
	return nil
}

// Me verifies the credentials and returns account information.
func (c *Client) Me(ctx context.Context) (*AccountInfo, error) {
	var info AccountInfo
	if err := c.do(ctx, http.MethodGet, "me", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateSale creates the Sale, phase one of order submission.
func (c *Client) CreateSale(ctx context.Context, sale *Sale) (*Sale, error) {
	var created Sale
	if err := c.do(ctx, http.MethodPost, "sale", nil, sale, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateSaleOrder creates the Sale Order against an existing Sale,
// phase two of order submission.
func (c *Client) CreateSaleOrder(ctx context.Context, order *SaleOrder) (*SaleOrder, error) {
	var created SaleOrder
	if err := c.do(ctx, http.MethodPost, "saleorder", nil, order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SearchCustomers returns customers whose name matches the query.
func (c *Client) SearchCustomers(ctx context.Context, name string) ([]Customer, error) {
	q := url.Values{}
	q.Set("Name", name)
	var list customerList
	if err := c.do(ctx, http.MethodGet, "customer", q, nil, &list); err != nil {
		return nil, err
	}
	return list.CustomerList, nil
}

// CreateCustomer creates a customer and returns it with its new ID.
func (c *Client) CreateCustomer(ctx context.Context, customer *Customer) (*Customer, error) {
	var created Customer
	if err := c.do(ctx, http.MethodPost, "customer", nil, customer, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateCustomerAddress adds an address to an existing customer.
func (c *Client) CreateCustomerAddress(ctx context.Context, customerID string, addr *Address) (*Address, error) {
	payload := struct {
		CustomerID string `json:"CustomerID"`
		Address
	}{CustomerID: customerID, Address: *addr}
	var created Address
	if err := c.do(ctx, http.MethodPost, "customeraddress", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetAllCustomers pulls every customer page by page, driven by the
// Total field of the response and capped at MaxPages.
func (c *Client) GetAllCustomers(ctx context.Context) ([]Customer, error) {
	var all []Customer
	for page := 1; page <= c.opts.MaxPages; page++ {
		q := url.Values{}
		q.Set("Page", strconv.Itoa(page))
		q.Set("Limit", strconv.Itoa(c.opts.PageLimit))
		var list customerList
		if err := c.do(ctx, http.MethodGet, "customer", q, nil, &list); err != nil {
			return nil, err
		}
		all = append(all, list.CustomerList...)
		if len(all) >= list.Total || len(list.CustomerList) == 0 {
			break
		}
	}
	return all, nil
}

// GetAllProducts pulls every product page by page.
func (c *Client) GetAllProducts(ctx context.Context) ([]Product, error) {
	var all []Product
	for page := 1; page <= c.opts.MaxPages; page++ {
		q := url.Values{}
		q.Set("Page", strconv.Itoa(page))
		q.Set("Limit", strconv.Itoa(c.opts.PageLimit))
		var list productList
		if err := c.do(ctx, http.MethodGet, "product", q, nil, &list); err != nil {
			return nil, err
		}
		all = append(all, list.Products...)
		if len(all) >= list.Total || len(list.Products) == 0 {
			break
		}
	}
	return all, nil
}

// Accounts returns the chart-of-accounts reference list.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var list struct {
		AccountsList []Account `json:"AccountsList"`
	}
	if err := c.do(ctx, http.MethodGet, "ref/account", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.AccountsList, nil
}

// TaxRules returns the tax rule reference list.
func (c *Client) TaxRules(ctx context.Context) ([]TaxRule, error) {
	var list struct {
		TaxRules []TaxRule `json:"TaxRules"`
	}
	if err := c.do(ctx, http.MethodGet, "ref/tax", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.TaxRules, nil
}

// Locations returns the location reference list.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	var list struct {
		LocationList []Location `json:"LocationList"`
	}
	if err := c.do(ctx, http.MethodGet, "ref/location", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.LocationList, nil
}
