package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chewallet/internal/common"
	"github.com/dmitrijs2005/chewallet/internal/logging"
	"github.com/dmitrijs2005/chewallet/internal/netx"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// HTTPConfig configures HTTPClient.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls; zero or less disables
	// throttling.
	RequestsPerSecond float64
	// Transport overrides http.DefaultTransport, mainly for tests.
	Transport http.RoundTripper
}

// HTTPClient talks to the wallet REST backend. Credentials are cookies
// kept in a jar owned by the client; when a metadata repository is given
// the jar is mirrored there so a later process can resume the session.
type HTTPClient struct {
	base      *url.URL
	timeout   time.Duration
	transport http.RoundTripper
	limiter   *rate.Limiter
	cookies   metadata.Repository
	log       logging.Logger

	mu  sync.Mutex
	jar http.CookieJar
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for cfg.BaseURL. cookies may be nil, in
// which case credentials live only as long as the process.
func NewHTTPClient(cfg HTTPConfig, cookies metadata.Repository, log logging.Logger) (*HTTPClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	if log == nil {
		log = logging.Nop()
	}

	return &HTTPClient{
		base:      base,
		timeout:   cfg.Timeout,
		transport: cfg.Transport,
		limiter:   rate.NewLimiter(limit, burst),
		cookies:   cookies,
		log:       log.With("component", "http"),
		jar:       jar,
	}, nil
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RestoreCookies loads the persisted credential cookies into the jar.
func (c *HTTPClient) RestoreCookies(ctx context.Context) error {
	if c.cookies == nil {
		return nil
	}

	var stored []storedCookie
	ok, err := metadata.LoadJSON(ctx, c.cookies, metadata.KeyCookies, &stored)
	if err != nil || !ok {
		return err
	}

	cs := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		cs = append(cs, &http.Cookie{Name: s.Name, Value: s.Value, Path: "/"})
	}

	c.mu.Lock()
	c.jar.SetCookies(c.base, cs)
	c.mu.Unlock()
	return nil
}

func (c *HTTPClient) saveCookies(ctx context.Context, jar http.CookieJar) {
	if c.cookies == nil {
		return
	}

	c.mu.Lock()
	current := c.jar == jar
	c.mu.Unlock()
	// A jar detached by EndSession must not write back.
	if !current {
		return
	}

	cs := jar.Cookies(c.base)
	var err error
	if len(cs) == 0 {
		err = c.cookies.Delete(ctx, metadata.KeyCookies)
	} else {
		stored := make([]storedCookie, 0, len(cs))
		for _, ck := range cs {
			stored = append(stored, storedCookie{Name: ck.Name, Value: ck.Value})
		}
		err = metadata.SaveJSON(ctx, c.cookies, metadata.KeyCookies, stored)
	}
	if err != nil {
		c.log.Warn(ctx, "persist cookies", "error", err)
	}
}

// endpoint joins the base URL with an already escaped path.
func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.base
	escaped := strings.TrimRight(u.EscapedPath(), "/") + path
	if unescaped, err := url.PathUnescape(escaped); err == nil {
		u.Path = unescaped
		u.RawPath = escaped
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *HTTPClient) currentJar() http.CookieJar {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jar
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, payload any) ([]byte, error) {
	return c.doWithJar(ctx, c.currentJar(), op, method, path, query, payload)
}

func (c *HTTPClient) doWithJar(ctx context.Context, jar http.CookieJar, op, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &common.TransportError{Op: op, Err: err}
	}

	req, err := netx.NewJSONRequest(ctx, method, c.endpoint(path, query), payload)
	if err != nil {
		return nil, &common.TransportError{Op: op, Err: err}
	}

	requestID, ok := RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	req.Header.Set(common.RequestIDHeaderName, requestID)

	hc := &http.Client{Jar: jar, Timeout: c.timeout, Transport: c.transport}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "op", op, "request_id", requestID, "error", err)
		return nil, &common.TransportError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}

	body, err := netx.ReadBody(resp)
	if err != nil {
		return nil, &common.TransportError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}

	c.log.Debug(ctx, "request done",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start))

	if len(resp.Header.Values("Set-Cookie")) > 0 {
		c.saveCookies(ctx, jar)
	}

	if !netx.IsSuccess(resp.StatusCode) {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func decode[T any](op string, body []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &common.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &v, nil
}

func authResult(body []byte, fallback string) *models.AuthResult {
	username := fallback
	if r := gjson.GetBytes(body, "username"); r.Exists() && r.String() != "" {
		username = r.String()
	}
	return &models.AuthResult{Username: username, Raw: json.RawMessage(body)}
}

func (c *HTTPClient) CheckAuth(ctx context.Context) (string, error) {
	body, err := c.do(ctx, "check auth", http.MethodGet, "/auth/check", nil, nil)
	if err != nil {
		return "", err
	}
	v, err := decode[struct {
		Username string `json:"username"`
	}]("check auth", body)
	if err != nil {
		return "", err
	}
	return v.Username, nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	body, err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, creds)
	if err != nil {
		return nil, err
	}
	return authResult(body, creds.Username), nil
}

func (c *HTTPClient) Register(ctx context.Context, payload models.RegisterPayload) (*models.AuthResult, error) {
	body, err := c.do(ctx, "register", http.MethodPost, "/auth/register", nil, payload)
	if err != nil {
		return nil, err
	}
	return authResult(body, payload.Username), nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, form models.PasswordReset) error {
	_, err := c.do(ctx, "reset password", http.MethodPost, "/auth/reset-password", nil, form)
	return err
}

func (c *HTTPClient) EndSession(ctx context.Context) func(ctx context.Context) error {
	// cookiejar.New never fails with nil options
	fresh, _ := cookiejar.New(nil)

	c.mu.Lock()
	old := c.jar
	c.jar = fresh
	c.mu.Unlock()

	if c.cookies != nil {
		if err := c.cookies.Delete(ctx, metadata.KeyCookies); err != nil {
			c.log.Warn(ctx, "drop persisted cookies", "error", err)
		}
	}

	return func(ctx context.Context) error {
		_, err := c.doWithJar(ctx, old, "logout", http.MethodPost, "/logout", nil, nil)
		return err
	}
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Account, error) {
	body, err := c.do(ctx, "get user", http.MethodGet, "/user/me", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[models.Account]("get user", body)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	body, err := c.do(ctx, "get profile", http.MethodGet, "/user/details", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[models.Profile]("get profile", body)
}

func (c *HTTPClient) UpdateAlias(ctx context.Context, alias string) error {
	_, err := c.do(ctx, "update alias", http.MethodPut, "/user/update", nil, models.AliasUpdate{NewAlias: alias})
	return err
}

func (c *HTTPClient) Checkout(ctx context.Context, req models.DepositRequest) (*models.Checkout, error) {
	body, err := c.do(ctx, "checkout", http.MethodPost, "/payments/checkout", nil, req)
	if err != nil {
		return nil, err
	}
	return decode[models.Checkout]("checkout", body)
}

func (c *HTTPClient) Transfer(ctx context.Context, req models.TransferRequest) ([]byte, error) {
	return c.do(ctx, "transfer", http.MethodPost, "/payments/transfer", nil, req)
}

func (c *HTTPClient) Transactions(ctx context.Context, page, size int) ([]byte, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return c.do(ctx, "list transactions", http.MethodGet, "/payments/transactions", q, nil)
}

func (c *HTTPClient) Transaction(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, "get transaction", http.MethodGet, "/payments/transactions/"+url.PathEscape(id), nil, nil)
}
