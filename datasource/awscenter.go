package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Misuse errors: these surface programmer mistakes in call ordering,
// never upstream failures.
var (
	// ErrNoSession is returned by Login when no initial session cookie
	// has been obtained yet.
	ErrNoSession = errors.New("no session cookie yet: call GetInitialSession first")
	// ErrNotAuthenticated is returned by FetchWithSession before a
	// successful login.
	ErrNotAuthenticated = errors.New("not authenticated: call Authenticate first")
)

const (
	sessionCookieName = "PHPSESSID"
	loginPath         = "/base/verify"

	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
	htmlAccept       = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	ajaxAccept       = "application/json, text/javascript, */*; q=0.01"
)

// AWSCenterClient owns one login session against the AWS Center
// portal: its cookie map, the distinguished PHPSESSID value, and the
// authenticated flag. A client must not be shared between concurrent
// request flows; construct one per inbound request so cookies never
// interleave.
type AWSCenterClient struct {
	baseURL  string
	username string
	password string
	captcha  string

	httpClient *http.Client
	logger     *slog.Logger

	cookies       map[string]string
	sessionToken  string
	authenticated bool
}

// NewAWSCenterClient creates a portal client from the service config.
func NewAWSCenterClient(cfg Config, logger *slog.Logger) *AWSCenterClient {
	return &AWSCenterClient{
		baseURL:  strings.TrimRight(cfg.AWSCenterBaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		captcha:  cfg.Captcha,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:  logger,
		cookies: make(map[string]string),
	}
}

// BaseURL returns the portal base URL the client is bound to.
func (c *AWSCenterClient) BaseURL() string { return c.baseURL }

// IsAuthenticated reports whether the last login succeeded and no
// expiry has been detected since.
func (c *AWSCenterClient) IsAuthenticated() bool { return c.authenticated }

// SessionToken returns the current PHPSESSID value, empty before the
// initial handshake.
func (c *AWSCenterClient) SessionToken() string { return c.sessionToken }

// Cookies returns a copy of the current cookie map.
func (c *AWSCenterClient) Cookies() map[string]string {
	out := make(map[string]string, len(c.cookies))
	for k, v := range c.cookies {
		out[k] = v
	}
	return out
}

// SessionResult reports the outcome of the initial session handshake.
type SessionResult struct {
	Success      bool
	Status       int
	SessionToken string
}

// GetInitialSession performs an unauthenticated GET against the portal
// root and collects the cookies it hands out, PHPSESSID in particular.
// A non-2xx response is reported through Success, not as an error.
func (c *AWSCenterClient) GetInitialSession(ctx context.Context) (SessionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", htmlAccept)
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to reach portal root: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.storeCookies(resp.Header.Values("Set-Cookie"))

	return SessionResult{
		Success:      resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:       resp.StatusCode,
		SessionToken: c.sessionToken,
	}, nil
}

// Login posts the credential form together with the captcha value and
// the current cookies. It requires a PHPSESSID from GetInitialSession.
// The client counts as authenticated iff the response was 2xx.
func (c *AWSCenterClient) Login(ctx context.Context, captcha string) (bool, error) {
	if c.sessionToken == "" {
		return false, ErrNoSession
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)
	form.Set("captcha", captcha)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Accept", htmlAccept)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", c.cookieHeader())
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.storeCookies(resp.Header.Values("Set-Cookie"))
	c.authenticated = resp.StatusCode >= 200 && resp.StatusCode < 300

	if !c.authenticated {
		c.logger.Warn("portal login rejected", "status", resp.StatusCode)
	}
	return c.authenticated, nil
}

// Authenticate runs the two-step handshake (initial session, then
// login) and returns the final authenticated state.
func (c *AWSCenterClient) Authenticate(ctx context.Context, captcha string) (bool, error) {
	if _, err := c.GetInitialSession(ctx); err != nil {
		return false, err
	}
	return c.Login(ctx, captcha)
}

// FetchWithSession issues an authenticated AJAX-style GET. When the
// portal signals expiry (401/403, or a redirect landing back on the
// login flow) the session is rebuilt once and the request retried; the
// retried response is returned whatever its outcome, so a broken
// session can never loop.
func (c *AWSCenterClient) FetchWithSession(ctx context.Context, rawURL string) (*http.Response, error) {
	if !c.authenticated {
		return nil, ErrNotAuthenticated
	}

	resp, err := c.doAJAX(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if !c.sessionExpired(resp) {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	c.logger.Warn("session expired, re-authenticating", "url", rawURL)

	c.authenticated = false
	if _, err := c.Authenticate(ctx, c.captcha); err != nil {
		return nil, fmt.Errorf("re-authentication failed: %w", err)
	}
	return c.doAJAX(ctx, rawURL)
}

// FetchWithRetry wraps FetchWithSession: a non-2xx response or a
// transport error triggers a fresh authentication and a full retry, up
// to maxRetries extra attempts. Exhausting retries returns the last
// response (possibly non-2xx) or the last error.
func (c *AWSCenterClient) FetchWithRetry(ctx context.Context, rawURL string, maxRetries int) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := c.FetchWithSession(ctx, rawURL)
		if err == nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}
			if attempt == maxRetries {
				return resp, nil
			}
			c.logger.Warn("request failed, retrying", "status", resp.StatusCode, "url", rawURL)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		} else {
			lastErr = err
			if attempt == maxRetries {
				break
			}
			c.logger.Warn("request error, retrying", "error", err, "url", rawURL)
		}

		c.authenticated = false
		if _, err := c.Authenticate(ctx, c.captcha); err != nil {
			lastErr = fmt.Errorf("re-authentication failed: %w", err)
		}
	}
	if lastErr == nil {
		lastErr = errors.New("max retries reached")
	}
	return nil, lastErr
}

func (c *AWSCenterClient) doAJAX(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", ajaxAccept)
	req.Header.Set("Cookie", c.cookieHeader())
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

// sessionExpired recognizes the portal's silent expiry signals: an
// explicit 401/403, or a redirect chain that ended on the login flow.
// The "/base" path test applies only when the client actually followed
// a redirect; a directly requested URL never counts as expiry.
func (c *AWSCenterClient) sessionExpired(resp *http.Response) bool {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return true
	}
	// Request.Response is non-nil only on responses reached by
	// following a redirect.
	if resp.Request != nil && resp.Request.Response != nil &&
		resp.Request.URL != nil && strings.Contains(resp.Request.URL.Path, "/base") {
		return true
	}
	return false
}

// storeCookies merges Set-Cookie header values into the cookie map and
// keeps the distinguished session cookie in sync.
func (c *AWSCenterClient) storeCookies(headers []string) {
	for _, h := range headers {
		for _, raw := range splitFoldedCookies(h) {
			name, value, ok := parseCookie(raw)
			if !ok {
				continue
			}
			c.cookies[name] = value
			if name == sessionCookieName {
				c.sessionToken = value
			}
		}
	}
}

func (c *AWSCenterClient) cookieHeader() string {
	names := make([]string, 0, len(c.cookies))
	for name := range c.cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+c.cookies[name])
	}
	return strings.Join(pairs, "; ")
}

// splitFoldedCookies splits a Set-Cookie value into which a proxy has
// folded several cookies. A comma only separates cookies when it is
// followed by a token and an equals sign; the comma inside an Expires
// date does not qualify.
func splitFoldedCookies(header string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(header); i++ {
		if header[i] != ',' {
			continue
		}
		j := i + 1
		for j < len(header) && header[j] == ' ' {
			j++
		}
		k := j
		for k < len(header) && isCookieTokenChar(header[k]) {
			k++
		}
		if k > j && k < len(header) && header[k] == '=' {
			parts = append(parts, header[start:i])
			start = j
			i = j - 1
		}
	}
	return append(parts, header[start:])
}

func isCookieTokenChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == '-' || b == '.':
		return true
	}
	return false
}

// parseCookie extracts the name=value pair of one cookie, discarding
// trailing attributes such as Path or Expires.
func parseCookie(raw string) (name, value string, ok bool) {
	pair := raw
	if i := strings.IndexByte(pair, ';'); i >= 0 {
		pair = pair[:i]
	}
	pair = strings.TrimSpace(pair)
	i := strings.IndexByte(pair, '=')
	if i <= 0 || i == len(pair)-1 {
		return "", "", false
	}
	return pair[:i], pair[i+1:], true
}
