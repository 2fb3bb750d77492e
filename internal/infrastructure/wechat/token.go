package wechat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Access tokens are refreshed this long before the server-reported expiry.
const tokenMargin = 5 * time.Minute

// tokenCache holds the short-lived access token for one app identity and
// refreshes it on demand. The check-and-refresh sequence is a critical
// section; concurrent callers observe a single coherent cached value.
type tokenCache struct {
	appID     string
	appSecret string
	baseURL   string
	client    *http.Client
	now       func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenCache(appID, appSecret, baseURL string, client *http.Client) *tokenCache {
	return &tokenCache{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   baseURL,
		client:    client,
		now:       time.Now,
	}
}

// obtain returns the cached token while it is still inside the margin
// window, otherwise performs the credential exchange. A failed exchange
// leaves the cache empty so the next call retries from scratch.
func (t *tokenCache) obtain(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Before(t.expiresAt) {
		return t.token, nil
	}

	t.token = ""

	query := url.Values{}
	query.Set("grant_type", "client_credential")
	query.Set("appid", t.appID)
	query.Set("secret", t.appSecret)
	endpoint := t.baseURL + "/cgi-bin/token?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		ErrCode     int    `json:"errcode"`
		ErrMsg      string `json:"errmsg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	if payload.AccessToken == "" {
		return "", fmt.Errorf("token exchange rejected: errcode=%d errmsg=%s", payload.ErrCode, payload.ErrMsg)
	}

	ttl := time.Duration(payload.ExpiresIn) * time.Second
	if ttl == 0 {
		ttl = 2 * time.Hour
	}

	t.token = payload.AccessToken
	t.expiresAt = t.now().Add(ttl - tokenMargin)

	return t.token, nil
}
