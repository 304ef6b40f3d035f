// Package auth implements the three-legged OAuth2 flow against the
// FreshBooks authorization service and holds the resulting tokens for the
// HTTP transport.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// Static errors for err113 compliance.
var (
	ErrTokenRequestFailed      = errors.New("failed to fetch access token")
	ErrIncompleteTokenResponse = errors.New("token response missing required fields")
	ErrNoRefreshToken          = errors.New("no refresh token available")
)

const (
	authorizePath = "/service/auth/oauth/authorize"
	tokenPath     = "/auth/oauth/token"

	tokenRequestTimeout = 30 * time.Second
)

// Token holds a bearer token with its refresh token and absolute expiry.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Manager drives the OAuth2 flow and stores the current token. It is safe
// for concurrent use and satisfies the transport's TokenSource.
type Manager struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	authorizeURL string
	httpClient   *http.Client

	mutex sync.RWMutex
	token Token
}

// NewManager creates a manager for the given application credentials.
// apiBaseURL hosts the token endpoint; authBaseURL hosts the interactive
// authorization endpoint.
func NewManager(clientID, clientSecret, redirectURI, apiBaseURL, authBaseURL string) *Manager {
	return &Manager{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		tokenURL:     apiBaseURL + tokenPath,
		authorizeURL: authBaseURL + authorizePath,
		httpClient: &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
			Timeout:   tokenRequestTimeout,
		},
	}
}

// SetTokens seeds the manager with already-authorized credentials.
func (m *Manager) SetTokens(accessToken, refreshToken string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.token = Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
}

// Token returns the current access token. It satisfies the transport's
// TokenSource interface.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.token.AccessToken, nil
}

// Current returns a copy of the stored token.
func (m *Manager) Current() Token {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.token
}

// AuthorizationURL returns the URL to redirect a user to for an
// authorization grant. Scopes, when given, are sent space-separated; an
// empty list requests all scopes registered for the application.
func (m *Manager) AuthorizationURL(scopes []string) string {
	params := url.Values{}
	params.Set("client_id", m.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", m.redirectURI)

	if len(scopes) > 0 {
		params.Set("scope", strings.Join(scopes, " "))
	}

	return m.authorizeURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization grant code for tokens and stores
// them.
func (m *Manager) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)

	return m.fetchToken(ctx, form)
}

// Refresh trades a refresh token for fresh tokens and stores them. An empty
// refreshToken falls back to the stored one.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	if refreshToken == "" {
		m.mutex.RLock()
		refreshToken = m.token.RefreshToken
		m.mutex.RUnlock()
	}

	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	return m.fetchToken(ctx, form)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	CreatedAt    int64  `json:"created_at"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (m *Manager) fetchToken(ctx context.Context, form url.Values) (*Token, error) {
	form.Set("client_id", m.clientID)
	form.Set("redirect_uri", m.redirectURI)

	if m.clientSecret != "" {
		form.Set("client_secret", m.clientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTokenRequestFailed, resp.StatusCode)
	}

	var parsed tokenResponse

	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if parsed.AccessToken == "" || parsed.RefreshToken == "" {
		return nil, ErrIncompleteTokenResponse
	}

	token := Token{
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
		ExpiresAt:    time.Unix(parsed.CreatedAt, 0).UTC().Add(time.Duration(parsed.ExpiresIn) * time.Second),
	}

	m.mutex.Lock()
	m.token = token
	m.mutex.Unlock()

	return &token, nil
}
