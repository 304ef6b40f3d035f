// Package fbclient provides the main entry point for creating FreshBooks
// API clients.
package fbclient

import (
	"fmt"
	"strings"

	"github.com/freshbooks-community/freshbooks-go/internal/client"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// New creates a new FreshBooks API client.
func New(config *freshbooks.Config) (freshbooks.Client, error) {
	if config == nil {
		return nil, freshbooks.ErrConfigRequired
	}

	if config.ClientID == "" {
		return nil, freshbooks.ErrClientIDRequired
	}

	config.BaseURL = normalizeURL(config.BaseURL)
	config.AuthBaseURL = normalizeURL(config.AuthBaseURL)

	fbClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return fbClient, nil
}

// NewWithToken creates a client around an already-authorized access token.
func NewWithToken(clientID, accessToken string) (freshbooks.Client, error) {
	return New(&freshbooks.Config{
		ClientID:    clientID,
		AccessToken: accessToken,
	})
}

// NewWithOAuth creates a client configured for the three-legged OAuth flow.
func NewWithOAuth(clientID, clientSecret, redirectURI string) (freshbooks.Client, error) {
	if clientSecret == "" {
		return nil, freshbooks.ErrClientSecretRequired
	}

	if redirectURI == "" {
		return nil, freshbooks.ErrRedirectURIRequired
	}

	return New(&freshbooks.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
	})
}

// normalizeURL trims trailing slashes and defaults the scheme to https.
func normalizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	normalized := strings.TrimSuffix(rawURL, "/")
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	return normalized
}
