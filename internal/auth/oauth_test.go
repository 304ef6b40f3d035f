package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbooks-community/freshbooks-go/internal/auth"
)

func TestManager_AuthorizationURL(t *testing.T) {
	t.Parallel()
	t.Run("without scopes", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewManager("some-client-id", "secret", "https://example.com/callback",
			"https://api.freshbooks.com", "https://auth.freshbooks.com")

		rawURL := manager.AuthorizationURL(nil)

		parsed, err := url.Parse(rawURL)
		require.NoError(t, err)
		assert.Equal(t, "auth.freshbooks.com", parsed.Host)
		assert.Equal(t, "/service/auth/oauth/authorize", parsed.Path)
		assert.Equal(t, "some-client-id", parsed.Query().Get("client_id"))
		assert.Equal(t, "code", parsed.Query().Get("response_type"))
		assert.Equal(t, "https://example.com/callback", parsed.Query().Get("redirect_uri"))
		assert.False(t, parsed.Query().Has("scope"))
	})

	t.Run("with scopes", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewManager("some-client-id", "secret", "https://example.com/callback",
			"https://api.freshbooks.com", "https://auth.freshbooks.com")

		rawURL := manager.AuthorizationURL([]string{"user:profile:read", "user:clients:read"})

		parsed, err := url.Parse(rawURL)
		require.NoError(t, err)
		assert.Equal(t, "user:profile:read user:clients:read", parsed.Query().Get("scope"))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestManager_ExchangeCode(t *testing.T) {
	t.Parallel()
	t.Run("successful exchange", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "/auth/oauth/token", request.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))

			require.NoError(t, request.ParseForm())
			assert.Equal(t, "authorization_code", request.PostForm.Get("grant_type"))
			assert.Equal(t, "some-grant-code", request.PostForm.Get("code"))
			assert.Equal(t, "some-client-id", request.PostForm.Get("client_id"))
			assert.Equal(t, "some-secret", request.PostForm.Get("client_secret"))
			assert.Equal(t, "https://example.com/callback", request.PostForm.Get("redirect_uri"))

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"access_token":  "my_access_token",
				"refresh_token": "my_refresh_token",
				"created_at":    1618416000,
				"expires_in":    43200,
			})
		}))
		defer server.Close()

		manager := auth.NewManager("some-client-id", "some-secret", "https://example.com/callback",
			server.URL, server.URL)

		token, err := manager.ExchangeCode(context.Background(), "some-grant-code")
		require.NoError(t, err)
		assert.Equal(t, "my_access_token", token.AccessToken)
		assert.Equal(t, "my_refresh_token", token.RefreshToken)
		assert.Equal(t, time.Date(2021, 4, 14, 16, 0, 0, 0, time.UTC), token.ExpiresAt.UTC())

		// The manager stores what it fetched.
		assert.Equal(t, "my_access_token", manager.Current().AccessToken)

		bearer, err := manager.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "my_access_token", bearer)
	})

	t.Run("server rejects the code", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
			_, _ = writer.Write([]byte(`{"error": "invalid_grant"}`))
		}))
		defer server.Close()

		manager := auth.NewManager("some-client-id", "some-secret", "https://example.com/callback",
			server.URL, server.URL)

		_, err := manager.ExchangeCode(context.Background(), "bad-code")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrTokenRequestFailed)
	})

	t.Run("incomplete token response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"access_token": "my_access_token",
			})
		}))
		defer server.Close()

		manager := auth.NewManager("some-client-id", "some-secret", "https://example.com/callback",
			server.URL, server.URL)

		_, err := manager.ExchangeCode(context.Background(), "some-grant-code")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrIncompleteTokenResponse)
	})
}

func TestManager_Refresh(t *testing.T) {
	t.Parallel()
	t.Run("successful refresh", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			require.NoError(t, request.ParseForm())
			assert.Equal(t, "refresh_token", request.PostForm.Get("grant_type"))
			assert.Equal(t, "old_refresh_token", request.PostForm.Get("refresh_token"))

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"access_token":  "new_access_token",
				"refresh_token": "new_refresh_token",
				"created_at":    1618416000,
				"expires_in":    43200,
			})
		}))
		defer server.Close()

		manager := auth.NewManager("some-client-id", "some-secret", "https://example.com/callback",
			server.URL, server.URL)
		manager.SetTokens("old_access_token", "old_refresh_token", time.Now())

		token, err := manager.Refresh(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "new_access_token", token.AccessToken)
		assert.Equal(t, "new_refresh_token", token.RefreshToken)
		assert.Equal(t, "new_refresh_token", manager.Current().RefreshToken)
	})

	t.Run("explicit token overrides the stored one", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			require.NoError(t, request.ParseForm())
			assert.Equal(t, "other_refresh_token", request.PostForm.Get("refresh_token"))

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"access_token":  "new_access_token",
				"refresh_token": "new_refresh_token",
				"created_at":    1618416000,
				"expires_in":    43200,
			})
		}))
		defer server.Close()

		manager := auth.NewManager("some-client-id", "some-secret", "https://example.com/callback",
			server.URL, server.URL)
		manager.SetTokens("old_access_token", "old_refresh_token", time.Now())

		token, err := manager.Refresh(context.Background(), "other_refresh_token")
		require.NoError(t, err)
		assert.Equal(t, "new_access_token", token.AccessToken)
	})

	t.Run("refresh without refresh token", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewManager("some-client-id", "some-secret", "https://example.com/callback",
			"https://api.freshbooks.com", "https://auth.freshbooks.com")

		_, err := manager.Refresh(context.Background(), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNoRefreshToken)
	})
}
