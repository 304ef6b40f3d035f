package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestCallbacks(t *testing.T) {
	t.Parallel()
	t.Run("create", func(t *testing.T) {
		t.Parallel()

		fb := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/events/account/ACM123/events/callbacks", r.URL.Path)

			body := decodeRequestBody(t, r)
			assert.Equal(t, map[string]interface{}{
				"callback": map[string]interface{}{
					"event": "invoice.create",
					"uri":   "http://example.com/webhooks/ready",
				},
			}, body)

			_, _ = w.Write([]byte(`{"response": {"result": {"callback": {
				"callbackid": 123, "event": "invoice.create", "verified": false
			}}}}`))
		}))

		callback, err := fb.Callbacks().Create(context.Background(), testAccountID,
			map[string]interface{}{
				"event": "invoice.create",
				"uri":   "http://example.com/webhooks/ready",
			})
		require.NoError(t, err)

		id, _ := callback.GetInt("callbackid")
		assert.Equal(t, int64(123), id)

		verified, ok := callback.GetBool("verified")
		assert.True(t, ok)
		assert.False(t, verified)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		fb := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/events/account/ACM123/events/callbacks", r.URL.Path)
			_, _ = w.Write([]byte(`{"response": {"result": {
				"callbacks": [{"callbackid": 123}],
				"page": 1, "pages": 1, "per_page": 15, "total": 1
			}}}`))
		}))

		callbacks, err := fb.Callbacks().List(context.Background(), testAccountID)
		require.NoError(t, err)
		assert.Equal(t, 1, callbacks.Len())
	})

	t.Run("verify sends the verifier", func(t *testing.T) {
		t.Parallel()

		fb := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/events/account/ACM123/events/callbacks/123", r.URL.Path)

			body := decodeRequestBody(t, r)
			assert.Equal(t, map[string]interface{}{
				"callback": map[string]interface{}{"verifier": "some_verifier"},
			}, body)

			_, _ = w.Write([]byte(`{"response": {"result": {"callback": {
				"callbackid": 123, "verified": true
			}}}}`))
		}))

		callback, err := fb.Callbacks().Verify(context.Background(), testAccountID, 123, "some_verifier")
		require.NoError(t, err)

		verified, _ := callback.GetBool("verified")
		assert.True(t, verified)
	})

	t.Run("resend verification", func(t *testing.T) {
		t.Parallel()

		fb := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)

			body := decodeRequestBody(t, r)
			assert.Equal(t, map[string]interface{}{
				"callback": map[string]interface{}{"resend": true},
			}, body)

			_, _ = w.Write([]byte(`{"response": {"result": {"callback": {
				"callbackid": 123, "verified": false
			}}}}`))
		}))

		_, err := fb.Callbacks().ResendVerification(context.Background(), testAccountID, 123)
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		fb := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errno": 404, "message": "Requested resource could not be found."}`))
		}))

		_, err := fb.Callbacks().Get(context.Background(), testAccountID, 123)
		require.Error(t, err)

		apiErr := &freshbooks.Error{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Requested resource could not be found.", apiErr.Message)
		assert.Equal(t, 404, apiErr.Code)
		assert.True(t, freshbooks.IsNotFound(err))
	})

	t.Run("field violations become details", func(t *testing.T) {
		t.Parallel()

		fb := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{
				"code": 3,
				"message": "Invalid data in this request.",
				"details": [{
					"@type": "type.googleapis.com/google.rpc.BadRequest",
					"fieldViolations": [{
						"field": "event",
						"description": "Unrecognized event."
					}]
				}]
			}`))
		}))

		_, err := fb.Callbacks().Create(context.Background(), testAccountID,
			map[string]interface{}{"event": "bogus.event"})
		require.Error(t, err)

		apiErr := &freshbooks.Error{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Invalid data in this request.", apiErr.Message)
		assert.Equal(t, 3, apiErr.Code)
		require.Len(t, apiErr.Details, 1)
		assert.Equal(t, "event", apiErr.Details[0]["field"])
		assert.Equal(t, "Unrecognized event.", apiErr.Details[0]["description"])
	})

	t.Run("delete is a hard delete", func(t *testing.T) {
		t.Parallel()

		fb := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/events/account/ACM123/events/callbacks/123", r.URL.Path)
			_, _ = w.Write([]byte(`{"response": {}}`))
		}))

		_, err := fb.Callbacks().Delete(context.Background(), testAccountID, 123)
		require.NoError(t, err)
	})
}
