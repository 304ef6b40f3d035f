package client

import (
	"context"
	"fmt"
	"net/http"

	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// usersDriver serves the identity endpoints of the authentication service.
// Unlike the API-key families, its errors carry a string error id with a
// human description.
type usersDriver struct {
	httpClient *fbhttp.Client
}

func newUsersDriver(httpClient *fbhttp.Client) *usersDriver {
	return &usersDriver{httpClient: httpClient}
}

// Me returns the identity of the authenticated user, including its
// business memberships.
func (d *usersDriver) Me(ctx context.Context) (*freshbooks.Identity, error) {
	resp, err := d.httpClient.Get(ctx, "/auth/api/v1/users/me")
	if err != nil {
		return nil, err
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &freshbooks.Error{
			StatusCode: resp.StatusCode,
			Message:    "Unknown error",
			Raw:        string(resp.Body),
		}

		if errorID, ok := body["error"].(string); ok {
			apiErr.ErrorID = errorID
		}

		if description, ok := body["error_description"].(string); ok {
			apiErr.Message = description
		}

		return nil, apiErr
	}

	payload, ok := body["response"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("users %w", ErrUnexpectedResponse)
	}

	return freshbooks.NewIdentity(payload), nil
}
