package client

import (
	"context"

	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// callbacksDriver serves webhook callbacks. They behave like an accounting
// resource with two extra verbs for the verification handshake.
type callbacksDriver struct {
	*accountingDriver
}

func newCallbacksDriver(httpClient *fbhttp.Client, spec resourceSpec) *callbacksDriver {
	return &callbacksDriver{newAccountingDriver(httpClient, spec)}
}

// Verify confirms a callback with the verifier token the service delivered
// to the callback URI.
func (d *callbacksDriver) Verify(ctx context.Context, accountID string, resourceID int64, verifier string) (*freshbooks.Result, error) {
	return d.Update(ctx, accountID, resourceID, map[string]interface{}{"verifier": verifier})
}

// ResendVerification asks the service to deliver the verification webhook
// again.
func (d *callbacksDriver) ResendVerification(ctx context.Context, accountID string, resourceID int64) (*freshbooks.Result, error) {
	return d.Update(ctx, accountID, resourceID, map[string]interface{}{"resend": true})
}
