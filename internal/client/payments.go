package client

import (
	"context"
	"net/http"

	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// paymentOptionsDriver serves the payments service. Single resources live
// under {path}/{id}/{subPath}; account-level defaults live under their own
// static path with baked-in query parameters. Request bodies go unwrapped.
type paymentOptionsDriver struct {
	baseDriver

	subPath      string
	defaultsPath string
}

func newPaymentOptionsDriver(httpClient *fbhttp.Client, spec resourceSpec, subPath, defaultsPath string) *paymentOptionsDriver {
	return &paymentOptionsDriver{
		baseDriver:   baseDriver{httpClient: httpClient, spec: spec},
		subPath:      subPath,
		defaultsPath: defaultsPath,
	}
}

func (d *paymentOptionsDriver) defaultsURL(accountID string) string {
	url := "/" + d.spec.prefix + "/" + accountID + "/" + d.defaultsPath

	if d.spec.staticParams != "" {
		url += "?" + d.spec.staticParams
	}

	return url
}

func (d *paymentOptionsDriver) entityURL(accountID string, resourceID int64) string {
	return "/" + d.spec.prefix + "/" + accountID + "/" + d.spec.path + "/" + formatID(resourceID) + "/" + d.subPath
}

// Defaults returns the account-level default settings.
func (d *paymentOptionsDriver) Defaults(ctx context.Context, accountID string) (*freshbooks.Result, error) {
	if err := d.spec.supports("defaults"); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodGet, d.defaultsURL(accountID), nil)
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *paymentOptionsDriver) Get(ctx context.Context, accountID string, resourceID int64) (*freshbooks.Result, error) {
	if err := d.spec.supports(opGet); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodGet, d.entityURL(accountID, resourceID), nil)
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *paymentOptionsDriver) Create(ctx context.Context, accountID string, resourceID int64, data map[string]interface{}) (*freshbooks.Result, error) {
	if err := d.spec.supports(opCreate); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodPost, d.entityURL(accountID, resourceID), data)
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}
