package client

import (
	"context"
	"net/http"

	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// accountingDriver serves the accounting and events families: account-scoped
// resources with the response/result envelope and search-style filters.
type accountingDriver struct {
	baseDriver
}

func newAccountingDriver(httpClient *fbhttp.Client, spec resourceSpec) *accountingDriver {
	return &accountingDriver{baseDriver{httpClient: httpClient, spec: spec}}
}

func (d *accountingDriver) Get(ctx context.Context, accountID string, resourceID int64, builders ...freshbooks.QueryBuilder) (*freshbooks.Result, error) {
	if err := d.spec.supports(opGet); err != nil {
		return nil, err
	}

	path := d.resourceURL(accountID, formatID(resourceID)) + d.buildQuery(builders)

	body, err := d.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *accountingDriver) List(ctx context.Context, accountID string, builders ...freshbooks.QueryBuilder) (*freshbooks.ListResult, error) {
	if err := d.spec.supports(opList); err != nil {
		return nil, err
	}

	path := d.collectionURL(accountID) + d.buildQuery(builders)

	body, err := d.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return d.listResult(body)
}

func (d *accountingDriver) Create(ctx context.Context, accountID string, data map[string]interface{}, builders ...freshbooks.QueryBuilder) (*freshbooks.Result, error) {
	if err := d.spec.supports(opCreate); err != nil {
		return nil, err
	}

	path := d.createURL(accountID) + d.buildQuery(builders)

	body, err := d.do(ctx, http.MethodPost, path, d.wrapBody(data))
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *accountingDriver) Update(ctx context.Context, accountID string, resourceID int64, data map[string]interface{}, builders ...freshbooks.QueryBuilder) (*freshbooks.Result, error) {
	if err := d.spec.supports(opUpdate); err != nil {
		return nil, err
	}

	path := d.resourceURL(accountID, formatID(resourceID)) + d.buildQuery(builders)

	body, err := d.do(ctx, http.MethodPut, path, d.wrapBody(data))
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

// Delete removes a resource. Most accounting resources only soft-delete:
// the driver issues an update setting vis_state to deleted. The rest take a
// plain HTTP DELETE.
func (d *accountingDriver) Delete(ctx context.Context, accountID string, resourceID int64) (*freshbooks.Result, error) {
	if err := d.spec.supports(opDelete); err != nil {
		return nil, err
	}

	path := d.resourceURL(accountID, formatID(resourceID))

	if d.spec.softDelete {
		data := map[string]interface{}{"vis_state": int(freshbooks.VisStateDeleted)}

		body, err := d.do(ctx, http.MethodPut, path, d.wrapBody(data))
		if err != nil {
			return nil, err
		}

		return d.singleResult(body)
	}

	body, err := d.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}
