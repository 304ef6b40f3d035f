package client

import (
	"context"
	"fmt"
	"net/http"

	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// businessDriver serves resources scoped to a business uuid under the
// accounting service's newer surface: data-keyed envelopes, unwrapped
// request bodies, and hard deletes acknowledged with 204.
type businessDriver struct {
	baseDriver
}

func newBusinessDriver(httpClient *fbhttp.Client, spec resourceSpec) *businessDriver {
	return &businessDriver{baseDriver{httpClient: httpClient, spec: spec}}
}

// The service keys every payload under "data". Results are re-keyed under
// the resource's own name so they read like the rest of the library.
func (d *businessDriver) singleResult(body map[string]interface{}) (*freshbooks.Result, error) {
	data, ok := body["data"]
	if !ok {
		return nil, fmt.Errorf("%s %w", d.spec.listName, ErrUnexpectedResponse)
	}

	return freshbooks.NewResult(d.spec.singleName, map[string]interface{}{d.spec.singleName: data}), nil
}

func (d *businessDriver) listResult(body map[string]interface{}) (*freshbooks.ListResult, error) {
	data, ok := body["data"]
	if !ok {
		return nil, fmt.Errorf("%s %w", d.spec.listName, ErrUnexpectedResponse)
	}

	return freshbooks.NewListResult(d.spec.listName, d.spec.singleName,
		map[string]interface{}{d.spec.listName: data}), nil
}

func (d *businessDriver) Get(ctx context.Context, businessUUID, resourceUUID string) (*freshbooks.Result, error) {
	if err := d.spec.supports(opGet); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodGet, d.resourceURL(businessUUID, resourceUUID), nil)
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *businessDriver) List(ctx context.Context, businessUUID string) (*freshbooks.ListResult, error) {
	if err := d.spec.supports(opList); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodGet, d.collectionURL(businessUUID), nil)
	if err != nil {
		return nil, err
	}

	return d.listResult(body)
}

func (d *businessDriver) Create(ctx context.Context, businessUUID string, data map[string]interface{}) (*freshbooks.Result, error) {
	if err := d.spec.supports(opCreate); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodPost, d.createURL(businessUUID), d.wrapBody(data))
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *businessDriver) Update(ctx context.Context, businessUUID, resourceUUID string, data map[string]interface{}) (*freshbooks.Result, error) {
	if err := d.spec.supports(opUpdate); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodPut, d.resourceURL(businessUUID, resourceUUID), d.wrapBody(data))
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

// Delete removes a resource. The service acknowledges with 204 and no
// body; the returned Result is empty.
func (d *businessDriver) Delete(ctx context.Context, businessUUID, resourceUUID string) (*freshbooks.Result, error) {
	if err := d.spec.supports(opDelete); err != nil {
		return nil, err
	}

	if _, err := d.do(ctx, http.MethodDelete, d.resourceURL(businessUUID, resourceUUID), nil); err != nil {
		return nil, err
	}

	return freshbooks.NewResult(d.spec.singleName,
		map[string]interface{}{d.spec.singleName: map[string]interface{}{}}), nil
}
