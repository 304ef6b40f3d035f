package client

import (
	"context"
	"net/http"

	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// projectDriver serves the project, time-tracking, and comments services:
// business-id scoped resources with top-level payloads and meta pagination.
type projectDriver struct {
	baseDriver
}

func newProjectDriver(httpClient *fbhttp.Client, spec resourceSpec) *projectDriver {
	return &projectDriver{baseDriver{httpClient: httpClient, spec: spec}}
}

func (d *projectDriver) Get(ctx context.Context, businessID, resourceID int64, builders ...freshbooks.QueryBuilder) (*freshbooks.Result, error) {
	if err := d.spec.supports(opGet); err != nil {
		return nil, err
	}

	path := d.resourceURL(formatID(businessID), formatID(resourceID)) + d.buildQuery(builders)

	body, err := d.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *projectDriver) List(ctx context.Context, businessID int64, builders ...freshbooks.QueryBuilder) (*freshbooks.ListResult, error) {
	if err := d.spec.supports(opList); err != nil {
		return nil, err
	}

	path := d.collectionURL(formatID(businessID)) + d.buildQuery(builders)

	body, err := d.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return d.listResult(body)
}

func (d *projectDriver) Create(ctx context.Context, businessID int64, data map[string]interface{}) (*freshbooks.Result, error) {
	if err := d.spec.supports(opCreate); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodPost, d.createURL(formatID(businessID)), d.wrapBody(data))
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *projectDriver) Update(ctx context.Context, businessID, resourceID int64, data map[string]interface{}) (*freshbooks.Result, error) {
	if err := d.spec.supports(opUpdate); err != nil {
		return nil, err
	}

	path := d.resourceURL(formatID(businessID), formatID(resourceID))

	body, err := d.do(ctx, http.MethodPut, path, d.wrapBody(data))
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

// Delete removes a resource. The service acknowledges with an empty body.
func (d *projectDriver) Delete(ctx context.Context, businessID, resourceID int64) (*freshbooks.Result, error) {
	if err := d.spec.supports(opDelete); err != nil {
		return nil, err
	}

	path := d.resourceURL(formatID(businessID), formatID(resourceID))

	body, err := d.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}

	return freshbooks.NewResult(d.spec.singleName, body), nil
}

// projectSubDriver serves resources nested under a parent, such as the rate
// of a service. Lists read from their own collection path while single
// resources live under parent/{id}/sub.
type projectSubDriver struct {
	baseDriver

	parentPath string
	subPath    string
}

func newProjectSubDriver(httpClient *fbhttp.Client, spec resourceSpec, parentPath, subPath string) *projectSubDriver {
	return &projectSubDriver{
		baseDriver: baseDriver{httpClient: httpClient, spec: spec},
		parentPath: parentPath,
		subPath:    subPath,
	}
}

// nestedURL returns the parent/{id}/sub path for a single resource.
func (d *projectSubDriver) nestedURL(businessID, resourceID int64) string {
	return "/" + d.spec.prefix + "/" + formatID(businessID) + "/" + d.parentPath + "/" + formatID(resourceID) + "/" + d.subPath
}

func (d *projectSubDriver) Get(ctx context.Context, businessID, resourceID int64) (*freshbooks.Result, error) {
	if err := d.spec.supports(opGet); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodGet, d.nestedURL(businessID, resourceID), nil)
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

// List reads the flat collection path. Sub-resource lists carry no
// pagination metadata.
func (d *projectSubDriver) List(ctx context.Context, businessID int64, builders ...freshbooks.QueryBuilder) (*freshbooks.ListResult, error) {
	if err := d.spec.supports(opList); err != nil {
		return nil, err
	}

	path := d.collectionURL(formatID(businessID)) + d.buildQuery(builders)

	body, err := d.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return d.listResult(body)
}

// Create adds the sub-resource to the given parent.
func (d *projectSubDriver) Create(ctx context.Context, businessID, parentID int64, data map[string]interface{}) (*freshbooks.Result, error) {
	if err := d.spec.supports(opCreate); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodPost, d.nestedURL(businessID, parentID), d.wrapBody(data))
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *projectSubDriver) Update(ctx context.Context, businessID, resourceID int64, data map[string]interface{}) (*freshbooks.Result, error) {
	if err := d.spec.supports(opUpdate); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodPut, d.nestedURL(businessID, resourceID), d.wrapBody(data))
	if err != nil {
		return nil, err
	}

	return d.singleResult(body)
}

func (d *projectSubDriver) Delete(ctx context.Context, businessID, resourceID int64) (*freshbooks.Result, error) {
	if err := d.spec.supports(opDelete); err != nil {
		return nil, err
	}

	body, err := d.do(ctx, http.MethodDelete, d.nestedURL(businessID, resourceID), nil)
	if err != nil {
		return nil, err
	}

	return freshbooks.NewResult(d.spec.singleName, body), nil
}
