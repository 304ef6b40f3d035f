// Package client implements the FreshBooks resource drivers and the facade
// that hands them out. All drivers share one parametrized core: the path
// prefix, envelope key names, error-extraction strategy, delete mode, and
// unsupported operations are per-resource configuration, not per-resource
// code.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// Static errors for err113 compliance.
var (
	ErrUnexpectedResponse = errors.New("returned an unexpected response")
)

// Operation names used in unsupported-operation checks and errors.
const (
	opGet    = "get"
	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// envelopeStyle selects how a family wraps its success payloads.
type envelopeStyle int

const (
	// envelopeResponseResult is the accounting/events style:
	// {"response": {"result": {...}}}.
	envelopeResponseResult envelopeStyle = iota
	// envelopeTopLevel is the project-like and payments style: the payload
	// is the body itself.
	envelopeTopLevel
)

// errorStyle selects how a family reports failures.
type errorStyle int

const (
	errorStyleAccounting errorStyle = iota
	errorStyleEvents
	errorStyleBusiness
	errorStyleProject
	errorStylePayments
)

// resourceSpec is the declarative description of one API resource. The
// facade hard-codes one of these per resource; everything the driver does
// follows from it.
type resourceSpec struct {
	// family decides which query-string dialect the builders render.
	family freshbooks.ResourceFamily
	// prefix is the URL segment between the host and the account or
	// business identifier, e.g. "accounting/account".
	prefix string
	// path is the resource's own URL segment, e.g. "users/clients". The
	// project-like services address single resources and creates through a
	// singular segment, so path holds that and listPath the plural one.
	path string
	// listPath overrides path for list calls when set.
	listPath string
	// singleName keys a single entity in envelopes and request bodies.
	singleName string
	// listName keys the entity array in list envelopes.
	listName string
	// envelope selects the success unwrapping strategy.
	envelope envelopeStyle
	// errors selects the failure extraction strategy.
	errors errorStyle
	// softDelete makes Delete issue an update setting vis_state to
	// deleted instead of an HTTP DELETE.
	softDelete bool
	// missingOps lists operations the upstream API does not support for
	// this resource. Calls to them fail before any network traffic.
	missingOps []string
	// staticParams is a raw query fragment appended to every request,
	// e.g. "entity_type=invoice".
	staticParams string
}

func (s resourceSpec) supports(operation string) error {
	for _, missing := range s.missingOps {
		if missing == operation {
			return &freshbooks.NotImplementedError{
				ResourceName: s.listName,
				Operation:    operation,
			}
		}
	}

	return nil
}

// baseDriver carries the transport and the resource description. Concrete
// drivers embed it and add the family's operation surface.
type baseDriver struct {
	httpClient *fbhttp.Client
	spec       resourceSpec
}

// collectionURL returns the URL for list calls.
func (d *baseDriver) collectionURL(scopeID string) string {
	path := d.spec.path
	if d.spec.listPath != "" {
		path = d.spec.listPath
	}

	return "/" + d.spec.prefix + "/" + scopeID + "/" + path
}

// createURL returns the URL for create calls, which address the singular
// path.
func (d *baseDriver) createURL(scopeID string) string {
	return "/" + d.spec.prefix + "/" + scopeID + "/" + d.spec.path
}

// resourceURL returns the URL for a single resource.
func (d *baseDriver) resourceURL(scopeID, resourceID string) string {
	return d.createURL(scopeID) + "/" + resourceID
}

// buildQuery renders the ordered builders plus any static parameters into a
// single query string.
func (d *baseDriver) buildQuery(builders []freshbooks.QueryBuilder) string {
	query := freshbooks.BuildQuery(d.spec.family, builders...)

	if d.spec.staticParams != "" {
		if query == "" {
			return "?" + d.spec.staticParams
		}

		return query + "&" + d.spec.staticParams
	}

	return query
}

// decodeBody decodes a JSON body preserving numeric precision. A non-JSON
// body is a transport-level failure, not an API error.
func decodeBody(resp *fbhttp.Response) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return map[string]interface{}{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(resp.Body))
	decoder.UseNumber()

	var body map[string]interface{}

	err := decoder.Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response with status %d: %w", resp.StatusCode, err)
	}

	return body, nil
}

// do sends the request and decodes the body, applying the family's error
// extraction on non-2xx statuses.
func (d *baseDriver) do(ctx context.Context, method, path string, reqBody interface{}) (map[string]interface{}, error) {
	resp, err := d.httpClient.Do(ctx, &fbhttp.Request{
		Method: method,
		Path:   path,
		Body:   reqBody,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNoContent {
		return map[string]interface{}{}, nil
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, extractError(d.spec.errors, resp.StatusCode, body, string(resp.Body))
	}

	return body, nil
}

// unwrapEnvelope peels the family wrapper off a success body, returning the
// mapping that carries the entity keys.
func (d *baseDriver) unwrapEnvelope(body map[string]interface{}) (map[string]interface{}, error) {
	if d.spec.envelope == envelopeTopLevel || len(body) == 0 {
		return body, nil
	}

	response, ok := body["response"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s %w", d.spec.listName, ErrUnexpectedResponse)
	}

	result, ok := response["result"].(map[string]interface{})
	if !ok {
		// Some accounting responses carry the payload directly under
		// "response", notably delete acknowledgements.
		return response, nil
	}

	return result, nil
}

// singleResult unwraps and wraps a single-entity success body. An absent
// entity key on a non-empty body is a shape error: the call succeeded but
// the contract was violated.
func (d *baseDriver) singleResult(body map[string]interface{}) (*freshbooks.Result, error) {
	envelope, err := d.unwrapEnvelope(body)
	if err != nil {
		return nil, err
	}

	if len(envelope) > 0 {
		if _, ok := envelope[d.spec.singleName]; !ok {
			return nil, fmt.Errorf("%s %w", d.spec.listName, ErrUnexpectedResponse)
		}
	}

	return freshbooks.NewResult(d.spec.singleName, envelope), nil
}

// listResult unwraps and wraps a list success body, retaining the envelope
// for pagination metadata.
func (d *baseDriver) listResult(body map[string]interface{}) (*freshbooks.ListResult, error) {
	envelope, err := d.unwrapEnvelope(body)
	if err != nil {
		return nil, err
	}

	if _, ok := envelope[d.spec.listName]; !ok {
		return nil, fmt.Errorf("%s %w", d.spec.listName, ErrUnexpectedResponse)
	}

	return freshbooks.NewListResult(d.spec.listName, d.spec.singleName, envelope), nil
}

// wrapBody wraps create/update data under the resource's singular key for
// the families that expect it.
func (d *baseDriver) wrapBody(data map[string]interface{}) interface{} {
	if d.spec.errors == errorStyleBusiness {
		return data
	}

	return map[string]interface{}{d.spec.singleName: data}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// extractError turns a non-2xx decoded body into a freshbooks.Error using
// the family's reporting shape.
func extractError(style errorStyle, statusCode int, body map[string]interface{}, raw string) error {
	apiErr := &freshbooks.Error{
		StatusCode: statusCode,
		Message:    "Unknown error",
		Raw:        raw,
	}

	switch style {
	case errorStyleAccounting:
		extractAccountingError(apiErr, body)
	case errorStyleEvents:
		extractEventsError(apiErr, body)
	case errorStyleBusiness:
		extractBusinessError(apiErr, body)
	case errorStyleProject:
		extractProjectError(apiErr, body)
	case errorStylePayments:
		extractPaymentsError(apiErr, body)
	}

	return apiErr
}

const (
	errorInfoType  = "type.googleapis.com/google.rpc.ErrorInfo"
	badRequestType = "type.googleapis.com/google.rpc.BadRequest"
)

// extractAccountingError handles {"response": {"errors": ...}} where errors
// is an array or a single object carrying message and errno. Newer
// accounting endpoints skip the envelope and report a top-level message with
// google.rpc detail objects.
func extractAccountingError(apiErr *freshbooks.Error, body map[string]interface{}) {
	if response, ok := body["response"].(map[string]interface{}); ok {
		switch errs := response["errors"].(type) {
		case []interface{}:
			if len(errs) == 0 {
				return
			}

			if first, ok := errs[0].(map[string]interface{}); ok {
				applyAccountingEntry(apiErr, first)
			}

			return
		case map[string]interface{}:
			applyAccountingEntry(apiErr, errs)

			return
		}
	}

	applyAccountingEntry(apiErr, body)

	details, _ := body["details"].([]interface{})
	for _, rawDetail := range details {
		detail, ok := rawDetail.(map[string]interface{})
		if !ok || detail["@type"] != errorInfoType {
			continue
		}

		apiErr.Code = intField(detail, "reason")

		if metadata, ok := detail["metadata"].(map[string]interface{}); ok {
			apiErr.Details = append(apiErr.Details, metadata)

			if message, ok := metadata["message"].(string); ok && message != "" {
				apiErr.Message = message
			}
		}
	}
}

func applyAccountingEntry(apiErr *freshbooks.Error, entry map[string]interface{}) {
	if message, ok := entry["message"].(string); ok {
		apiErr.Message = message
	}

	apiErr.Code = intField(entry, "errno")
}

// extractEventsError handles the events service's top-level message/code
// bodies. Validation failures carry google.rpc.BadRequest field violations,
// which are retained as details.
func extractEventsError(apiErr *freshbooks.Error, body map[string]interface{}) {
	if message, ok := body["message"].(string); ok {
		apiErr.Message = message
	}

	apiErr.Code = intField(body, "code")
	if apiErr.Code == 0 {
		apiErr.Code = intField(body, "errno")
	}

	details, _ := body["details"].([]interface{})
	for _, rawDetail := range details {
		detail, ok := rawDetail.(map[string]interface{})
		if !ok || detail["@type"] != badRequestType {
			continue
		}

		violations, _ := detail["fieldViolations"].([]interface{})
		for _, rawViolation := range violations {
			if violation, ok := rawViolation.(map[string]interface{}); ok {
				apiErr.Details = append(apiErr.Details, violation)
			}
		}
	}
}

// extractBusinessError handles {"errors": {"message": ..., "details":
// [...]}}. The surfaced message is the last detail reason seen; all detail
// metadata is retained for inspection.
func extractBusinessError(apiErr *freshbooks.Error, body map[string]interface{}) {
	errs, ok := body["errors"].(map[string]interface{})
	if !ok {
		return
	}

	if message, ok := errs["message"].(string); ok {
		apiErr.Message = message
	}

	details, ok := errs["details"].([]interface{})
	if !ok {
		return
	}

	for _, rawDetail := range details {
		detail, ok := rawDetail.(map[string]interface{})
		if !ok {
			continue
		}

		if reason, ok := detail["reason"].(string); ok {
			apiErr.Message = reason
		}

		if metadata, ok := detail["metadata"].(map[string]interface{}); ok {
			apiErr.Details = append(apiErr.Details, metadata)
		}
	}
}

// extractProjectError handles top-level errno/message bodies. The "error"
// field may be a string or a mapping of field names to messages; mapping
// entries are retained as details.
func extractProjectError(apiErr *freshbooks.Error, body map[string]interface{}) {
	apiErr.Code = intField(body, "errno")

	message, hasMessage := body["message"].(string)
	if hasMessage {
		apiErr.Message = message
	}

	switch errValue := body["error"].(type) {
	case string:
		if !hasMessage {
			apiErr.Message = errValue
		}
	case map[string]interface{}:
		fields := make([]string, 0, len(errValue))
		for field := range errValue {
			fields = append(fields, field)
		}

		sort.Strings(fields)

		for _, field := range fields {
			apiErr.Details = append(apiErr.Details, map[string]interface{}{field: errValue[field]})
			apiErr.Message = fmt.Sprintf("Error: %s %v", field, errValue[field])
		}
	}
}

// extractPaymentsError handles {"errors": [{"field": ..., "message": ...}]}
// bodies, falling back to a top-level message.
func extractPaymentsError(apiErr *freshbooks.Error, body map[string]interface{}) {
	if message, ok := body["message"].(string); ok {
		apiErr.Message = message
	}

	switch errs := body["errors"].(type) {
	case []interface{}:
		if len(errs) == 0 {
			return
		}

		if entry, ok := errs[0].(map[string]interface{}); ok {
			formatPaymentsEntry(apiErr, entry)
		}
	case map[string]interface{}:
		formatPaymentsEntry(apiErr, errs)
	}
}

func formatPaymentsEntry(apiErr *freshbooks.Error, entry map[string]interface{}) {
	field, _ := entry["field"].(string)
	message, _ := entry["message"].(string)

	if field != "" || message != "" {
		apiErr.Message = fmt.Sprintf("%s: %s", field, message)
	}
}

func intField(entry map[string]interface{}, key string) int {
	switch value := entry[key].(type) {
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0
		}

		return int(parsed)
	case float64:
		return int(value)
	case int:
		return value
	case string:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0
		}

		return parsed
	}

	return 0
}
