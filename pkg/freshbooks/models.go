package freshbooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ErrListTypeMismatch is returned when concatenating ListResults over
// different collections.
var ErrListTypeMismatch = errors.New("list results are not of the same type")

// VisState is the lifecycle status code carried by most accounting
// entities. Deleting is usually a soft operation that sets this field.
type VisState int

const (
	VisStateActive   VisState = 0
	VisStateDeleted  VisState = 1
	VisStateArchived VisState = 2
)

// Result is a single-entity view over an API response.
//
// Fields are accessed dynamically via Get or the typed helpers; the field
// set is determined by the remote API version, so no exhaustive struct
// exists. The decoded entity payload is available directly as Data.
//
//	client, err := fb.Clients().Get(ctx, accountID, clientID)
//	client.GetString("organization") // "FreshBooks"
//	client.Data["organization"]      // same, untyped
type Result struct {
	name string
	// Data is the decoded field map of the entity. Numbers are
	// json.Number values to preserve monetary precision.
	Data map[string]interface{}
}

// NewResult creates a Result over the envelope's entry for name. A missing
// entry yields an empty Result rather than an error.
func NewResult(name string, envelope map[string]interface{}) *Result {
	data, _ := envelope[name].(map[string]interface{})
	if data == nil {
		data = map[string]interface{}{}
	}

	return &Result{name: name, Data: data}
}

// Name returns the logical entity key, e.g. "client".
func (r *Result) Name() string {
	return r.name
}

func (r *Result) String() string {
	return fmt.Sprintf("Result(%s)", r.name)
}

// Get returns the coerced value of a field, computed per access:
//
//   - an absent or null field returns nil, never an error
//   - an object field returns a child *Result keyed by the field name
//   - an array field returns a child *ListResult without pagination
//   - a string field that parses as an ISO date or timestamp returns a
//     time.Time, normalized to UTC per the accounting timezone rules
//   - anything else is returned as decoded (json.Number for numbers)
func (r *Result) Get(field string) interface{} {
	raw, ok := r.Data[field]
	if !ok || raw == nil {
		return nil
	}

	switch value := raw.(type) {
	case map[string]interface{}:
		return NewResult(field, map[string]interface{}{field: value})
	case []interface{}:
		return newListResult(field, field, map[string]interface{}{field: value}, false)
	case string:
		if date, ok := parseDate(value); ok {
			return date
		}

		if stamp, ok := parseTimestamp(value, r.name, field); ok {
			return stamp
		}

		return value
	default:
		return raw
	}
}

// GetString returns the raw string value of a field, or "" when the field
// is absent or not a string.
func (r *Result) GetString(field string) string {
	value, _ := r.Data[field].(string)

	return value
}

// GetInt returns the integer value of a field.
func (r *Result) GetInt(field string) (int64, bool) {
	switch value := r.Data[field].(type) {
	case json.Number:
		parsed, err := value.Int64()

		return parsed, err == nil
	case float64:
		return int64(value), true
	case int:
		return int64(value), true
	case int64:
		return value, true
	default:
		return 0, false
	}
}

// GetBool returns the boolean value of a field.
func (r *Result) GetBool(field string) (bool, bool) {
	value, ok := r.Data[field].(bool)

	return value, ok
}

// GetDecimal returns the value of a monetary field with full decimal
// precision.
func (r *Result) GetDecimal(field string) (decimal.Decimal, bool) {
	switch value := r.Data[field].(type) {
	case json.Number:
		parsed, err := decimal.NewFromString(value.String())

		return parsed, err == nil
	case string:
		parsed, err := decimal.NewFromString(value)

		return parsed, err == nil
	case float64:
		return decimal.NewFromFloat(value), true
	default:
		return decimal.Decimal{}, false
	}
}

// GetTime returns the field coerced to a UTC time per the rules of Get.
func (r *Result) GetTime(field string) (time.Time, bool) {
	stamp, ok := r.Get(field).(time.Time)

	return stamp, ok
}

// Object returns an object-valued field as a child Result, or nil.
func (r *Result) Object(field string) *Result {
	child, _ := r.Get(field).(*Result)

	return child
}

// List returns an array-valued field as a child ListResult, or nil.
func (r *Result) List(field string) *ListResult {
	child, _ := r.Get(field).(*ListResult)

	return child
}

// GetVisState returns the entity's lifecycle state. ok is false when the
// field is absent or not one of the three valid codes.
func (r *Result) GetVisState() (VisState, bool) {
	code, ok := r.GetInt("vis_state")
	if !ok {
		return 0, false
	}

	state := VisState(code)
	switch state {
	case VisStateActive, VisStateDeleted, VisStateArchived:
		return state, true
	default:
		return 0, false
	}
}

// PageResult describes the position of a ListResult within the full
// collection.
type PageResult struct {
	Page    int
	Pages   int
	PerPage int
	Total   int
}

// ListResult is a paginated collection view over an API response.
//
//	clients, err := fb.Clients().List(ctx, accountID)
//	clients.Index(0).GetString("organization")
//	for client := range clients.Results() {
//		...
//	}
type ListResult struct {
	name       string
	singleName string
	// Data is the full decoded payload, retained for introspection.
	Data map[string]interface{}
	// Pages is nil when the API provides no pagination metadata, e.g.
	// for sub-resource lists.
	Pages *PageResult
}

// NewListResult creates a ListResult over the envelope's collection entry.
func NewListResult(name, singleName string, envelope map[string]interface{}) *ListResult {
	return newListResult(name, singleName, envelope, true)
}

func newListResult(name, singleName string, data map[string]interface{}, includePages bool) *ListResult {
	list := &ListResult{name: name, singleName: singleName, Data: data}
	if includePages {
		list.Pages = buildPages(data)
	}

	return list
}

// buildPages derives the page descriptor, preferring the "meta" sub-object
// used by project-style endpoints over the accounting-style top-level
// fields.
func buildPages(data map[string]interface{}) *PageResult {
	source := data
	if meta, ok := data["meta"].(map[string]interface{}); ok {
		source = meta
	}

	page, ok := pageField(source, "page")
	if !ok {
		return nil
	}

	pages, _ := pageField(source, "pages")
	perPage, _ := pageField(source, "per_page")
	total, _ := pageField(source, "total")

	return &PageResult{Page: page, Pages: pages, PerPage: perPage, Total: total}
}

func pageField(source map[string]interface{}, field string) (int, bool) {
	switch value := source[field].(type) {
	case json.Number:
		parsed, err := value.Int64()

		return int(parsed), err == nil
	case float64:
		return int(value), true
	case int:
		return value, true
	case string:
		parsed, err := strconv.Atoi(value)

		return parsed, err == nil
	default:
		return 0, false
	}
}

// Name returns the collection key, e.g. "clients".
func (l *ListResult) Name() string {
	return l.name
}

// SingleName returns the per-item key, e.g. "client".
func (l *ListResult) SingleName() string {
	return l.singleName
}

func (l *ListResult) String() string {
	return fmt.Sprintf("ListResult(%s)", l.name)
}

func (l *ListResult) items() []interface{} {
	items, _ := l.Data[l.name].([]interface{})

	return items
}

// Len returns the number of items in this page of results.
func (l *ListResult) Len() int {
	return len(l.items())
}

// Index returns the item at position i as a Result.
func (l *ListResult) Index(i int) *Result {
	item, _ := l.items()[i].(map[string]interface{})

	return NewResult(l.singleName, map[string]interface{}{l.singleName: item})
}

// Results iterates the items in array order as Result values.
func (l *ListResult) Results() iter.Seq[*Result] {
	return func(yield func(*Result) bool) {
		for i := range l.items() {
			if !yield(l.Index(i)) {
				return
			}
		}
	}
}

// Concat merges two ListResults over the same collection into a new one
// holding l's items followed by other's. The page descriptor is rebuilt
// from whichever side's raw payload has the larger page number; ties favor
// the receiver. Returns ErrListTypeMismatch when the collection keys
// differ.
func (l *ListResult) Concat(other *ListResult) (*ListResult, error) {
	if other == nil || l.name != other.name {
		return nil, ErrListTypeMismatch
	}

	data, _ := deepCopyValue(l.Data).(map[string]interface{})
	items, _ := data[l.name].([]interface{})
	data[l.name] = append(items, other.items()...)

	combined := newListResult(l.name, l.singleName, data, false)

	if other.Pages != nil && (l.Pages == nil || other.Pages.Page > l.Pages.Page) {
		combined.Pages = buildPages(other.Data)
	} else {
		combined.Pages = buildPages(l.Data)
	}

	return combined, nil
}

func deepCopyValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		copied := make(map[string]interface{}, len(typed))
		for key, entry := range typed {
			copied[key] = deepCopyValue(entry)
		}

		return copied
	case []interface{}:
		copied := make([]interface{}, len(typed))
		for i, entry := range typed {
			copied[i] = deepCopyValue(entry)
		}

		return copied
	default:
		return value
	}
}

// Identity is a Result over the authenticated user's identity payload,
// with helpers for the commonly needed fields. Unlike other results it has
// no enclosing envelope key.
type Identity struct {
	Result
}

// NewIdentity creates an Identity directly from the decoded payload.
func NewIdentity(data map[string]interface{}) *Identity {
	if data == nil {
		data = map[string]interface{}{}
	}

	return &Identity{Result{name: "identity", Data: data}}
}

// IdentityID returns the authenticated user's identity id.
func (i *Identity) IdentityID() int64 {
	id, _ := i.GetInt("identity_id")

	return id
}

// FullName returns the authenticated user's name.
func (i *Identity) FullName() string {
	return fmt.Sprintf("%s %s", i.GetString("first_name"), i.GetString("last_name"))
}

// Email returns the authenticated user's email.
func (i *Identity) Email() string {
	return i.GetString("email")
}

// BusinessMemberships returns the user's businesses and their role in each.
func (i *Identity) BusinessMemberships() *ListResult {
	return i.List("business_memberships")
}

func (i *Identity) String() string {
	return fmt.Sprintf("Identity(%d, %s)", i.IdentityID(), i.Email())
}
