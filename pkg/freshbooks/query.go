package freshbooks

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ResourceFamily identifies which upstream API sub-system a query string is
// being generated for. The accounting and events endpoints share one query
// syntax ("search[...]" filters, "include[]=" includes, "_asc"/"_desc"
// sorts); the project-like and payments endpoints use another.
type ResourceFamily int

const (
	FamilyAccounting ResourceFamily = iota
	FamilyAccountingBusiness
	FamilyProject
	FamilyEvents
	FamilyPayments
)

// accountingLike reports whether the family uses the accounting query syntax.
func (f ResourceFamily) accountingLike() bool {
	return f == FamilyAccounting || f == FamilyEvents
}

// QueryBuilder generates a query-string fragment for list and get calls.
// Fragments are "&"-prefixed; BuildQuery joins them and normalizes the
// leading separator into a single "?".
type QueryBuilder interface {
	Build(family ResourceFamily) string
}

// BuildQuery concatenates the fragments of the given builders, in order,
// into a query string with a single leading "?". Returns "" when no builder
// contributes anything.
func BuildQuery(family ResourceFamily, builders ...QueryBuilder) string {
	var fragments strings.Builder

	for _, builder := range builders {
		if builder == nil {
			continue
		}

		fragments.WriteString(builder.Build(family))
	}

	query := fragments.String()
	if query == "" {
		return ""
	}

	return "?" + strings.TrimPrefix(query, "&")
}

const (
	// MaxPerPage is the largest page size the API accepts.
	MaxPerPage = 100
	// MinPage is the first page of results.
	MinPage = 1
)

// PaginateBuilder requests a particular page of list results.
//
//	paginator := freshbooks.NewPaginateBuilder(2, 4)
//	clients, err := client.Clients().List(ctx, accountID, paginator)
type PaginateBuilder struct {
	page       int
	perPage    int
	hasPage    bool
	hasPerPage bool
}

// NewPaginateBuilder creates a paginator for the given page and page size.
// The page is clamped to a minimum of 1 and the page size to a maximum of
// 100.
func NewPaginateBuilder(page, perPage int) *PaginateBuilder {
	return (&PaginateBuilder{}).Page(page).PerPage(perPage)
}

// Page sets the page of results to fetch, clamped to a minimum of 1.
// Can be chained.
func (p *PaginateBuilder) Page(page int) *PaginateBuilder {
	p.page = max(page, MinPage)
	p.hasPage = true

	return p
}

// PerPage sets the number of results per page, clamped to a maximum of 100.
// Can be chained.
func (p *PaginateBuilder) PerPage(perPage int) *PaginateBuilder {
	p.perPage = min(perPage, MaxPerPage)
	p.hasPerPage = true

	return p
}

// GetPage returns the currently set page.
func (p *PaginateBuilder) GetPage() int {
	return p.page
}

// GetPerPage returns the currently set page size.
func (p *PaginateBuilder) GetPerPage() int {
	return p.perPage
}

// Build implements QueryBuilder. Pagination syntax is identical across
// families.
func (p *PaginateBuilder) Build(_ ResourceFamily) string {
	var fragment strings.Builder

	if p.hasPage {
		fmt.Fprintf(&fragment, "&page=%d", p.page)
	}

	if p.hasPerPage {
		fmt.Fprintf(&fragment, "&per_page=%d", p.perPage)
	}

	return fragment.String()
}

func (p *PaginateBuilder) String() string {
	return fmt.Sprintf("PaginateBuilder(page=%d, per_page=%d)", p.page, p.perPage)
}

type filterKind int

const (
	filterEquals filterKind = iota
	filterIn
	filterLike
	filterBetween
	filterBoolean
	filterDateTime
)

type filterEntry struct {
	kind  filterKind
	field string
	value interface{}
}

// FilterBuilder accumulates filters for list queries. Filter methods can be
// chained, and the builder can be reused across calls.
//
//	filter := freshbooks.NewFilterBuilder().
//		Like("email_like", "@freshbooks.com").
//		Boolean("active", true)
type FilterBuilder struct {
	filters []filterEntry
}

// NewFilterBuilder creates an empty FilterBuilder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Equals filters results where the field equals the provided value.
func (f *FilterBuilder) Equals(field string, value interface{}) *FilterBuilder {
	f.filters = append(f.filters, filterEntry{filterEquals, field, value})

	return f
}

// InList filters results where the field matches one of the provided values.
//
// List filters bind to the plural form of a field ("userid" filters equal,
// "userids" filters a list), so an "s" is appended to the field name unless
// it already ends in one. Both InList("userid", ...) and
// InList("userids", ...) produce the same query.
func (f *FilterBuilder) InList(field string, values ...interface{}) *FilterBuilder {
	if !strings.HasSuffix(field, "s") {
		field += "s"
	}

	f.filters = append(f.filters, filterEntry{filterIn, field, values})

	return f
}

// Like filters for a match contained within the field being searched.
func (f *FilterBuilder) Like(field string, value interface{}) *FilterBuilder {
	f.filters = append(f.filters, filterEntry{filterLike, field, value})

	return f
}

// Boolean filters results where the field is true or false.
func (f *FilterBuilder) Boolean(field string, value bool) *FilterBuilder {
	f.filters = append(f.filters, filterEntry{filterBoolean, field, value})

	return f
}

// DateTime filters for entries before or after a particular time, as
// specified by the field (e.g. "updated_since"). A time.Time value is
// serialized to a full ISO 8601 timestamp; string values are passed through
// unchanged.
func (f *FilterBuilder) DateTime(field string, value interface{}) *FilterBuilder {
	if t, ok := value.(time.Time); ok {
		value = t.Format("2006-01-02T15:04:05")
	}

	f.filters = append(f.filters, filterEntry{filterDateTime, field, value})

	return f
}

// Between filters results where the field lies between minValue and
// maxValue. Pass nil to leave either bound open.
//
// Between filters bind to fields ending in "_min"/"_max" (as in "amount_min")
// or "_date" (as in "start_date"). If the provided field has no such suffix,
// the appropriate "_min"/"_max" is appended. A time.Time bound is serialized
// to a bare ISO date.
func (f *FilterBuilder) Between(field string, minValue, maxValue interface{}) *FilterBuilder {
	if minValue != nil {
		f.filters = append(f.filters, filterEntry{
			filterBetween, betweenFieldName(field, "_min"), betweenValue(minValue),
		})
	}

	if maxValue != nil {
		f.filters = append(f.filters, filterEntry{
			filterBetween, betweenFieldName(field, "_max"), betweenValue(maxValue),
		})
	}

	return f
}

func betweenFieldName(field, minMax string) string {
	if strings.HasSuffix(field, "_min") || strings.HasSuffix(field, "_max") || strings.HasSuffix(field, "_date") {
		return field
	}

	return field + minMax
}

func betweenValue(value interface{}) interface{} {
	if t, ok := value.(time.Time); ok {
		return t.Format("2006-01-02")
	}

	return value
}

// Build implements QueryBuilder. Accounting-like resources wrap equals,
// like, and between filters in "search[field]=value" and list filters in
// repeated "search[field][]=value"; boolean and date-time filters are always
// emitted bare. Other families emit equals filters bare as well.
func (f *FilterBuilder) Build(family ResourceFamily) string {
	var fragment strings.Builder

	for _, entry := range f.filters {
		switch entry.kind {
		case filterLike, filterBetween:
			fmt.Fprintf(&fragment, "&search[%s]=%s", entry.field, queryValue(entry.value))
		case filterEquals:
			if family.accountingLike() {
				fmt.Fprintf(&fragment, "&search[%s]=%s", entry.field, queryValue(entry.value))
			} else {
				fmt.Fprintf(&fragment, "&%s=%s", entry.field, queryValue(entry.value))
			}
		case filterIn:
			for _, value := range entry.value.([]interface{}) {
				fmt.Fprintf(&fragment, "&search[%s][]=%s", entry.field, queryValue(value))
			}
		case filterBoolean, filterDateTime:
			fmt.Fprintf(&fragment, "&%s=%s", entry.field, queryValue(entry.value))
		}
	}

	return fragment.String()
}

func (f *FilterBuilder) String() string {
	return fmt.Sprintf("FilterBuilder(%s)", f.Build(FamilyAccounting))
}

// queryValue serializes a filter value for the query string.
func queryValue(value interface{}) string {
	return url.QueryEscape(fmt.Sprintf("%v", value))
}

// IncludesBuilder requests relationships, sub-resources, or additional data
// in the response.
//
//	includes := freshbooks.NewIncludesBuilder().Include("late_reminders")
type IncludesBuilder struct {
	includes []string
}

// NewIncludesBuilder creates an empty IncludesBuilder.
func NewIncludesBuilder() *IncludesBuilder {
	return &IncludesBuilder{}
}

// Include adds an include key. Can be chained.
func (i *IncludesBuilder) Include(key string) *IncludesBuilder {
	i.includes = append(i.includes, key)

	return i
}

// Build implements QueryBuilder. Accounting-like resources emit repeated
// "include[]=key"; other families emit "key=true".
func (i *IncludesBuilder) Build(family ResourceFamily) string {
	var fragment strings.Builder

	for _, key := range i.includes {
		if family.accountingLike() {
			fmt.Fprintf(&fragment, "&include[]=%s", key)
		} else {
			fmt.Fprintf(&fragment, "&%s=true", key)
		}
	}

	return fragment.String()
}

func (i *IncludesBuilder) String() string {
	return fmt.Sprintf("IncludesBuilder(%s)", i.Build(FamilyAccounting))
}

// SortBuilder sorts list results by a field. Only one sort is held at a
// time; the last call wins.
//
//	sort := freshbooks.NewSortBuilder().Ascending("invoice_date")
type SortBuilder struct {
	key       string
	ascending bool
}

// NewSortBuilder creates an empty SortBuilder.
func NewSortBuilder() *SortBuilder {
	return &SortBuilder{ascending: true}
}

// Ascending sorts by the field in ascending order.
func (s *SortBuilder) Ascending(key string) *SortBuilder {
	s.key = key
	s.ascending = true

	return s
}

// Asc is an alias for Ascending.
func (s *SortBuilder) Asc(key string) *SortBuilder {
	return s.Ascending(key)
}

// Descending sorts by the field in descending order.
func (s *SortBuilder) Descending(key string) *SortBuilder {
	s.key = key
	s.ascending = false

	return s
}

// Desc is an alias for Descending.
func (s *SortBuilder) Desc(key string) *SortBuilder {
	return s.Descending(key)
}

// Build implements QueryBuilder. Accounting-like resources use
// "sort=field_asc"/"sort=field_desc"; other families use "sort=field" and
// "sort=-field".
func (s *SortBuilder) Build(family ResourceFamily) string {
	if s.key == "" {
		return ""
	}

	if family.accountingLike() {
		if s.ascending {
			return fmt.Sprintf("&sort=%s_asc", s.key)
		}

		return fmt.Sprintf("&sort=%s_desc", s.key)
	}

	if s.ascending {
		return fmt.Sprintf("&sort=%s", s.key)
	}

	return fmt.Sprintf("&sort=-%s", s.key)
}

func (s *SortBuilder) String() string {
	return fmt.Sprintf("SortBuilder(%s)", s.Build(FamilyAccounting))
}
