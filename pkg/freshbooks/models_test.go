package freshbooks_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

// decodeJSON decodes a payload the way the API client does, preserving
// numbers as json.Number.
func decodeJSON(t *testing.T, payload string) map[string]interface{} {
	t.Helper()

	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.UseNumber()

	var data map[string]interface{}
	require.NoError(t, decoder.Decode(&data))

	return data
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestResult_Get(t *testing.T) {
	t.Parallel()

	client := freshbooks.NewResult("client", decodeJSON(t, `{
		"client": {
			"id": 12345,
			"organization": "American Cyanamid",
			"active": true,
			"amount_outstanding": {"amount": "10.50", "code": "USD"},
			"contacts": [{"email": "leaf@example.com"}],
			"note": null,
			"signup_date": "2021-06-28 14:05:15",
			"updated": "2021-06-28 14:05:15",
			"due_date": "2021-07-15"
		}
	}`))

	t.Run("name and string form", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "client", client.Name())
		assert.Equal(t, "Result(client)", client.String())
	})

	t.Run("absent and null fields return nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, client.Get("missing"))
		assert.Nil(t, client.Get("note"))
	})

	t.Run("scalar fields", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "American Cyanamid", client.GetString("organization"))
		assert.Empty(t, client.GetString("id"))

		id, ok := client.GetInt("id")
		assert.True(t, ok)
		assert.Equal(t, int64(12345), id)

		_, ok = client.GetInt("organization")
		assert.False(t, ok)

		active, ok := client.GetBool("active")
		assert.True(t, ok)
		assert.True(t, active)
	})

	t.Run("object field returns child result", func(t *testing.T) {
		t.Parallel()

		outstanding := client.Object("amount_outstanding")
		require.NotNil(t, outstanding)
		assert.Equal(t, "amount_outstanding", outstanding.Name())
		assert.Equal(t, "USD", outstanding.GetString("code"))

		amount, ok := outstanding.GetDecimal("amount")
		assert.True(t, ok)
		assert.Equal(t, "10.5", amount.String())
	})

	t.Run("array field returns child list without pages", func(t *testing.T) {
		t.Parallel()

		contacts := client.List("contacts")
		require.NotNil(t, contacts)
		assert.Equal(t, 1, contacts.Len())
		assert.Nil(t, contacts.Pages)
		assert.Equal(t, "leaf@example.com", contacts.Index(0).GetString("email"))
	})

	t.Run("non-object field is not a child", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, client.Object("organization"))
		assert.Nil(t, client.List("organization"))
	})

	t.Run("bare date field", func(t *testing.T) {
		t.Parallel()

		due, ok := client.GetTime("due_date")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2021, 7, 15, 0, 0, 0, 0, time.UTC), due)
	})
}

func TestResult_GetDecimal(t *testing.T) {
	t.Parallel()

	invoice := freshbooks.NewResult("invoice", decodeJSON(t, `{
		"invoice": {"amount": "99999999999999.99", "rate": 1.5, "note": "n/a"}
	}`))

	t.Run("string amounts keep full precision", func(t *testing.T) {
		t.Parallel()

		amount, ok := invoice.GetDecimal("amount")
		assert.True(t, ok)
		assert.True(t, amount.Equal(decimal.RequireFromString("99999999999999.99")))
	})

	t.Run("numeric amounts", func(t *testing.T) {
		t.Parallel()

		rate, ok := invoice.GetDecimal("rate")
		assert.True(t, ok)
		assert.True(t, rate.Equal(decimal.NewFromFloat(1.5)))
	})

	t.Run("non-numeric strings are rejected", func(t *testing.T) {
		t.Parallel()

		_, ok := invoice.GetDecimal("note")
		assert.False(t, ok)
	})
}

// Accounting timestamps arrive without a zone and are meant to be read as
// US/Eastern, except for a handful of fields the API already reports in
// UTC.
func TestResult_Timestamps(t *testing.T) {
	t.Parallel()

	t.Run("eastern daylight time", func(t *testing.T) {
		t.Parallel()

		client := freshbooks.NewResult("client", decodeJSON(t,
			`{"client": {"updated": "2021-06-28 14:05:15"}}`))

		updated, ok := client.GetTime("updated")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2021, 6, 28, 18, 5, 15, 0, time.UTC), updated)
	})

	t.Run("eastern standard time", func(t *testing.T) {
		t.Parallel()

		client := freshbooks.NewResult("client", decodeJSON(t,
			`{"client": {"updated": "2021-01-28 14:05:15"}}`))

		updated, ok := client.GetTime("updated")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2021, 1, 28, 19, 5, 15, 0, time.UTC), updated)
	})

	t.Run("iso timestamps are already utc", func(t *testing.T) {
		t.Parallel()

		entry := freshbooks.NewResult("time_entry", decodeJSON(t,
			`{"time_entry": {"started_at": "2021-06-28T14:05:15Z"}}`))

		started, ok := entry.GetTime("started_at")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2021, 6, 28, 14, 5, 15, 0, time.UTC), started)
	})

	t.Run("explicit offsets are honored", func(t *testing.T) {
		t.Parallel()

		entry := freshbooks.NewResult("time_entry", decodeJSON(t,
			`{"time_entry": {"started_at": "2021-06-28T14:05:15+00:00"}}`))
		started, ok := entry.GetTime("started_at")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2021, 6, 28, 14, 5, 15, 0, time.UTC), started)

		client := freshbooks.NewResult("client", decodeJSON(t,
			`{"client": {"updated": "2021-06-28T14:05:15-04:00"}}`))
		updated, ok := client.GetTime("updated")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2021, 6, 28, 18, 5, 15, 0, time.UTC), updated)
	})

	t.Run("utc field allowlist", func(t *testing.T) {
		t.Parallel()

		client := freshbooks.NewResult("client", decodeJSON(t,
			`{"client": {"signup_date": "2021-06-28 14:05:15"}}`))
		signup, ok := client.GetTime("signup_date")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2021, 6, 28, 14, 5, 15, 0, time.UTC), signup)

		bill := freshbooks.NewResult("bill", decodeJSON(t,
			`{"bill": {"created_at": "2021-06-28 14:05:15"}}`))
		created, ok := bill.GetTime("created_at")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2021, 6, 28, 14, 5, 15, 0, time.UTC), created)
	})

	t.Run("non-temporal strings pass through", func(t *testing.T) {
		t.Parallel()

		client := freshbooks.NewResult("client", decodeJSON(t,
			`{"client": {"organization": "2021 Holdings Inc"}}`))
		assert.Equal(t, "2021 Holdings Inc", client.Get("organization"))
	})
}

func TestResult_GetVisState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    freshbooks.VisState
		wantOK  bool
	}{
		{"active", `{"client": {"vis_state": 0}}`, freshbooks.VisStateActive, true},
		{"deleted", `{"client": {"vis_state": 1}}`, freshbooks.VisStateDeleted, true},
		{"archived", `{"client": {"vis_state": 2}}`, freshbooks.VisStateArchived, true},
		{"unknown code", `{"client": {"vis_state": 5}}`, 0, false},
		{"absent", `{"client": {}}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := freshbooks.NewResult("client", decodeJSON(t, tt.payload))
			state, ok := client.GetVisState()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestNewResult_MissingEntry(t *testing.T) {
	t.Parallel()

	result := freshbooks.NewResult("client", map[string]interface{}{})
	assert.NotNil(t, result)
	assert.Nil(t, result.Get("anything"))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestListResult(t *testing.T) {
	t.Parallel()

	clients := freshbooks.NewListResult("clients", "client", decodeJSON(t, `{
		"clients": [
			{"id": 1, "organization": "One"},
			{"id": 2, "organization": "Two"}
		],
		"page": 1,
		"pages": 3,
		"per_page": 2,
		"total": 6
	}`))

	t.Run("names and string form", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "clients", clients.Name())
		assert.Equal(t, "client", clients.SingleName())
		assert.Equal(t, "ListResult(clients)", clients.String())
	})

	t.Run("accounting pagination fields", func(t *testing.T) {
		t.Parallel()

		require.NotNil(t, clients.Pages)
		assert.Equal(t, 1, clients.Pages.Page)
		assert.Equal(t, 3, clients.Pages.Pages)
		assert.Equal(t, 2, clients.Pages.PerPage)
		assert.Equal(t, 6, clients.Pages.Total)
	})

	t.Run("indexed access", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 2, clients.Len())
		assert.Equal(t, "One", clients.Index(0).GetString("organization"))
		assert.Equal(t, "Two", clients.Index(1).GetString("organization"))
		assert.Equal(t, "client", clients.Index(0).Name())
	})

	t.Run("iteration preserves order", func(t *testing.T) {
		t.Parallel()

		var names []string
		for client := range clients.Results() {
			names = append(names, client.GetString("organization"))
		}
		assert.Equal(t, []string{"One", "Two"}, names)
	})

	t.Run("meta pagination is preferred", func(t *testing.T) {
		t.Parallel()

		projects := freshbooks.NewListResult("projects", "project", decodeJSON(t, `{
			"projects": [{"id": 1}],
			"meta": {"page": 2, "pages": 4, "per_page": 1, "total": 4}
		}`))
		require.NotNil(t, projects.Pages)
		assert.Equal(t, 2, projects.Pages.Page)
		assert.Equal(t, 4, projects.Pages.Total)
	})

	t.Run("no pagination metadata", func(t *testing.T) {
		t.Parallel()

		profiles := freshbooks.NewListResult("profiles", "profile", decodeJSON(t,
			`{"profiles": [{"id": 1}]}`))
		assert.Nil(t, profiles.Pages)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestListResult_Concat(t *testing.T) {
	t.Parallel()

	pageOne := func(t *testing.T) *freshbooks.ListResult {
		t.Helper()

		return freshbooks.NewListResult("clients", "client", decodeJSON(t, `{
			"clients": [{"id": 1}, {"id": 2}],
			"page": 1, "pages": 2, "per_page": 2, "total": 3
		}`))
	}
	pageTwo := func(t *testing.T) *freshbooks.ListResult {
		t.Helper()

		return freshbooks.NewListResult("clients", "client", decodeJSON(t, `{
			"clients": [{"id": 3}],
			"page": 2, "pages": 2, "per_page": 2, "total": 3
		}`))
	}

	t.Run("appends in order", func(t *testing.T) {
		t.Parallel()

		combined, err := pageOne(t).Concat(pageTwo(t))
		require.NoError(t, err)
		assert.Equal(t, 3, combined.Len())

		var ids []int64
		for client := range combined.Results() {
			id, _ := client.GetInt("id")
			ids = append(ids, id)
		}
		assert.Equal(t, []int64{1, 2, 3}, ids)
	})

	t.Run("pages follow the later page", func(t *testing.T) {
		t.Parallel()

		combined, err := pageOne(t).Concat(pageTwo(t))
		require.NoError(t, err)
		require.NotNil(t, combined.Pages)
		assert.Equal(t, 2, combined.Pages.Page)
		assert.Equal(t, 3, combined.Pages.Total)

		reversed, err := pageTwo(t).Concat(pageOne(t))
		require.NoError(t, err)
		require.NotNil(t, reversed.Pages)
		assert.Equal(t, 2, reversed.Pages.Page)
	})

	t.Run("equal pages favor the receiver", func(t *testing.T) {
		t.Parallel()

		left := freshbooks.NewListResult("clients", "client", decodeJSON(t, `{
			"clients": [{"id": 1}], "page": 1, "pages": 1, "per_page": 5, "total": 1
		}`))
		right := freshbooks.NewListResult("clients", "client", decodeJSON(t, `{
			"clients": [{"id": 2}], "page": 1, "pages": 1, "per_page": 9, "total": 1
		}`))

		combined, err := left.Concat(right)
		require.NoError(t, err)
		require.NotNil(t, combined.Pages)
		assert.Equal(t, 5, combined.Pages.PerPage)
	})

	t.Run("mismatched collections", func(t *testing.T) {
		t.Parallel()

		invoices := freshbooks.NewListResult("invoices", "invoice", decodeJSON(t,
			`{"invoices": [], "page": 1}`))

		_, err := pageOne(t).Concat(invoices)
		assert.ErrorIs(t, err, freshbooks.ErrListTypeMismatch)

		_, err = pageOne(t).Concat(nil)
		assert.ErrorIs(t, err, freshbooks.ErrListTypeMismatch)
	})

	t.Run("does not share items with the receiver", func(t *testing.T) {
		t.Parallel()

		original := pageOne(t)
		combined, err := original.Concat(pageTwo(t))
		require.NoError(t, err)

		combined.Index(0).Data["id"] = json.Number("99")

		id, _ := original.Index(0).GetInt("id")
		assert.Equal(t, int64(1), id)
	})
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	identity := freshbooks.NewIdentity(decodeJSON(t, `{
		"identity_id": 12345,
		"first_name": "Simon",
		"last_name": "Kovalic",
		"email": "skovalic@cis.com",
		"business_memberships": [
			{"role": "owner", "business": {"name": "CIS"}}
		]
	}`))

	assert.Equal(t, int64(12345), identity.IdentityID())
	assert.Equal(t, "Simon Kovalic", identity.FullName())
	assert.Equal(t, "skovalic@cis.com", identity.Email())
	assert.Equal(t, "Identity(12345, skovalic@cis.com)", identity.String())

	memberships := identity.BusinessMemberships()
	require.NotNil(t, memberships)
	assert.Equal(t, 1, memberships.Len())
	assert.Equal(t, "owner", memberships.Index(0).GetString("role"))
	assert.Equal(t, "CIS", memberships.Index(0).Object("business").GetString("name"))

	t.Run("nil payload", func(t *testing.T) {
		t.Parallel()

		empty := freshbooks.NewIdentity(nil)
		assert.Zero(t, empty.IdentityID())
		assert.Empty(t, empty.Email())
	})
}
