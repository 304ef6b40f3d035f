// Package freshbooks provides types, interfaces, and helpers for working with
// the FreshBooks API.
//
// # Overview
//
// The freshbooks package defines the configuration, the query builders, the
// dynamic Result and ListResult response containers, and the interfaces for
// resource-oriented drivers (e.g., AccountingResource, ProjectResource). A
// concrete implementation of these drivers is provided by the fbclient
// package, which wires configuration, transport, and authentication. Most
// consumers should import fbclient to construct a client and then interact
// with the resource interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/freshbooks-community/freshbooks-go/pkg/fbclient"
//	  "github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := fbclient.New(&freshbooks.Config{
//	    ClientID:    "your-client-id",
//	    AccessToken: "your-access-token",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  client, err := cli.Clients().Get(ctx, "ACM123", 12345)
//	  if err != nil { log.Fatal(err) }
//	  log.Println(client.GetString("organization"))
//	}
//
// # Queries
//
// List calls accept ordered query builders: FilterBuilder for search
// filters, PaginateBuilder for page and per_page, IncludesBuilder for
// embedded sub-resources, and SortBuilder for result ordering. Each builder
// renders itself in the dialect of the resource family it is applied to, so
// the same builder chain works against accounting and project-like
// resources alike:
//
//	invoices, err := cli.Invoices().List(ctx, "ACM123",
//	  freshbooks.NewFilterBuilder().InList("clientids", 123, 456),
//	  freshbooks.NewPaginateBuilder(2, 50),
//	)
//
// # Results
//
// Responses are returned as Result (single resource) or ListResult (list
// plus pagination metadata) values. Fields are fetched by name with typed
// accessors (GetString, GetInt, GetDecimal, GetTime, ...); date and
// timestamp strings are coerced to time.Time in UTC, including the legacy
// accounting fields reported in US/Eastern local time.
//
// # Errors
//
// API failures are represented by Error, which carries the HTTP status code
// and the service's own error code, message, and per-field details. Helpers
// such as IsNotFound and IsUnauthorized make it easy to branch on common
// cases.
package freshbooks
