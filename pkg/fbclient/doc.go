// Package fbclient provides the primary entry point for constructing a
// FreshBooks API client that implements the freshbooks.Client interface.
//
// It layers configuration, HTTP transport, and OAuth2 authentication on top
// of the resource interfaces and types defined in the freshbooks package.
// Most applications should import fbclient to build a client, then use the
// returned freshbooks.Client to access resource-specific drivers, for
// example Clients(), Invoices(), Projects(), etc.
//
// Quick start
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
//
//	  // With an access token you already have:
//	  cli, err := fbclient.New(&freshbooks.Config{
//	    ClientID:    "your-client-id",
//	    AccessToken: "eyJhbGciOi...", // bearer token
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or drive the OAuth flow yourself:
//	  cli, err = fbclient.New(&freshbooks.Config{
//	    ClientID:     "your-client-id",
//	    ClientSecret: "your-client-secret",
//	    RedirectURI:  "https://example.com/callback",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  authURL, _ := cli.AuthRequestURL("user:profile:read", "user:clients:read")
//	  // ... send the user to authURL, receive the grant code ...
//	  token, err := cli.AccessToken(ctx, "grant-code")
//	  if err != nil { log.Fatal(err) }
//	  _ = token
//
//	  invoices, err := cli.Invoices().List(ctx, "ACM123")
//	  if err != nil { log.Fatal(err) }
//	  _ = invoices
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithToken and
// NewWithOAuth that wrap New with the appropriate configuration.
package fbclient
