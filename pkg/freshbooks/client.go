package freshbooks

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a freshbooks.Client.
//
// # Authentication
//
// Provide ClientID plus either an already-authorized AccessToken, or a
// ClientSecret and RedirectURI to drive the three-legged OAuth flow
// (AuthRequestURL → AccessToken → RefreshAccessToken). A client built with
// only an AccessToken works but cannot refresh it.
//
// # Endpoints
//
// BaseURL and AuthBaseURL default to the production API and auth hosts and
// can be overridden here or via the FRESHBOOKS_API_URL and
// FRESHBOOKS_AUTH_URL environment variables (the config fields win).
type Config struct {
	// ClientID is the FreshBooks application client id. Required.
	ClientID string
	// ClientSecret is the application client secret, required for token
	// exchange and refresh.
	ClientSecret string
	// RedirectURI is where the user is redirected after authorization.
	// Must be registered for the application.
	RedirectURI string
	// AccessToken is an already-authorized bearer token to use directly.
	AccessToken string
	// RefreshToken is an already-authorized refresh token.
	RefreshToken string

	// BaseURL overrides the API host.
	BaseURL string
	// AuthBaseURL overrides the authorization host.
	AuthBaseURL string
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Timeout applies to each request. Defaults to 30 seconds.
	Timeout time.Duration
	// AutoRetry enables transport-level retries with a fixed backoff for
	// idempotent verbs on transient failures.
	AutoRetry bool
	// APIVersion pins the X-API-VERSION header when set.
	APIVersion string
	// Debug enables verbose request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger
}

// AuthorizedToken holds the bearer credentials returned by the token
// endpoint.
type AuthorizedToken struct {
	AccessToken  string
	RefreshToken string
	// ExpiresAt is the absolute instant the access token expires.
	ExpiresAt time.Time
}

// AccountingResource is the standard get/list/create/update/delete surface
// of resources under the /accounting (and /events) endpoints. The trailing
// builders on Get, Create, and Update are intended for an IncludesBuilder;
// List accepts the full ordered builder list.
type AccountingResource interface {
	Get(ctx context.Context, accountID string, resourceID int64, builders ...QueryBuilder) (*Result, error)
	List(ctx context.Context, accountID string, builders ...QueryBuilder) (*ListResult, error)
	Create(ctx context.Context, accountID string, data map[string]interface{}, builders ...QueryBuilder) (*Result, error)
	Update(ctx context.Context, accountID string, resourceID int64, data map[string]interface{}, builders ...QueryBuilder) (*Result, error)
	Delete(ctx context.Context, accountID string, resourceID int64) (*Result, error)
}

// CallbacksResource adds the webhook verification operations to the
// standard accounting surface.
type CallbacksResource interface {
	AccountingResource

	// Verify confirms a webhook callback with the verifier token received
	// at the callback URI.
	Verify(ctx context.Context, accountID string, resourceID int64, verifier string) (*Result, error)
	// ResendVerification asks the API to resend the verification webhook.
	ResendVerification(ctx context.Context, accountID string, resourceID int64) (*Result, error)
}

// BusinessResource covers resources scoped to a business uuid under the
// /accounting/businesses endpoints.
type BusinessResource interface {
	Get(ctx context.Context, businessUUID, resourceUUID string) (*Result, error)
	List(ctx context.Context, businessUUID string) (*ListResult, error)
	Create(ctx context.Context, businessUUID string, data map[string]interface{}) (*Result, error)
	Update(ctx context.Context, businessUUID, resourceUUID string, data map[string]interface{}) (*Result, error)
	Delete(ctx context.Context, businessUUID, resourceUUID string) (*Result, error)
}

// ProjectResource covers resources under the /projects, /timetracking, and
// /comments endpoints.
type ProjectResource interface {
	Get(ctx context.Context, businessID, resourceID int64, builders ...QueryBuilder) (*Result, error)
	List(ctx context.Context, businessID int64, builders ...QueryBuilder) (*ListResult, error)
	Create(ctx context.Context, businessID int64, data map[string]interface{}) (*Result, error)
	Update(ctx context.Context, businessID, resourceID int64, data map[string]interface{}) (*Result, error)
	Delete(ctx context.Context, businessID, resourceID int64) (*Result, error)
}

// ProjectSubResource covers sub-resources of project-like endpoints, e.g.
// the rate of a service. Create is issued against the parent resource id.
type ProjectSubResource interface {
	Get(ctx context.Context, businessID, resourceID int64) (*Result, error)
	List(ctx context.Context, businessID int64, builders ...QueryBuilder) (*ListResult, error)
	Create(ctx context.Context, businessID, parentID int64, data map[string]interface{}) (*Result, error)
	Update(ctx context.Context, businessID, resourceID int64, data map[string]interface{}) (*Result, error)
	Delete(ctx context.Context, businessID, resourceID int64) (*Result, error)
}

// PaymentOptionsResource covers payment options under the /payments
// endpoints.
type PaymentOptionsResource interface {
	// Defaults returns the account-level default settings.
	Defaults(ctx context.Context, accountID string) (*Result, error)
	Get(ctx context.Context, accountID string, resourceID int64) (*Result, error)
	Create(ctx context.Context, accountID string, resourceID int64, data map[string]interface{}) (*Result, error)
}

// UploadsResource covers the file-storage endpoints. Uploads are multipart
// rather than JSON-bodied.
type UploadsResource interface {
	// Get streams back an uploaded file. The caller owns the response
	// body.
	Get(ctx context.Context, jwt string) (*http.Response, error)
	// Upload stores the content and returns a Result carrying the access
	// JWT and, for images, a direct link.
	Upload(ctx context.Context, accountID string, content io.Reader) (*Result, error)
	// UploadFile uploads the file at the given path.
	UploadFile(ctx context.Context, accountID, path string) (*Result, error)
}

// AuthClients provides the OAuth flow and the authenticated identity.
type AuthClients interface {
	// AuthRequestURL returns the URL to send a user to for an OAuth
	// grant, optionally restricted to a subset of the registered scopes.
	AuthRequestURL(scopes ...string) (string, error)
	// AccessToken exchanges an authorization grant code for tokens.
	AccessToken(ctx context.Context, code string) (*AuthorizedToken, error)
	// RefreshAccessToken exchanges the current refresh token for fresh
	// tokens. An explicit refreshToken overrides the stored one.
	RefreshAccessToken(ctx context.Context, refreshToken ...string) (*AuthorizedToken, error)
	// CurrentUser returns the identity of the authenticated user.
	CurrentUser(ctx context.Context) (*Identity, error)
}

// AccountingClients provides access to the accounting resource drivers.
type AccountingClients interface {
	Clients() AccountingResource
	CreditNotes() AccountingResource
	Estimates() AccountingResource
	Expenses() AccountingResource
	ExpenseCategories() AccountingResource
	Gateways() AccountingResource
	Invoices() AccountingResource
	InvoiceProfiles() AccountingResource
	Items() AccountingResource
	OtherIncomes() AccountingResource
	Payments() AccountingResource
	Staff() AccountingResource
	Systems() AccountingResource
	Taxes() AccountingResource
	LedgerAccounts() BusinessResource
	Callbacks() CallbacksResource
}

// ProjectClients provides access to the project-like resource drivers.
type ProjectClients interface {
	Projects() ProjectResource
	TimeEntries() ProjectResource
	Services() ProjectResource
	ServiceRates() ProjectSubResource
	Tasks() ProjectResource
}

// PaymentClients provides access to the payments resource drivers.
type PaymentClients interface {
	InvoicePaymentOptions() PaymentOptionsResource
}

// UploadClients provides access to the file-storage drivers.
type UploadClients interface {
	Attachments() UploadsResource
	Images() UploadsResource
}

// Client is the FreshBooks API entry point. Accessors construct a fresh,
// fully configured driver per call; drivers hold no state beyond their
// configuration and are safe to discard after use.
type Client interface {
	AuthClients
	AccountingClients
	ProjectClients
	PaymentClients
	UploadClients
}
