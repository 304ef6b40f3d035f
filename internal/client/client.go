package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/freshbooks-community/freshbooks-go/internal/auth"
	fbhttp "github.com/freshbooks-community/freshbooks-go/internal/http"
	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

const (
	defaultAPIBaseURL  = "https://api.freshbooks.com"
	defaultAuthBaseURL = "https://auth.freshbooks.com"

	apiURLEnvVar  = "FRESHBOOKS_API_URL"
	authURLEnvVar = "FRESHBOOKS_AUTH_URL"

	sdkVersion = "1.0.0"
)

// Path prefixes of the API families.
const (
	accountingPrefix = "accounting/account"
	businessPrefix   = "accounting/businesses"
	eventsPrefix     = "events/account"
	projectsPrefix   = "projects/business"
	timePrefix       = "timetracking/business"
	commentsPrefix   = "comments/business"
	paymentsPrefix   = "payments/account"
)

// Client implements freshbooks.Client. Accessors hand out a fresh driver
// per call; the resource table below is the single place that records each
// resource's path, envelope keys, and quirks.
type Client struct {
	config      *freshbooks.Config
	httpClient  *fbhttp.Client
	authManager *auth.Manager
	baseURL     string
	authBaseURL string
}

// New creates a FreshBooks API client from the given configuration.
func New(config *freshbooks.Config) (*Client, error) {
	if config == nil {
		return nil, freshbooks.ErrConfigRequired
	}

	if config.ClientID == "" {
		return nil, freshbooks.ErrClientIDRequired
	}

	baseURL := resolveURL(config.BaseURL, apiURLEnvVar, defaultAPIBaseURL)
	authBaseURL := resolveURL(config.AuthBaseURL, authURLEnvVar, defaultAuthBaseURL)

	authManager := auth.NewManager(config.ClientID, config.ClientSecret, config.RedirectURI, baseURL, authBaseURL)
	if config.AccessToken != "" || config.RefreshToken != "" {
		authManager.SetTokens(config.AccessToken, config.RefreshToken, time.Time{})
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = fmt.Sprintf("freshbooks-go/%s client_id %s", sdkVersion, config.ClientID)
	}

	opts := []fbhttp.Option{
		fbhttp.WithUserAgent(userAgent),
		fbhttp.WithAutoRetry(config.AutoRetry),
	}

	if config.Timeout > 0 {
		opts = append(opts, fbhttp.WithTimeout(config.Timeout))
	}

	if config.APIVersion != "" {
		opts = append(opts, fbhttp.WithAPIVersion(config.APIVersion))
	}

	if config.Logger != nil {
		opts = append(opts, fbhttp.WithLogger(config.Logger), fbhttp.WithDebug(config.Debug))
	}

	return &Client{
		config:      config,
		httpClient:  fbhttp.NewClient(baseURL, authManager, opts...),
		authManager: authManager,
		baseURL:     baseURL,
		authBaseURL: authBaseURL,
	}, nil
}

// resolveURL picks the explicit value, then the environment override, then
// the production default. Trailing slashes are dropped so path joins stay
// predictable.
func resolveURL(explicit, envVar, fallback string) string {
	if explicit != "" {
		return strings.TrimSuffix(explicit, "/")
	}

	if fromEnv := os.Getenv(envVar); fromEnv != "" {
		return strings.TrimSuffix(fromEnv, "/")
	}

	return fallback
}

// AuthRequestURL implements freshbooks.Client.AuthRequestURL.
func (c *Client) AuthRequestURL(scopes ...string) (string, error) {
	if c.config.RedirectURI == "" {
		return "", freshbooks.ErrRedirectURIRequired
	}

	return c.authManager.AuthorizationURL(scopes), nil
}

// AccessToken implements freshbooks.Client.AccessToken. Token exchanges
// need the application secret, so its absence fails before any request is
// sent.
func (c *Client) AccessToken(ctx context.Context, code string) (*freshbooks.AuthorizedToken, error) {
	if c.config.ClientSecret == "" {
		return nil, freshbooks.ErrClientSecretRequired
	}

	token, err := c.authManager.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return authorizedToken(token), nil
}

// RefreshAccessToken implements freshbooks.Client.RefreshAccessToken. An
// explicit refreshToken overrides the stored one; without either the call
// fails before any request is sent.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken ...string) (*freshbooks.AuthorizedToken, error) {
	if c.config.ClientSecret == "" {
		return nil, freshbooks.ErrClientSecretRequired
	}

	override := ""
	if len(refreshToken) > 0 {
		override = refreshToken[0]
	}

	token, err := c.authManager.Refresh(ctx, override)
	if err != nil {
		if errors.Is(err, auth.ErrNoRefreshToken) {
			return nil, freshbooks.ErrRefreshTokenRequired
		}

		return nil, err
	}

	return authorizedToken(token), nil
}

func authorizedToken(token *auth.Token) *freshbooks.AuthorizedToken {
	return &freshbooks.AuthorizedToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
	}
}

// CurrentUser implements freshbooks.Client.CurrentUser.
func (c *Client) CurrentUser(ctx context.Context) (*freshbooks.Identity, error) {
	return newUsersDriver(c.httpClient).Me(ctx)
}

// accountingResource configures a standard accounting-family driver.
func (c *Client) accountingResource(path, singleName, listName string, softDelete bool, missingOps ...string) freshbooks.AccountingResource {
	return newAccountingDriver(c.httpClient, resourceSpec{
		family:     freshbooks.FamilyAccounting,
		prefix:     accountingPrefix,
		path:       path,
		singleName: singleName,
		listName:   listName,
		envelope:   envelopeResponseResult,
		errors:     errorStyleAccounting,
		softDelete: softDelete,
		missingOps: missingOps,
	})
}

// projectResource configures a project-like driver for the given service
// prefix.
func (c *Client) projectResource(prefix, singlePath, listPath, singleName, listName string, missingOps ...string) freshbooks.ProjectResource {
	return newProjectDriver(c.httpClient, resourceSpec{
		family:     freshbooks.FamilyProject,
		prefix:     prefix,
		path:       singlePath,
		listPath:   listPath,
		singleName: singleName,
		listName:   listName,
		envelope:   envelopeTopLevel,
		errors:     errorStyleProject,
		missingOps: missingOps,
	})
}

// Clients returns the driver for the business's clients.
func (c *Client) Clients() freshbooks.AccountingResource {
	return c.accountingResource("users/clients", "client", "clients", true)
}

// CreditNotes returns the driver for credit notes.
func (c *Client) CreditNotes() freshbooks.AccountingResource {
	return c.accountingResource("credit_notes/credit_notes", "credit_note", "credit_notes", true)
}

// Estimates returns the driver for estimates. Estimates hard-delete.
func (c *Client) Estimates() freshbooks.AccountingResource {
	return c.accountingResource("estimates/estimates", "estimate", "estimates", false)
}

// Expenses returns the driver for expenses.
func (c *Client) Expenses() freshbooks.AccountingResource {
	return c.accountingResource("expenses/expenses", "expense", "expenses", true)
}

// ExpenseCategories returns the read-only driver for expense categories.
func (c *Client) ExpenseCategories() freshbooks.AccountingResource {
	return c.accountingResource("expenses/categories", "category", "categories", false,
		opCreate, opUpdate, opDelete)
}

// Gateways returns the driver for payment gateways. Gateways can only be
// listed and removed.
func (c *Client) Gateways() freshbooks.AccountingResource {
	return c.accountingResource("systems/gateways", "gateway", "gateways", false,
		opCreate, opGet, opUpdate)
}

// Invoices returns the driver for invoices. Invoices hard-delete.
func (c *Client) Invoices() freshbooks.AccountingResource {
	return c.accountingResource("invoices/invoices", "invoice", "invoices", false)
}

// InvoiceProfiles returns the driver for recurring invoice profiles.
func (c *Client) InvoiceProfiles() freshbooks.AccountingResource {
	return c.accountingResource("invoice_profiles/invoice_profiles", "invoice_profile", "invoice_profiles", true)
}

// Items returns the driver for invoice line items.
func (c *Client) Items() freshbooks.AccountingResource {
	return c.accountingResource("items/items", "item", "items", true)
}

// OtherIncomes returns the driver for other-income entries. They
// hard-delete.
func (c *Client) OtherIncomes() freshbooks.AccountingResource {
	return c.accountingResource("other_incomes/other_incomes", "other_income", "other_incomes", false)
}

// Payments returns the driver for invoice payments.
func (c *Client) Payments() freshbooks.AccountingResource {
	return c.accountingResource("payments/payments", "payment", "payments", true)
}

// Staff returns the driver for staff members. Staff cannot be created
// through the API.
func (c *Client) Staff() freshbooks.AccountingResource {
	return c.accountingResource("users/staffs", "staff", "staffs", true, opCreate)
}

// Systems returns the driver for account systems, which only support get.
func (c *Client) Systems() freshbooks.AccountingResource {
	return c.accountingResource("systems/systems", "system", "systems", false,
		opList, opCreate, opUpdate, opDelete)
}

// Taxes returns the driver for taxes. Taxes hard-delete.
func (c *Client) Taxes() freshbooks.AccountingResource {
	return c.accountingResource("taxes/taxes", "tax", "taxes", false)
}

// LedgerAccounts returns the read-only driver for general ledger accounts,
// scoped by business uuid.
func (c *Client) LedgerAccounts() freshbooks.BusinessResource {
	return newBusinessDriver(c.httpClient, resourceSpec{
		family:     freshbooks.FamilyAccountingBusiness,
		prefix:     businessPrefix,
		path:       "ledger_accounts/accounts",
		singleName: "ledger_account",
		listName:   "ledger_accounts",
		envelope:   envelopeTopLevel,
		errors:     errorStyleBusiness,
		missingOps: []string{opCreate, opUpdate, opDelete},
	})
}

// Callbacks returns the driver for webhook callbacks.
func (c *Client) Callbacks() freshbooks.CallbacksResource {
	return newCallbacksDriver(c.httpClient, resourceSpec{
		family:     freshbooks.FamilyEvents,
		prefix:     eventsPrefix,
		path:       "events/callbacks",
		singleName: "callback",
		listName:   "callbacks",
		envelope:   envelopeResponseResult,
		errors:     errorStyleEvents,
	})
}

// Projects returns the driver for projects.
func (c *Client) Projects() freshbooks.ProjectResource {
	return c.projectResource(projectsPrefix, "project", "projects", "project", "projects")
}

// Tasks returns the driver for project tasks.
func (c *Client) Tasks() freshbooks.ProjectResource {
	return c.projectResource(projectsPrefix, "task", "tasks", "task", "tasks")
}

// TimeEntries returns the driver for time entries.
func (c *Client) TimeEntries() freshbooks.ProjectResource {
	return c.projectResource(timePrefix, "time_entries", "time_entries", "time_entry", "time_entries")
}

// Services returns the driver for billable services. Services cannot be
// updated or deleted through the API.
func (c *Client) Services() freshbooks.ProjectResource {
	return c.projectResource(commentsPrefix, "service", "services", "service", "services",
		opUpdate, opDelete)
}

// ServiceRates returns the driver for service billing rates, nested under
// their service.
func (c *Client) ServiceRates() freshbooks.ProjectSubResource {
	return newProjectSubDriver(c.httpClient, resourceSpec{
		family:     freshbooks.FamilyProject,
		prefix:     commentsPrefix,
		path:       "service_rates",
		singleName: "service_rate",
		listName:   "service_rates",
		envelope:   envelopeTopLevel,
		errors:     errorStyleProject,
		missingOps: []string{opDelete},
	}, "service", "rate")
}

// InvoicePaymentOptions returns the driver for invoice payment options.
func (c *Client) InvoicePaymentOptions() freshbooks.PaymentOptionsResource {
	return newPaymentOptionsDriver(c.httpClient, resourceSpec{
		family:       freshbooks.FamilyPayments,
		prefix:       paymentsPrefix,
		path:         "invoice",
		singleName:   "payment_options",
		listName:     "payment_options",
		envelope:     envelopeTopLevel,
		errors:       errorStylePayments,
		staticParams: "entity_type=invoice",
	}, "payment_options", "payment_options")
}

// Attachments returns the driver for expense receipt attachments.
func (c *Client) Attachments() freshbooks.UploadsResource {
	return newUploadsDriver(c.httpClient, "attachments", "attachment")
}

// Images returns the driver for image uploads.
func (c *Client) Images() freshbooks.UploadsResource {
	return newUploadsDriver(c.httpClient, "images", "image")
}
