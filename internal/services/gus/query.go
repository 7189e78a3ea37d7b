package gus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// workItemFields is the standard projection requested for work item queries.
const workItemFields = "Id, Name, Subject__c, Status__c, RecordType.Name, Description__c, " +
	"Severity_Level__c, Assignee__c, Product_Tag__r.Name, Epic__r.Name, CreatedDate, LastModifiedDate"

// Client executes SOQL/SOSL queries and record mutations with a bearer
// credential. Work items are read-only projections; nothing is cached beyond
// the lifetime of a single operation.
type Client struct {
	credential *models.Credential
	apiVersion string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithClientHTTPClient sets a custom HTTP client (tests inject a plain one).
func WithClientHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClientRateLimit sets a custom rate limit.
func WithClientRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates an authenticated query client for a credential. The
// bearer header is handled by an oauth2 static token source.
func NewClient(ctx context.Context, credential *models.Credential, apiVersion string, logger arbor.ILogger, opts ...ClientOption) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential.AccessToken})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = DefaultTimeout

	c := &Client{
		credential: credential,
		apiVersion: apiVersion,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// queryResponse is the wire shape of the query endpoint.
type queryResponse struct {
	Done           bool                     `json:"done"`
	Records        []map[string]interface{} `json:"records"`
	NextRecordsURL string                   `json:"nextRecordsUrl"`
}

// searchResponse is the wire shape of the search endpoint.
type searchResponse struct {
	SearchRecords []map[string]interface{} `json:"searchRecords"`
}

// Query runs a SOQL query, following nextRecordsUrl continuations in
// server-delivered order until the response reports completion. All pages
// accumulate into one sequence before returning; a failure on any page fails
// the whole operation with no records.
func (c *Client) Query(ctx context.Context, soql string) ([]models.WorkItem, error) {
	host := strings.TrimSuffix(c.credential.InstanceHost, "/")
	next := fmt.Sprintf("%s/services/data/%s/query?q=%s", host, c.apiVersion, url.QueryEscape(soql))

	var items []models.WorkItem
	pages := 0

	for {
		body, err := c.get(ctx, next, "query")
		if err != nil {
			return nil, err
		}

		var page queryResponse
		decodeLoose(body, &page)
		pages++

		for _, record := range page.Records {
			items = append(items, parseWorkItem(record))
		}

		if page.Done || page.NextRecordsURL == "" {
			break
		}

		// Continuation references come back instance-relative.
		next = page.NextRecordsURL
		if strings.HasPrefix(next, "/") {
			next = host + next
		}
	}

	c.logger.Debug().
		Int("records", len(items)).
		Int("pages", pages).
		Msg("SOQL query completed")

	return items, nil
}

// Search runs a SOSL full-text search for work items. The term is escaped
// and given a trailing wildcard for prefix matching; search endpoints have
// no pagination, so this is a single round trip.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]models.WorkItem, error) {
	if limit <= 0 {
		limit = 20
	}

	sosl := fmt.Sprintf("FIND {%s*} IN ALL FIELDS RETURNING ADM_Work__c(%s) LIMIT %d",
		EscapeSOSL(term), workItemFields, limit)

	host := strings.TrimSuffix(c.credential.InstanceHost, "/")
	endpoint := fmt.Sprintf("%s/services/data/%s/search?q=%s", host, c.apiVersion, url.QueryEscape(sosl))

	body, err := c.get(ctx, endpoint, "search")
	if err != nil {
		return nil, err
	}

	var result searchResponse
	decodeLoose(body, &result)

	items := make([]models.WorkItem, 0, len(result.SearchRecords))
	for _, record := range result.SearchRecords {
		items = append(items, parseWorkItem(record))
	}

	c.logger.Debug().Int("records", len(items)).Msg("SOSL search completed")

	return items, nil
}

// Identity returns the authenticated user's id from the userinfo endpoint,
// used for ${me} substitution in saved queries.
func (c *Client) Identity(ctx context.Context) (string, error) {
	host := strings.TrimSuffix(c.credential.InstanceHost, "/")
	endpoint := host + "/services/oauth2/userinfo"

	body, err := c.get(ctx, endpoint, "userinfo")
	if err != nil {
		return "", err
	}

	var info struct {
		UserID string `json:"user_id"`
	}
	decodeLoose(body, &info)

	if info.UserID == "" {
		return "", fmt.Errorf("identity response carried no user id")
	}

	return info.UserID, nil
}

// get performs a rate-limited GET and returns the body for 2xx responses.
func (c *Client) get(ctx context.Context, endpoint, name string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s request: %w", name, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    remoteErrorMessage(body, resp.StatusCode),
			Endpoint:   name,
		}
	}

	return body, nil
}

// parseWorkItem maps a raw record to the WorkItem projection. Name, Subject,
// and Status default to empty strings per the schema contract; other
// optional fields stay zero-valued when absent.
func parseWorkItem(record map[string]interface{}) models.WorkItem {
	return models.WorkItem{
		ID:             stringField(record, "Id"),
		Name:           stringField(record, "Name"),
		Subject:        stringField(record, "Subject__c"),
		Status:         stringField(record, "Status__c"),
		RecordTypeName: nestedStringField(record, "RecordType", "Name"),
		Description:    stringField(record, "Description__c"),
		Severity:       stringField(record, "Severity_Level__c"),
		AssigneeID:     stringField(record, "Assignee__c"),
		ProductTagName: nestedStringField(record, "Product_Tag__r", "Name"),
		EpicName:       nestedStringField(record, "Epic__r", "Name"),
		CreatedAt:      stringField(record, "CreatedDate"),
		ModifiedAt:     stringField(record, "LastModifiedDate"),
	}
}

func stringField(record map[string]interface{}, key string) string {
	if value, ok := record[key].(string); ok {
		return value
	}
	return ""
}

func nestedStringField(record map[string]interface{}, key, nested string) string {
	if child, ok := record[key].(map[string]interface{}); ok {
		return stringField(child, nested)
	}
	return ""
}
