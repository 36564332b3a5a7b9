// Package appwrite implements the document store contract over the Appwrite REST API.
package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/docstore"
	"github.com/yaadplay/storefront/pkg/util"
)

const (
	headerProject = "X-Appwrite-Project"
	headerKey     = "X-Appwrite-Key"
)

type Config struct {
	Endpoint  string
	ProjectID string
	APIKey    string
	Timeout   time.Duration
	// RetryCount applies to transient transport failures only.
	RetryCount int
}

// keep client in sync with the docstore contract
var _ docstore.Store = (*client)(nil)

type client struct {
	http *resty.Client
}

func NewClient(cfg Config) docstore.Store {
	c := util.NewRestyClient(util.RestyOptions{
		BaseURL:    cfg.Endpoint,
		Timeout:    cfg.Timeout,
		RetryCount: cfg.RetryCount,
	})
	c.SetHeader(headerProject, cfg.ProjectID)
	if cfg.APIKey != "" {
		c.SetHeader(headerKey, cfg.APIKey)
	}
	c.SetHeader("Content-Type", "application/json")
	return &client{http: c}
}

type listResponse struct {
	Total     int                 `json:"total"`
	Documents []docstore.Document `json:"documents"`
}

type writeRequest struct {
	DocumentID string         `json:"documentId,omitempty"`
	Data       map[string]any `json:"data"`
}

func documentsPath(databaseID, collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(databaseID), url.PathEscape(collectionID))
}

func documentPath(databaseID, collectionID, documentID string) string {
	return documentsPath(databaseID, collectionID) + "/" + url.PathEscape(documentID)
}

func (c *client) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...docstore.Query) ([]docstore.Document, error) {
	encoded, err := encodeQueries(queries)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(url.Values{"queries[]": encoded}).
		Get(documentsPath(databaseID, collectionID))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var out listResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode document list: %w", err)
	}
	if out.Documents == nil {
		out.Documents = []docstore.Document{}
	}
	return out.Documents, nil
}

func (c *client) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (docstore.Document, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(documentPath(databaseID, collectionID, documentID))
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeDocument(resp)
}

func (c *client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (docstore.Document, error) {
	if documentID == "" {
		documentID = docstore.UniqueID
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(writeRequest{DocumentID: documentID, Data: data}).
		Post(documentsPath(databaseID, collectionID))
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeDocument(resp)
}

func (c *client) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (docstore.Document, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(writeRequest{Data: data}).
		Patch(documentPath(databaseID, collectionID, documentID))
	if err != nil {
		return nil, fmt.Errorf("update document %s: %w", documentID, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeDocument(resp)
}

func (c *client) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(documentPath(databaseID, collectionID, documentID))
	if err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return checkResponse(resp)
}

func decodeDocument(resp *resty.Response) (docstore.Document, error) {
	var doc docstore.Document
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// APIError is a non-2xx answer from the Appwrite API.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("appwrite: status %d (%s): %s", e.Status, e.Type, e.Message)
}

func checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == http.StatusNotFound {
		return models.ErrNotFound
	}
	body := resp.Body()
	return &APIError{
		Status:  resp.StatusCode(),
		Type:    gjson.GetBytes(body, "type").String(),
		Message: gjson.GetBytes(body, "message").String(),
	}
}
