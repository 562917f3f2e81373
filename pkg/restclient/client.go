package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-reorder/components/ordering"
)

// TokenSource supplies the bearer token for each request. *session.Session
// satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Config configures the REST client.
type Config struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
	// PartitionKeys maps collection codes to the query/field name of their
	// scope (hero-banners -> device_type).
	PartitionKeys map[string]string
}

// Client talks to the ordered collections REST API. It satisfies
// ordering.CollectionClient so a Reconciler can run against a remote backend.
type Client struct {
	baseURL       string
	tokens        TokenSource
	client        *http.Client
	partitionKeys map[string]string
}

var _ ordering.CollectionClient = (*Client)(nil)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("restclient: remote error %d: %s", e.Code, e.Message)
}

// Unwrap maps well known statuses onto the ordering sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ordering.ErrItemNotFound
	case http.StatusUnprocessableEntity:
		return ordering.ErrInvalidBatch
	}
	return nil
}

// New builds a client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("restclient: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	keys := make(map[string]string, len(cfg.PartitionKeys))
	for code, key := range cfg.PartitionKeys {
		keys[ordering.NormalizeCode(code)] = key
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		tokens:        cfg.Tokens,
		client:        httpClient,
		partitionKeys: keys,
	}, nil
}

// PartitionKeys extracts the partition key table from collection definitions.
func PartitionKeys(defs []ordering.CollectionDefinition) map[string]string {
	keys := map[string]string{}
	for _, def := range defs {
		if def.PartitionKey != "" {
			keys[def.Code] = def.PartitionKey
		}
	}
	return keys
}

// List fetches the items of a collection, optionally one scope.
func (c *Client) List(ctx context.Context, query ordering.ListQuery) ([]ordering.Item, error) {
	var items []ordering.Item
	path := c.collectionPath(query.Collection, "") + c.scopeQuery(query.Collection, query.Scope)
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	key := c.partitionKey(query.Collection)
	for i := range items {
		items[i].AdoptScope(key)
	}
	return items, nil
}

// UpdatePositions sends the whole batch in one request.
func (c *Client) UpdatePositions(ctx context.Context, input ordering.UpdatePositionsInput) error {
	payload := map[string]any{"positions": input.Positions}
	path := c.collectionPath(input.Collection, "positions/update") + c.scopeQuery(input.Collection, input.Scope)
	return c.do(ctx, http.MethodPut, path, payload, nil)
}

// CreateItem posts a new item and returns the stored copy.
func (c *Client) CreateItem(ctx context.Context, input ordering.CreateItemInput) (ordering.Item, error) {
	payload := make(map[string]any, len(input.Fields)+5)
	for k, v := range input.Fields {
		payload[k] = v
	}
	payload["title"] = input.Title
	payload["is_active"] = bool(input.Active)
	if input.Image != "" {
		payload["image"] = input.Image
	}
	if input.Position != nil {
		payload["position"] = *input.Position
	}
	if input.Scope != "" {
		payload[c.scopeParam(input.Collection)] = input.Scope
	}
	var item ordering.Item
	if err := c.do(ctx, http.MethodPost, c.collectionPath(input.Collection, ""), payload, &item); err != nil {
		return ordering.Item{}, err
	}
	item.AdoptScope(c.partitionKey(input.Collection))
	return item, nil
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, c.collectionPath(collection, url.PathEscape(id)), nil, nil)
}

func (c *Client) partitionKey(collection string) string {
	return c.partitionKeys[ordering.NormalizeCode(collection)]
}

func (c *Client) scopeParam(collection string) string {
	if key := c.partitionKey(collection); key != "" {
		return key
	}
	return "scope"
}

func (c *Client) scopeQuery(collection, scope string) string {
	if scope == "" {
		return ""
	}
	return "?" + url.Values{c.scopeParam(collection): {scope}}.Encode()
}

func (c *Client) collectionPath(collection, suffix string) string {
	path := "/" + url.PathEscape(ordering.NormalizeCode(collection))
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

func (c *Client) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("restclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("restclient: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("restclient: token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("restclient: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("restclient: decode response: %w", err)
	}
	return nil
}

func errorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
