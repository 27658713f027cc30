// Package airtable is a small client for the Airtable REST API covering the
// list, get and create calls the site needs.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/sinwaunyu/site/internal/logging"
)

const (
	DefaultAPIURL = "https://api.airtable.com/v0"
	MaxPageSize   = 100

	// maxPages bounds ListAll so a misbehaving offset cannot loop forever.
	maxPages = 50

	textCodeRequestFailed = "AIRTABLE_REQUEST_FAILED"
	textCodeStatus        = "AIRTABLE_STATUS"
	textCodeDecode        = "AIRTABLE_DECODE_FAILED"
)

var (
	ErrNotFound  = errors.New("airtable: record not found")
	ErrTruncated = errors.New("airtable: listing truncated")
)

// Lister is the read side of the client.
type Lister interface {
	List(ctx context.Context, table string, p ListParams) (ListResult, error)
}

// Getter fetches single records by id.
type Getter interface {
	Get(ctx context.Context, table, id string) (Record, error)
}

// Creator is the write side of the client.
type Creator interface {
	Create(ctx context.Context, table string, fields map[string]any) (Record, error)
}

// Options configures a Client.
type Options struct {
	APIURL     string
	BaseID     string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Log        logging.Logger
}

type Client struct {
	apiURL     string
	baseID     string
	token      string
	httpClient *http.Client
	log        logging.Logger
}

func New(opts Options) *Client {
	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiURL:     apiURL,
		baseID:     opts.BaseID,
		token:      opts.Token,
		httpClient: hc,
		log:        logging.OrNoOp(opts.Log),
	}
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Field     string
	Direction Direction
}

// ListParams are the query options of a list call.
type ListParams struct {
	PageSize int
	Sort     []Sort
	Fields   []string
	Offset   string
}

// ClampPageSize limits n to the range Airtable accepts.
func ClampPageSize(n int) int {
	return min(max(n, 1), MaxPageSize)
}

// Query encodes p the way the Airtable API expects. The encoding is
// canonical, so it also serves as a cache key.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(ClampPageSize(p.PageSize)))
	for i, s := range p.Sort {
		prefix := "sort[" + strconv.Itoa(i) + "]"
		q.Set(prefix+"[field]", s.Field)
		dir := s.Direction
		if dir == "" {
			dir = Asc
		}
		q.Set(prefix+"[direction]", string(dir))
	}
	for _, f := range p.Fields {
		q.Add("fields[]", f)
	}
	if p.Offset != "" {
		q.Set("offset", p.Offset)
	}
	return q
}

type ListResult struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// List fetches one page of records.
func (c *Client) List(ctx context.Context, table string, p ListParams) (ListResult, error) {
	u := c.tableURL(table) + "?" + p.Query().Encode()
	body, err := c.do(ctx, http.MethodGet, table, u, nil)
	if err != nil {
		return ListResult{}, err
	}
	var out ListResult
	if err := json.Unmarshal(body, &out); err != nil {
		return ListResult{}, decodeError(table, err)
	}
	return out, nil
}

// ListAll follows offsets through l until the table is exhausted. After
// maxPages pages it returns what it has together with ErrTruncated.
func ListAll(ctx context.Context, l Lister, table string, p ListParams) ([]Record, error) {
	var all []Record
	for range maxPages {
		page, err := l.List(ctx, table, p)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		p.Offset = page.Offset
	}
	return all, ErrTruncated
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, table, id string) (Record, error) {
	u := c.tableURL(table) + "/" + url.PathEscape(id)
	body, err := c.do(ctx, http.MethodGet, table, u, nil)
	if err != nil {
		return Record{}, err
	}
	var out Record
	if err := json.Unmarshal(body, &out); err != nil {
		return Record{}, decodeError(table, err)
	}
	return out, nil
}

// Create inserts a record. Empty string fields are dropped so that optional
// columns stay blank instead of holding "".
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (Record, error) {
	clean := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		clean[k] = v
	}
	payload, err := json.Marshal(map[string]any{"fields": clean})
	if err != nil {
		return Record{}, err
	}
	body, err := c.do(ctx, http.MethodPost, table, c.tableURL(table), payload)
	if err != nil {
		return Record{}, err
	}
	var out Record
	if err := json.Unmarshal(body, &out); err != nil {
		return Record{}, decodeError(table, err)
	}
	return out, nil
}

func (c *Client) tableURL(table string) string {
	return c.apiURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

// StatusError is the cause of a non-2xx response. Body holds the upstream
// message; it is logged but never shown to site visitors.
type StatusError struct {
	Table  string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("airtable: %s: status %d", e.Table, e.Status)
}

func (c *Client) do(ctx context.Context, method, table, u string, payload []byte) ([]byte, error) {
	var r io.Reader
	if payload != nil {
		r = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("airtable.request.failed", "method", method, "table", table, "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "airtable request failed").
			WithTextCode(textCodeRequestFailed).
			WithMetadata(map[string]any{"table": table})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "airtable response read failed").
			WithTextCode(textCodeRequestFailed)
	}
	c.log.Debug("airtable.request", "method", method, "table", table, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return nil, goerrors.Wrap(ErrNotFound, goerrors.CategoryNotFound, "airtable record not found").
			WithTextCode(textCodeStatus).
			WithCode(resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Table: table, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		c.log.Error("airtable.request.status", "method", method, "table", table, "status", se.Status, "body", se.Body)
		return nil, goerrors.Wrap(se, goerrors.CategoryExternal, fmt.Sprintf("failed to fetch from airtable: %d", resp.StatusCode)).
			WithTextCode(textCodeStatus).
			WithCode(resp.StatusCode)
	}
	return body, nil
}

func decodeError(table string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "airtable response is not valid json").
		WithTextCode(textCodeDecode).
		WithMetadata(map[string]any{"table": table})
}
