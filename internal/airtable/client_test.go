package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{APIURL: srv.URL, BaseID: "appTest", Token: "pat-secret"})
}

func TestListEncodesQuery(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `{"records":[{"id":"rec1","createdTime":"2024-04-01T09:00:00.000Z","fields":{"title":"開業"}}],"offset":"itr2"}`)
	})

	res, err := c.List(context.Background(), "お知らせ", ListParams{
		PageSize: 500,
		Sort:     []Sort{{Field: "published_at", Direction: Desc}},
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "rec1", res.Records[0].ID)
	assert.Equal(t, "開業", res.Records[0].Fields["title"])
	assert.Equal(t, 2024, res.Records[0].CreatedTime.Year())
	assert.Equal(t, "itr2", res.Offset)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/appTest/お知らせ", got.URL.Path)
	assert.Equal(t, "Bearer pat-secret", got.Header.Get("Authorization"))
	q := got.URL.Query()
	assert.Equal(t, "100", q.Get("pageSize"))
	assert.Equal(t, "published_at", q.Get("sort[0][field]"))
	assert.Equal(t, "desc", q.Get("sort[0][direction]"))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 1, ClampPageSize(-3))
	assert.Equal(t, 1, ClampPageSize(0))
	assert.Equal(t, 6, ClampPageSize(6))
	assert.Equal(t, 100, ClampPageSize(101))
}

func TestQueryIsCanonical(t *testing.T) {
	p := ListParams{PageSize: 3, Sort: []Sort{{Field: "sort_order"}}, Fields: []string{"name", "slug"}}
	assert.Equal(t, p.Query().Encode(), p.Query().Encode())
	assert.Equal(t, "asc", p.Query().Get("sort[0][direction]"))
	assert.Equal(t, []string{"name", "slug"}, p.Query()["fields[]"])
}

func TestListAllFollowsOffset(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = io.WriteString(w, `{"records":[{"id":"a","fields":{}}],"offset":"p2"}`)
		case "p2":
			_, _ = io.WriteString(w, `{"records":[{"id":"b","fields":{}}]}`)
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})
	recs, err := ListAll(context.Background(), c, "news", ListParams{PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[1].ID)
}

type loopLister struct{ calls int }

func (l *loopLister) List(context.Context, string, ListParams) (ListResult, error) {
	l.calls++
	return ListResult{Records: []Record{{ID: "r"}}, Offset: "again"}, nil
}

func TestListAllStopsOnEndlessOffset(t *testing.T) {
	l := &loopLister{}
	recs, err := ListAll(context.Background(), l, "news", ListParams{})
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, maxPages, l.calls)
	assert.Len(t, recs, maxPages)
}

func TestGetRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appTest/contact/rec1", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"rec1","fields":{"name":"山田"}}`)
	})
	rec, err := c.Get(context.Background(), "contact", "rec1")
	require.NoError(t, err)
	assert.Equal(t, "山田", rec.Fields["name"])
}

func TestStatusErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/appTest/news/recMissing" {
			http.Error(w, `{"error":"NOT_FOUND"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":{"type":"INVALID_PERMISSIONS"}}`, http.StatusForbidden)
	})

	_, err := c.Get(context.Background(), "news", "recMissing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))

	_, err = c.List(context.Background(), "news", ListParams{})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryExternal))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Status)
	assert.Contains(t, se.Body, "INVALID_PERMISSIONS")
	assert.Contains(t, err.Error(), "AIRTABLE_STATUS")
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(Options{APIURL: srv.URL, BaseID: "app", Token: "t"})
	_, err := c.List(context.Background(), "news", ListParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AIRTABLE_REQUEST_FAILED")
}

func TestCreatePostsFields(t *testing.T) {
	var body map[string]map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":"recNew","createdTime":"2024-05-05T00:00:00.000Z","fields":{"name":"山田"}}`)
	})

	rec, err := c.Create(context.Background(), "contact", map[string]any{
		"name":         "山田",
		"company_name": "",
		"status":       "new",
	})
	require.NoError(t, err)
	assert.Equal(t, "recNew", rec.ID)
	assert.Equal(t, map[string]any{"name": "山田", "status": "new"}, body["fields"])
}

func TestAttachments(t *testing.T) {
	assert.Nil(t, Attachments(nil))
	assert.Nil(t, Attachments(""))
	assert.Equal(t, []Attachment{{URL: "https://x/a.png"}}, Attachments("https://x/a.png"))

	field := []any{
		map[string]any{"url": "https://x/a.jpg", "type": "image/jpeg", "size": float64(10)},
		map[string]any{"type": "image/png"},
		map[string]any{"url": "https://x/b.mp4", "type": "video/mp4"},
	}
	as := Attachments(field)
	require.Len(t, as, 2)
	assert.Equal(t, int64(10), as[0].Size)
	assert.True(t, as[1].IsVideo())
	assert.Equal(t, "https://x/a.jpg", as[0].URL)
}
