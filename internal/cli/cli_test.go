package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/sinwaunyu/site/internal/cache"
	"github.com/sinwaunyu/site/pkg/api"
)

// fakeAirtable answers list calls from fixed records and records creates.
type fakeAirtable struct {
	mu      sync.Mutex
	tables  map[string][]map[string]any
	created []map[string]any
}

func (f *fakeAirtable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := filepath.Base(r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	if _, isTable := f.tables[table]; r.Method == http.MethodGet && !isTable && strings.HasPrefix(table, "rec") {
		for _, recs := range f.tables {
			for _, rec := range recs {
				if rec["id"] == table {
					_ = json.NewEncoder(w).Encode(rec)
					return
				}
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"NOT_FOUND"}`)
		return
	}
	if r.Method == http.MethodPost {
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.created = append(f.created, body.Fields)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "recNEW", "fields": body.Fields})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"records": f.tables[table]})
}

func newFakeAirtable(t *testing.T) (*fakeAirtable, *httptest.Server) {
	t.Helper()
	f := &fakeAirtable{tables: map[string][]map[string]any{
		"news": {
			{"id": "rec1", "fields": map[string]any{"slug": "new-truck", "title": "新車両導入", "published_at": "2024-03-01", "body": "## 新しい車両\n\n**4t** 車を導入しました。"}},
			{"id": "rec2", "fields": map[string]any{"slug": "holiday", "title": "年末年始の営業", "published_at": "2023-12-20"}},
		},
		"contact": {
			{"id": "recC1", "fields": map[string]any{"name": "山田 太郎", "email": "taro@example.jp", "subject": "見積もり", "message": "4t 車で札幌まで", "received_at": "2024-05-01T09:00:00Z", "status": "new"}},
		},
		"recruit": {
			{"id": "rec3", "fields": map[string]any{"slug": "driver", "title": "ドライバー募集", "is_active": true}},
		},
	}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

// isolate points config, data and the legacy Airtable variables at nothing
// so the host environment cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"AIRTABLE_API_KEY", "AIRTABLE_BASE_ID", "NEXT_PUBLIC_SITE_URL", "SITE_AIRTABLE_API_KEY", "SITE_AIRTABLE_BASE_ID"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeConfigTOML(t *testing.T, dir, apiURL string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := `data_dir = "` + strings.ReplaceAll(dir, "\\", "\\\\") + `"

[site]
base_url = "https://example.jp"

[airtable]
api_url = "` + apiURL + `"
api_key = "pat-test"
base_id = "appTEST"

[cache]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	out, _, err := runSession(t, stdin, args...)
	return out, err
}

func runSession(t *testing.T, stdin io.Reader, args ...string) (string, *session, error) {
	t.Helper()
	cmd, sess := newRoot()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := execute(cmd, sess)
	return out.String(), sess, err
}

func TestRenderNeedsNoConfig(t *testing.T) {
	isolate(t)
	src := "---\ntitle: 下書き\n---\n## Hi *there*\n\n- one\n- [two](https://example.jp)\n"

	out, err := run(t, strings.NewReader(src), "render")
	require.NoError(t, err)
	assert.Contains(t, out, "<h2>Hi <em>there</em></h2>")
	assert.Contains(t, out, `<a href="https://example.jp"`)
	assert.NotContains(t, out, "title:")

	out, err = run(t, strings.NewReader(src), "render", "--format", "json")
	require.NoError(t, err)
	var got struct {
		Title string           `json:"title"`
		Nodes []map[string]any `json:"nodes"`
		HTML  string           `json:"html"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "下書き", got.Title)
	assert.Len(t, got.Nodes, 2)

	_, err = run(t, strings.NewReader(src), "render", "--format", "pdf")
	assert.ErrorContains(t, err, "invalid --format")
}

func TestRenderFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(path, []byte("plain **bold** text"), 0o600))
	out, err := run(t, nil, "render", "--format", "text", path)
	require.NoError(t, err)
	assert.Equal(t, "plain bold text\n", out)
}

func TestConfigGenerateAndUpdate(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg", "config.toml")

	out, err := run(t, nil, "config", "generate", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[airtable]")

	_, err = run(t, nil, "config", "generate", "-o", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, nil, "config", "generate", "-o", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	_, err = run(t, nil, "config", "generate", "-o", path, "--update", "--overwrite")
	assert.ErrorContains(t, err, "either")
}

func TestConfigCheck(t *testing.T) {
	dir := isolate(t)
	_, srv := newFakeAirtable(t)
	path := writeConfigTOML(t, dir, srv.URL)

	out, err := run(t, nil, "--config", path, "config", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "config file: "+path)
	assert.Contains(t, out, "airtable: base appTEST via config key")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log]\nlevel = \"loud\"\n"), 0o600))
	_, err = run(t, nil, "--config", bad, "config", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_INVALID")
}

func TestNewsListJSON(t *testing.T) {
	dir := isolate(t)
	_, srv := newFakeAirtable(t)
	path := writeConfigTOML(t, dir, srv.URL)

	out, err := run(t, nil, "--config", path, "news", "list", "-o", "json")
	require.NoError(t, err)
	var items []api.News
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "new-truck", items[0].Slug)

	out, err = run(t, nil, "--config", path, "news", "list", "-o", "json", "--since", "2024-01-01")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "new-truck", items[0].Slug)

	_, err = run(t, nil, "--config", path, "news", "list", "-o", "yaml")
	assert.ErrorContains(t, err, "invalid --output")
}

func TestNewsShowSuggests(t *testing.T) {
	dir := isolate(t)
	_, srv := newFakeAirtable(t)
	path := writeConfigTOML(t, dir, srv.URL)

	out, err := run(t, nil, "--config", path, "news", "show", "new-truck", "-o", "plain")
	require.NoError(t, err)
	assert.Contains(t, out, "新車両導入")
	assert.Contains(t, out, "4t 車を導入しました。")

	_, err = run(t, nil, "--config", path, "news", "show", "new-trucks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "new-truck")
}

func TestNewsNeedsCredentials(t *testing.T) {
	isolate(t)
	_, err := run(t, nil, "news", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_MISSING")
}

func TestContactSend(t *testing.T) {
	dir := isolate(t)
	fake, srv := newFakeAirtable(t)
	path := writeConfigTOML(t, dir, srv.URL)

	out, err := run(t, nil, "--config", path, "contact", "send",
		"--name", "山田 太郎", "--email", "taro@example.jp", "--message", "見積もり依頼")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "recNEW\t"))
	assert.True(t, strings.HasSuffix(out, "\tother\n"))

	form := `{"name":"佐藤","companyName":"佐藤商事","email":"sato@example.jp","category":"recruit","message":"応募します"}`
	_, err = run(t, strings.NewReader(form), "--config", path, "contact", "send", "--from-file", "-")
	require.NoError(t, err)

	require.Len(t, fake.created, 2)
	assert.Equal(t, "new", fake.created[0]["status"])
	assert.Equal(t, "佐藤商事", fake.created[1]["company_name"])
	assert.Equal(t, "recruit", fake.created[1]["category"])

	_, err = run(t, nil, "--config", path, "contact", "send", "--name", "x")
	require.Error(t, err)
	assert.Len(t, fake.created, 2)
}

func TestSitemapStaticWithoutAirtable(t *testing.T) {
	isolate(t)
	t.Setenv("NEXT_PUBLIC_SITE_URL", "https://sinwa.example")
	out, err := run(t, nil, "sitemap", "--static")
	require.NoError(t, err)
	assert.Contains(t, out, "<loc>https://sinwa.example/</loc>")
	assert.Contains(t, out, "<loc>https://sinwa.example/contact</loc>")
	assert.NotContains(t, out, "/news/")
}

func TestSitemapWithSlugs(t *testing.T) {
	dir := isolate(t)
	_, srv := newFakeAirtable(t)
	path := writeConfigTOML(t, dir, srv.URL)
	out, err := run(t, nil, "--config", path, "sitemap")
	require.NoError(t, err)
	assert.Contains(t, out, "<loc>https://example.jp/news/new-truck</loc>")
	assert.Contains(t, out, "<loc>https://example.jp/recruit/driver</loc>")
}

func TestCompletionNeedsNoConfig(t *testing.T) {
	isolate(t)
	out, err := run(t, nil, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "sinwa-site")
	_, err = run(t, nil, "completion", "tcsh")
	assert.Error(t, err)
}

func TestContactFormRoundTrip(t *testing.T) {
	in := contactFromForm("# comment\nName: 山田\nCompany: \nEmail: y@example.jp\nTel: 0123\nCategory: \nSubject: 見積もり\n---\n4t 車で\n札幌まで\n")
	assert.Equal(t, "山田", in.Name)
	assert.Equal(t, "y@example.jp", in.Email)
	assert.Equal(t, "0123", in.Tel)
	assert.Equal(t, "見積もり", in.Subject)
	assert.Equal(t, "4t 車で\n札幌まで", in.Message)
	assert.Empty(t, in.Category)
}

func TestSecretsLifecycle(t *testing.T) {
	isolate(t)
	keyring.MockInit()

	out, err := run(t, nil, "secrets", "status")
	require.NoError(t, err)
	assert.Equal(t, "airtable api key: not stored\n", out)

	_, err = run(t, strings.NewReader("  pat-from-stdin \n"), "secrets", "set")
	require.NoError(t, err)
	got, err := keyring.Get("sinwa-site", "airtable-api-key")
	require.NoError(t, err)
	assert.Equal(t, "pat-from-stdin", got)

	out, err = run(t, nil, "secrets", "status")
	require.NoError(t, err)
	assert.Equal(t, "airtable api key: stored\n", out)

	_, err = run(t, nil, "secrets", "delete")
	require.NoError(t, err)
	_, err = keyring.Get("sinwa-site", "airtable-api-key")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestContactShow(t *testing.T) {
	dir := isolate(t)
	_, srv := newFakeAirtable(t)
	path := writeConfigTOML(t, dir, srv.URL)

	out, err := run(t, nil, "--config", path, "contact", "show", "recC1", "-o", "plain")
	require.NoError(t, err)
	assert.Contains(t, out, "見積もり")
	assert.Contains(t, out, "taro@example.jp")
	assert.Contains(t, out, "札幌まで")

	out, err = run(t, nil, "--config", path, "contact", "show", "recC1", "-o", "json")
	require.NoError(t, err)
	var c api.Contact
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "recC1", c.ID)
	assert.Equal(t, "new", c.Status)

	_, err = run(t, nil, "--config", path, "contact", "show", "recMissing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCacheClosedWhenCommandFails(t *testing.T) {
	dir := isolate(t)
	_, srv := newFakeAirtable(t)
	path := writeConfigTOML(t, dir, srv.URL)

	_, sess, err := runSession(t, nil, "--config", path, "--cache", "news", "show", "no-such-item")
	require.Error(t, err)
	require.NotNil(t, sess.st)
	require.NotNil(t, sess.st.app)
	require.NotNil(t, sess.st.app.Store)

	_, err = sess.st.app.Store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrMiss, "store must already be closed")
}

func TestContactSendInteractiveNeedsTerminal(t *testing.T) {
	dir := isolate(t)
	f, srv := newFakeAirtable(t)
	path := writeConfigTOML(t, dir, srv.URL)

	_, err := run(t, strings.NewReader(""), "--config", path, "contact", "send", "--interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")

	_, err = run(t, nil, "--config", path, "contact", "send", "-i", "-e")
	require.Error(t, err)
	assert.Empty(t, f.created)
}
