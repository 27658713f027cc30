package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeParseRoundTrip(t *testing.T) {
	text := Compose([]string{"Lines starting with '#' are ignored."},
		[]Field{{"Name", "山田 太郎"}, {"Email", ""}}, "本文です")
	assert.Contains(t, text, "# Lines starting")
	assert.Contains(t, text, "Name: 山田 太郎\nEmail: \n---\n本文です\n")

	headers, body := Parse(text)
	assert.Equal(t, "山田 太郎", headers["Name"])
	assert.Equal(t, "", headers["Email"])
	assert.Equal(t, "本文です", body)
}

func TestParseKeepsHashInBody(t *testing.T) {
	headers, body := Parse("Subject: 見積もり: 4t\r\n---\n# not a comment\nline 2\n\n")
	assert.Equal(t, "見積もり: 4t", headers["Subject"])
	assert.Equal(t, "# not a comment\nline 2", body)
}

func TestParseWithoutSeparator(t *testing.T) {
	headers, body := Parse("Name: x\njunk line\n")
	assert.Equal(t, map[string]string{"Name": "x"}, headers)
	assert.Empty(t, body)
}

func TestTempPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	path, err := TempPath("contact.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sinwa-site", "contact.md"), path)
}

func TestOpenAtWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "sed -i -e s/PENDING/done/")
	path := filepath.Join(dir, "form.md")

	out, changed, err := OpenAt(path, []byte("Name: PENDING\n---\n"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Name: done\n---\n", string(out))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
