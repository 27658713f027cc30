// Package editor round-trips a header form through the user's $EDITOR.
package editor

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const separator = "---"

// Field is one "Label: value" header line.
type Field struct {
	Label string
	Value string
}

// Compose renders the text presented to the editor: comment lines, one
// header per field, the separator and the body.
func Compose(comments []string, fields []Field, body string) string {
	var b bytes.Buffer
	for _, c := range comments {
		b.WriteString("# ")
		b.WriteString(c)
		b.WriteByte('\n')
	}
	for _, f := range fields {
		b.WriteString(f.Label)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	b.WriteString(separator + "\n")
	if body != "" {
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		b.WriteString(body)
	}
	return b.String()
}

// Parse extracts header values keyed by label and the trimmed body. Comment
// lines are ignored before the separator only; unknown header lines are
// kept under their label.
func Parse(s string) (map[string]string, string) {
	headers := map[string]string{}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == separator {
			return headers, strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(label)] = strings.TrimSpace(value)
	}
	return headers, ""
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// TempPath returns a private scratch path for name.
func TempPath(name string) (string, error) {
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "sinwa-site", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "sinwa-site", "edit", name), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// OpenAt opens the editor at path with initial content and returns the
// final bytes and whether they changed. The file is removed afterwards.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	defer os.Remove(path)

	ed, err := PreferredEditor()
	if err != nil {
		return nil, false, err
	}
	// Run through sh so VISUAL/EDITOR may carry flags.
	cmd := exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
	cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}
