package logging

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	for _, format := range []string{"", "console", "json", "pretty"} {
		p, err := NewProvider(Config{Level: "debug", Format: format})
		require.NoError(t, err, format)
		l := p.GetLogger(ModuleHTTP)
		require.NotNil(t, l)
		l.WithFields(map[string]any{"request_id": "r1"}).Debug("provider.ready")
	}

	_, err := NewProvider(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestAdapterDelegates(t *testing.T) {
	stub := &stubLogger{}
	l := wrap(stub)

	l.Debug("debug")
	l.Info("info", "k", "v")
	l.Warn("warn")
	l.Error("error")
	assert.Equal(t, []string{"debug", "info", "warn", "error"}, stub.calls)

	fields := map[string]any{"table": "news"}
	l.WithFields(fields)
	fields["table"] = "recruit"
	require.Len(t, stub.fields, 1)
	assert.Equal(t, "news", stub.fields[0]["table"])

	assert.Same(t, l, l.WithFields(nil))

	ctx := context.WithValue(context.Background(), struct{}{}, 1)
	l.WithContext(ctx)
	require.Len(t, stub.contexts, 1)
	assert.Equal(t, ctx, stub.contexts[0])
}

func TestNoOp(t *testing.T) {
	var nilProvider *GoLogger
	l := nilProvider.GetLogger("x")
	l.Info("dropped")
	assert.Equal(t, NoOp(), OrNoOp(nil))
	assert.Equal(t, NoOp(), NoOpProvider{}.GetLogger("x"))
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, fields)
	return s
}
