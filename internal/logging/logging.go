// Package logging supplies the module loggers used across the site.
package logging

import "context"

// Logger is the structured logger every package depends on. Arguments after
// the message are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithFields(fields map[string]any) Logger
	WithContext(ctx context.Context) Logger
}

// Module logger names.
const (
	ModuleHTTP     = "site.http"
	ModuleAirtable = "site.airtable"
	ModuleCache    = "site.cache"
	ModuleContent  = "site.content"
	ModuleCLI      = "site.cli"
)

// Provider hands out named module loggers.
type Provider interface {
	GetLogger(name string) Logger
}

// NoOp returns a logger that discards everything.
func NoOp() Logger { return noop{} }

type noop struct{}

func (noop) Debug(string, ...any)                 {}
func (noop) Info(string, ...any)                  {}
func (noop) Warn(string, ...any)                  {}
func (noop) Error(string, ...any)                 {}
func (n noop) WithFields(map[string]any) Logger   { return n }
func (n noop) WithContext(context.Context) Logger { return n }

// NoOpProvider returns NoOp for every module.
type NoOpProvider struct{}

func (NoOpProvider) GetLogger(string) Logger { return noop{} }

// OrNoOp returns l, or NoOp when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return noop{}
	}
	return l
}
