// Package cache keeps Airtable list responses locally so pages keep
// rendering when the upstream is slow or briefly unavailable.
package cache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/sinwaunyu/site/internal/airtable"
)

var ErrMiss = errors.New("cache: miss")

// Entry is one cached list page.
type Entry struct {
	Result   airtable.ListResult
	StoredAt time.Time
}

// Store persists entries by key.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Put(ctx context.Context, key string, e Entry) error
	Purge(ctx context.Context, prefix string) error
	Close() error
}

// Open returns a Store for a DSN: sqlite://path or mem://.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return openSQLite(ctx, dsn)
	case dsn == "mem://" || dsn == "":
		return newMemStore(), nil
	default:
		return nil, fmt.Errorf("cache: unsupported dsn %q", dsn)
	}
}

// Key derives the cache key for a list call. Keys start with the table name
// so that a table can be purged by prefix.
func Key(table string, p airtable.ListParams) string {
	sum := blake3.Sum256([]byte(table + "\x00" + p.Query().Encode()))
	return TablePrefix(table) + hex.EncodeToString(sum[:16])
}

// TablePrefix is the key prefix shared by every entry of table.
func TablePrefix(table string) string {
	sum := blake3.Sum256([]byte(table))
	return hex.EncodeToString(sum[:8]) + ":"
}
