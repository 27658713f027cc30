package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sinwaunyu/site/internal/airtable"
	"github.com/sinwaunyu/site/internal/logging"
)

// sharedCallTimeout bounds an upstream call that outlives the caller which
// started it.
const sharedCallTimeout = time.Minute

// Upstream is what Source wraps; *airtable.Client satisfies it.
type Upstream interface {
	airtable.Lister
	airtable.Getter
	airtable.Creator
}

// Source serves list calls from the store while they are fresh and falls
// back to a stale entry when the upstream call fails. Concurrent misses for
// the same key share one upstream call, which is not tied to any single
// caller's context: a caller that goes away stops waiting, the others keep
// theirs.
type Source struct {
	upstream Upstream
	store    Store
	ttl      time.Duration
	log      logging.Logger
	group    singleflight.Group
	now      func() time.Time

	// mu orders puts against purges. gens counts writes per table; a page
	// fetched under an older generation is never stored.
	mu   sync.Mutex
	gens map[string]uint64
}

func NewSource(upstream Upstream, store Store, ttl time.Duration, log logging.Logger) *Source {
	return &Source{
		upstream: upstream,
		store:    store,
		ttl:      ttl,
		log:      logging.OrNoOp(log),
		now:      time.Now,
		gens:     map[string]uint64{},
	}
}

func (s *Source) generation(table string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[table]
}

func (s *Source) List(ctx context.Context, table string, p airtable.ListParams) (airtable.ListResult, error) {
	key := Key(table, p)
	cached, err := s.store.Get(ctx, key)
	hit := err == nil
	if err != nil && !errors.Is(err, ErrMiss) {
		s.log.Warn("cache.get.failed", "table", table, "error", err)
	}
	if hit && s.now().Sub(cached.StoredAt) < s.ttl {
		s.log.Debug("cache.hit", "table", table)
		return cached.Result, nil
	}

	gen := s.generation(table)
	ch := s.group.DoChan(key+"@"+strconv.FormatUint(gen, 10), func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		res, err := s.upstream.List(callCtx, table, p)
		if err != nil {
			return nil, err
		}
		s.putIfCurrent(callCtx, table, key, gen, Entry{Result: res, StoredAt: s.now()})
		return res, nil
	})

	select {
	case <-ctx.Done():
		return airtable.ListResult{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			if hit {
				s.log.Warn("cache.serve_stale", "table", table, "age", s.now().Sub(cached.StoredAt), "error", r.Err)
				return cached.Result, nil
			}
			return airtable.ListResult{}, r.Err
		}
		return r.Val.(airtable.ListResult), nil
	}
}

func (s *Source) putIfCurrent(ctx context.Context, table, key string, gen uint64, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[table] != gen {
		s.log.Debug("cache.put.superseded", "table", table)
		return
	}
	if err := s.store.Put(ctx, key, e); err != nil {
		s.log.Warn("cache.put.failed", "table", table, "error", err)
	}
}

// Get reads a single record straight from the upstream.
func (s *Source) Get(ctx context.Context, table, id string) (airtable.Record, error) {
	return s.upstream.Get(ctx, table, id)
}

// Create writes through to the upstream and drops the table's cached pages,
// including any page still being fetched.
func (s *Source) Create(ctx context.Context, table string, fields map[string]any) (airtable.Record, error) {
	rec, err := s.upstream.Create(ctx, table, fields)
	if err != nil {
		return rec, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[table]++
	if err := s.store.Purge(ctx, TablePrefix(table)); err != nil {
		s.log.Warn("cache.purge.failed", "table", table, "error", err)
	}
	return rec, nil
}
