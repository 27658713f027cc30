// Package content reads and writes the site's content tables.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/sinwaunyu/site/internal/airtable"
	"github.com/sinwaunyu/site/internal/config"
	"github.com/sinwaunyu/site/internal/logging"
	"github.com/sinwaunyu/site/internal/util"
	"github.com/sinwaunyu/site/pkg/api"
)

// Default list sizes.
const (
	LatestNewsLimit = 3
	AllNewsLimit    = 100
	VehiclesLimit   = 6
	RecruitLimit    = 20
	ContactLimit    = 20

	maxSuggestions = 3
)

var ErrNotFound = errors.New("content: not found")

// NotFoundError reports a slug lookup that matched nothing, with the
// closest existing slugs.
type NotFoundError struct {
	Kind        string
	Slug        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Slug)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Backend is the record source; an *airtable.Client or a *cache.Source.
type Backend interface {
	airtable.Lister
	airtable.Getter
	airtable.Creator
}

type Options struct {
	Tables          config.Tables
	DefaultCategory string
	Log             logging.Logger
	Now             func() time.Time
}

type Service struct {
	backend         Backend
	tables          config.Tables
	defaultCategory string
	log             logging.Logger
	now             func() time.Time
}

func NewService(backend Backend, opts Options) *Service {
	s := &Service{
		backend:         backend,
		tables:          opts.Tables,
		defaultCategory: opts.DefaultCategory,
		log:             logging.OrNoOp(opts.Log),
		now:             opts.Now,
	}
	if s.defaultCategory == "" {
		s.defaultCategory = "other"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) list(ctx context.Context, table string, limit int, sort ...airtable.Sort) ([]airtable.Record, error) {
	res, err := s.backend.List(ctx, table, airtable.ListParams{PageSize: limit, Sort: sort})
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// listAll pages through the whole table. A truncated listing is logged and
// used as is.
func (s *Service) listAll(ctx context.Context, table string, sort ...airtable.Sort) ([]airtable.Record, error) {
	recs, err := airtable.ListAll(ctx, s.backend, table, airtable.ListParams{PageSize: airtable.MaxPageSize, Sort: sort})
	if errors.Is(err, airtable.ErrTruncated) {
		s.log.Warn("content.list_all.truncated", "table", table, "records", len(recs))
		err = nil
	}
	return recs, err
}

// decodeVisible decodes recs, skipping rows that fail to decode or that
// keep is false for.
func decodeVisible[T any](s *Service, table string, recs []airtable.Record, decode func(airtable.Record) (T, error), keep func(T) bool) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		v, err := decode(r)
		if err != nil {
			s.log.Warn("content.decode.skipped", "table", table, "id", r.ID, "error", err)
			continue
		}
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func always[T any](T) bool { return true }

func orDefault(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

// CompanyProfile returns the first row of the company table.
func (s *Service) CompanyProfile(ctx context.Context) (api.Company, error) {
	recs, err := s.list(ctx, s.tables.Company, 1)
	if err != nil {
		return api.Company{}, err
	}
	if len(recs) == 0 {
		return api.Company{}, notFound(&NotFoundError{Kind: "company", Slug: s.tables.Company})
	}
	return decodeCompany(recs[0])
}

// LatestNews returns the newest published items for the front page.
func (s *Service) LatestNews(ctx context.Context, limit int) ([]api.News, error) {
	return s.news(ctx, orDefault(limit, LatestNewsLimit))
}

// AllNews returns published items for the news index.
func (s *Service) AllNews(ctx context.Context, limit int) ([]api.News, error) {
	return s.news(ctx, orDefault(limit, AllNewsLimit))
}

func (s *Service) news(ctx context.Context, limit int) ([]api.News, error) {
	recs, err := s.list(ctx, s.tables.News, limit, newsSort)
	if err != nil {
		return nil, err
	}
	return decodeVisible(s, s.tables.News, recs, decodeNews, api.News.Visible), nil
}

var (
	newsSort    = airtable.Sort{Field: "published_at", Direction: airtable.Desc}
	recruitSort = airtable.Sort{Field: "published_at", Direction: airtable.Desc}
)

// everyNews returns every published item across all pages.
func (s *Service) everyNews(ctx context.Context) ([]api.News, error) {
	recs, err := s.listAll(ctx, s.tables.News, newsSort)
	if err != nil {
		return nil, err
	}
	return decodeVisible(s, s.tables.News, recs, decodeNews, api.News.Visible), nil
}

// everyRecruit returns every open position across all pages.
func (s *Service) everyRecruit(ctx context.Context) ([]api.Recruit, error) {
	recs, err := s.listAll(ctx, s.tables.Recruit, recruitSort)
	if err != nil {
		return nil, err
	}
	return decodeVisible(s, s.tables.Recruit, recs, decodeRecruit, api.Recruit.Visible), nil
}

// NewsBySlug scans the published items for slug.
func (s *Service) NewsBySlug(ctx context.Context, slug string) (api.News, error) {
	all, err := s.everyNews(ctx)
	if err != nil {
		return api.News{}, err
	}
	slugs := make([]string, 0, len(all))
	for _, n := range all {
		if n.Slug == slug && slug != "" {
			return n, nil
		}
		if n.Slug != "" {
			slugs = append(slugs, n.Slug)
		}
	}
	return api.News{}, notFound(&NotFoundError{Kind: "news", Slug: slug, Suggestions: util.Suggest(slug, slugs, maxSuggestions)})
}

// Vehicles returns published vehicles in sort_order.
func (s *Service) Vehicles(ctx context.Context, limit int) ([]api.Vehicle, error) {
	recs, err := s.list(ctx, s.tables.Vehicles, orDefault(limit, VehiclesLimit), airtable.Sort{Field: "sort_order", Direction: airtable.Asc})
	if err != nil {
		return nil, err
	}
	return decodeVisible(s, s.tables.Vehicles, recs, decodeVehicle, api.Vehicle.Visible), nil
}

// ActiveRecruitPositions returns open positions, newest first.
func (s *Service) ActiveRecruitPositions(ctx context.Context, limit int) ([]api.Recruit, error) {
	recs, err := s.list(ctx, s.tables.Recruit, orDefault(limit, RecruitLimit), recruitSort)
	if err != nil {
		return nil, err
	}
	return decodeVisible(s, s.tables.Recruit, recs, decodeRecruit, api.Recruit.Visible), nil
}

// RecruitBySlug scans the open positions for slug.
func (s *Service) RecruitBySlug(ctx context.Context, slug string) (api.Recruit, error) {
	all, err := s.everyRecruit(ctx)
	if err != nil {
		return api.Recruit{}, err
	}
	slugs := make([]string, 0, len(all))
	for _, r := range all {
		if r.Slug == slug && slug != "" {
			return r, nil
		}
		if r.Slug != "" {
			slugs = append(slugs, r.Slug)
		}
	}
	return api.Recruit{}, notFound(&NotFoundError{Kind: "recruit", Slug: slug, Suggestions: util.Suggest(slug, slugs, maxSuggestions)})
}

// ContactMessages returns the newest inbox rows.
func (s *Service) ContactMessages(ctx context.Context, limit int) ([]api.Contact, error) {
	recs, err := s.list(ctx, s.tables.Contact, orDefault(limit, ContactLimit), airtable.Sort{Field: "received_at", Direction: airtable.Desc})
	if err != nil {
		return nil, err
	}
	return decodeVisible(s, s.tables.Contact, recs, decodeContact, always[api.Contact]), nil
}

// ContactMessage fetches one inbox row by its record id.
func (s *Service) ContactMessage(ctx context.Context, id string) (api.Contact, error) {
	if id == "" {
		return api.Contact{}, notFound(&NotFoundError{Kind: "contact", Slug: id})
	}
	r, err := s.backend.Get(ctx, s.tables.Contact, id)
	if errors.Is(err, airtable.ErrNotFound) {
		return api.Contact{}, notFound(&NotFoundError{Kind: "contact", Slug: id})
	}
	if err != nil {
		return api.Contact{}, err
	}
	return decodeContact(r)
}

// Slugs lists the slugs of every published news item and open position,
// for the sitemap.
func (s *Service) Slugs(ctx context.Context) (news, recruit []string, err error) {
	ns, err := s.everyNews(ctx)
	if err != nil {
		return nil, nil, err
	}
	rs, err := s.everyRecruit(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, n := range ns {
		if n.Slug != "" {
			news = append(news, n.Slug)
		}
	}
	for _, r := range rs {
		if r.Slug != "" {
			recruit = append(recruit, r.Slug)
		}
	}
	return news, recruit, nil
}

func notFound(e *NotFoundError) error {
	return goerrors.Wrap(e, goerrors.CategoryNotFound, e.Error()).
		WithTextCode("CONTENT_NOT_FOUND")
}
