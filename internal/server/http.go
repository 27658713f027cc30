// Package server exposes site content over HTTP as JSON for the page layer.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/sinwaunyu/site/internal/config"
	"github.com/sinwaunyu/site/internal/content"
	"github.com/sinwaunyu/site/internal/logging"
	"github.com/sinwaunyu/site/pkg/api"
)

// Content is the read/write surface the handlers need; *content.Service
// satisfies it.
type Content interface {
	CompanyProfile(ctx context.Context) (api.Company, error)
	LatestNews(ctx context.Context, limit int) ([]api.News, error)
	AllNews(ctx context.Context, limit int) ([]api.News, error)
	NewsBySlug(ctx context.Context, slug string) (api.News, error)
	Vehicles(ctx context.Context, limit int) ([]api.Vehicle, error)
	ActiveRecruitPositions(ctx context.Context, limit int) ([]api.Recruit, error)
	RecruitBySlug(ctx context.Context, slug string) (api.Recruit, error)
	Slugs(ctx context.Context) (news, recruit []string, err error)
	SubmitContact(ctx context.Context, in content.ContactInput) (api.Contact, error)
}

const maxBodyBytes = 64 << 10

// Server serves the content API.
type Server struct {
	cfg     config.Config
	content Content
	log     logging.Logger
	now     func() time.Time
}

// New returns a Server. A nil content answers every content route with a
// configuration error; /api/render and /healthz keep working.
func New(cfg config.Config, c Content, log logging.Logger) *Server {
	if c == nil {
		c = unconfigured{}
	}
	return &Server{cfg: cfg, content: c, log: logging.OrNoOp(log), now: time.Now}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/company", s.handleCompany)
	mux.HandleFunc("GET /api/news", s.handleNewsList)
	mux.HandleFunc("GET /api/news/{slug}", s.handleNewsDetail)
	mux.HandleFunc("GET /api/vehicles", s.handleVehicles)
	mux.HandleFunc("GET /api/recruit", s.handleRecruitList)
	mux.HandleFunc("GET /api/recruit/{slug}", s.handleRecruitDetail)
	mux.HandleFunc("POST /api/contact", s.handleContact)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	mux.HandleFunc("GET /robots.txt", s.handleRobots)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, errorBody{Error: "not found"})
	})
	return s.withRequestID(s.withAccessLog(s.withRecover(mux)))
}
