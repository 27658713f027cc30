package server

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type staticPage struct {
	path     string
	freq     string
	priority float64
}

var staticPages = []staticPage{
	{"/", "weekly", 1},
	{"/company", "monthly", 0.9},
	{"/service", "monthly", 0.9},
	{"/news", "weekly", 0.8},
	{"/recruit", "weekly", 0.8},
	{"/contact", "yearly", 0.7},
}

// SitemapSlugs lists the dynamic pages to include.
type SitemapSlugs interface {
	Slugs(ctx context.Context) (news, recruit []string, err error)
}

// BuildSitemap returns the static pages followed by one entry per news and
// recruit slug. A nil slugs source yields only the static pages.
func BuildSitemap(ctx context.Context, baseURL string, slugs SitemapSlugs, now time.Time) ([]SitemapURL, error) {
	base := strings.TrimSuffix(baseURL, "/")
	mod := now.UTC().Format(time.RFC3339)
	out := make([]SitemapURL, 0, len(staticPages))
	for _, p := range staticPages {
		out = append(out, SitemapURL{Loc: base + p.path, LastMod: mod, ChangeFreq: p.freq, Priority: p.priority})
	}
	if slugs == nil {
		return out, nil
	}
	news, recruit, err := slugs.Slugs(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range news {
		out = append(out, SitemapURL{Loc: base + "/news/" + url.PathEscape(s), LastMod: mod, ChangeFreq: "monthly", Priority: 0.6})
	}
	for _, s := range recruit {
		out = append(out, SitemapURL{Loc: base + "/recruit/" + url.PathEscape(s), LastMod: mod, ChangeFreq: "weekly", Priority: 0.7})
	}
	return out, nil
}

// MarshalSitemap encodes urls as a sitemaps.org document.
func MarshalSitemap(urls []SitemapURL) ([]byte, error) {
	body, err := xml.MarshalIndent(urlSet{XMLNS: sitemapNS, URLs: urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	urls, err := BuildSitemap(r.Context(), s.cfg.Site.BaseURL, s.content, s.now())
	if err != nil {
		s.log.Warn("http.sitemap.slugs_failed", "error", err, "request_id", RequestID(r.Context()))
		urls, _ = BuildSitemap(r.Context(), s.cfg.Site.BaseURL, nil, s.now())
	}
	body, err := MarshalSitemap(urls)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBody(w, r, http.StatusOK, "application/xml; charset=utf-8", body)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", strings.TrimSuffix(s.cfg.Site.BaseURL, "/"))
	writeBody(w, r, http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
