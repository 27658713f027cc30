package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/sinwaunyu/site/internal/content"
	"github.com/sinwaunyu/site/internal/markdown"
	"github.com/sinwaunyu/site/pkg/api"
)

const excerptRunes = 120

type companyView struct {
	api.Company
	Address string `json:"address"`
}

type newsView struct {
	api.News
	Category string           `json:"category"`
	Hero     []api.Attachment `json:"hero,omitempty"`
	Excerpt  string           `json:"excerpt,omitempty"`
}

type newsDetail struct {
	newsView
	BodyNodes []markdown.Node `json:"body_nodes"`
	BodyHTML  string          `json:"body_html"`
}

type vehicleView struct {
	api.Vehicle
	ImageURL string `json:"image_url,omitempty"`
}

type recruitView struct {
	api.Recruit
	EmploymentType string `json:"employment_type"`
	Location       string `json:"location"`
	SalaryText     string `json:"salary_text,omitempty"`
}

type recruitDetail struct {
	recruitView
	DescriptionNodes  []markdown.Node `json:"description_nodes"`
	DescriptionHTML   string          `json:"description_html"`
	RequirementsNodes []markdown.Node `json:"requirements_nodes"`
	RequirementsHTML  string          `json:"requirements_html"`
}

type listBody[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newListBody[T any](items []T) listBody[T] {
	return listBody[T]{Items: items, Count: len(items)}
}

func toNewsView(n api.News) newsView {
	excerpt := n.Summary
	if excerpt == "" {
		excerpt = markdown.Excerpt(markdown.Parse(n.Body), excerptRunes)
	}
	return newsView{News: n, Category: n.CategoryOrDefault(), Hero: n.HeroMedia(), Excerpt: excerpt}
}

func toRecruitView(p api.Recruit) recruitView {
	return recruitView{
		Recruit:        p,
		EmploymentType: p.EmploymentTypeOrDefault(),
		Location:       p.LocationOrDefault(),
		SalaryText:     p.SalaryText(),
	}
}

// rendered returns the node sequence and joined markup of a markdown field.
func rendered(text string) ([]markdown.Node, string) {
	doc := markdown.Parse(text)
	return markdown.Nodes(doc), markdown.ToHTML(doc)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.content.CompanyProfile(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, companyView{Company: c, Address: c.Address()})
}

func (s *Server) handleNewsList(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, content.AllNewsLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.content.AllNews(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]newsView, 0, len(items))
	for _, n := range items {
		out = append(out, toNewsView(n))
	}
	writeJSON(w, r, http.StatusOK, newListBody(out))
}

func (s *Server) handleNewsDetail(w http.ResponseWriter, r *http.Request) {
	n, err := s.content.NewsBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d := newsDetail{newsView: toNewsView(n)}
	d.BodyNodes, d.BodyHTML = rendered(n.Body)
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, content.VehiclesLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.content.Vehicles(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]vehicleView, 0, len(items))
	for _, v := range items {
		out = append(out, vehicleView{Vehicle: v, ImageURL: v.ImageURL()})
	}
	writeJSON(w, r, http.StatusOK, newListBody(out))
}

func (s *Server) handleRecruitList(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, content.RecruitLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.content.ActiveRecruitPositions(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]recruitView, 0, len(items))
	for _, p := range items {
		out = append(out, toRecruitView(p))
	}
	writeJSON(w, r, http.StatusOK, newListBody(out))
}

func (s *Server) handleRecruitDetail(w http.ResponseWriter, r *http.Request) {
	p, err := s.content.RecruitBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d := recruitDetail{recruitView: toRecruitView(p)}
	d.DescriptionNodes, d.DescriptionHTML = rendered(p.Description)
	d.RequirementsNodes, d.RequirementsHTML = rendered(p.Requirements)
	writeJSON(w, r, http.StatusOK, d)
}

type contactResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	ID    string `json:"id,omitempty"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var in content.ContactInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		s.log.Warn("http.contact.bad_body", "error", err, "request_id", RequestID(r.Context()))
		writeJSON(w, r, http.StatusBadRequest, contactResult{Error: msgServerError})
		return
	}
	c, err := s.content.SubmitContact(r.Context(), in)
	if err != nil {
		status, e := errorStatus(err)
		switch {
		case status == http.StatusBadRequest:
			writeJSON(w, r, http.StatusBadRequest, contactResult{Error: msgRequired})
		case e.TextCode == "CONFIG_MISSING":
			writeJSON(w, r, http.StatusInternalServerError, contactResult{Error: msgConfig})
		default:
			s.log.Error("http.contact.failed", "error", err, "request_id", RequestID(r.Context()))
			writeJSON(w, r, http.StatusInternalServerError, contactResult{Error: msgSendFailed})
		}
		return
	}
	writeJSON(w, r, http.StatusOK, contactResult{OK: true, ID: c.ID})
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

type renderResponse struct {
	Nodes []markdown.Node `json:"nodes"`
	HTML  string          `json:"html"`
	Text  string          `json:"text"`
}

// handleRender accepts either {"markdown": "..."} or a raw text body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, badInput("request body too large"))
		return
	}
	text := string(raw)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req renderRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeError(w, r, badInput("invalid json body"))
			return
		}
		text = req.Markdown
	}
	doc := markdown.Parse(text)
	writeJSON(w, r, http.StatusOK, renderResponse{
		Nodes: markdown.Nodes(doc),
		HTML:  markdown.ToHTML(doc),
		Text:  doc.PlainText(),
	})
}

var errUnconfigured = errors.New("airtable credentials are not configured")

// unconfigured stands in for the content service when Airtable credentials
// are missing.
type unconfigured struct{}

func (unconfigured) err() error {
	return goerrors.Wrap(errUnconfigured, goerrors.CategoryInternal, "content source unavailable").
		WithTextCode("CONFIG_MISSING")
}

func (u unconfigured) CompanyProfile(context.Context) (api.Company, error) {
	return api.Company{}, u.err()
}

func (u unconfigured) LatestNews(context.Context, int) ([]api.News, error) { return nil, u.err() }
func (u unconfigured) AllNews(context.Context, int) ([]api.News, error)    { return nil, u.err() }
func (u unconfigured) NewsBySlug(context.Context, string) (api.News, error) {
	return api.News{}, u.err()
}
func (u unconfigured) Vehicles(context.Context, int) ([]api.Vehicle, error) { return nil, u.err() }
func (u unconfigured) ActiveRecruitPositions(context.Context, int) ([]api.Recruit, error) {
	return nil, u.err()
}
func (u unconfigured) RecruitBySlug(context.Context, string) (api.Recruit, error) {
	return api.Recruit{}, u.err()
}
func (u unconfigured) Slugs(context.Context) ([]string, []string, error) { return nil, nil, u.err() }
func (u unconfigured) SubmitContact(_ context.Context, in content.ContactInput) (api.Contact, error) {
	if _, err := content.ValidateContact(in); err != nil {
		return api.Contact{}, err
	}
	return api.Contact{}, u.err()
}
