// Package api holds the content types served by the site and shared by the
// CLI and the HTTP layer.
package api

import (
	"strings"
	"time"
)

// Attachment is a file stored in an Airtable attachment column.
type Attachment struct {
	URL      string `json:"url" mapstructure:"url"`
	Filename string `json:"filename,omitempty" mapstructure:"filename"`
	Size     int64  `json:"size,omitempty" mapstructure:"size"`
	Type     string `json:"type,omitempty" mapstructure:"type"`
}

func (a Attachment) IsVideo() bool { return strings.HasPrefix(a.Type, "video/") }

type Company struct {
	ID            string   `json:"id" mapstructure:"-"`
	CompanyID     string   `json:"company_id,omitempty" mapstructure:"company_id"`
	Name          string   `json:"name" mapstructure:"name"`
	NameKana      string   `json:"name_kana,omitempty" mapstructure:"name_kana"`
	CatchPhrase   string   `json:"catch_phrase,omitempty" mapstructure:"catch_phrase"`
	Description   string   `json:"description,omitempty" mapstructure:"description"`
	PostalCode    string   `json:"postal_code,omitempty" mapstructure:"postal_code"`
	AddressPref   string   `json:"address_pref,omitempty" mapstructure:"address_pref"`
	AddressCity   string   `json:"address_city,omitempty" mapstructure:"address_city"`
	AddressLine   string   `json:"address_line,omitempty" mapstructure:"address_line"`
	Tel           string   `json:"tel,omitempty" mapstructure:"tel"`
	Fax           string   `json:"fax,omitempty" mapstructure:"fax"`
	Email         string   `json:"email,omitempty" mapstructure:"email"`
	ServiceArea   string   `json:"service_area,omitempty" mapstructure:"service_area"`
	GeoLat        *float64 `json:"geo_lat,omitempty" mapstructure:"geo_lat"`
	GeoLng        *float64 `json:"geo_lng,omitempty" mapstructure:"geo_lng"`
	EstablishedOn string   `json:"established_on,omitempty" mapstructure:"established_on"`
	LicenseInfo   string   `json:"license_info,omitempty" mapstructure:"license_info"`
}

// Address joins the address parts, prefixed with the postal code mark.
func (c Company) Address() string {
	addr := c.AddressPref + c.AddressCity + c.AddressLine
	if c.PostalCode != "" {
		return "〒" + c.PostalCode + " " + addr
	}
	return addr
}

const DefaultNewsCategory = "お知らせ"

type News struct {
	ID              string       `json:"id" mapstructure:"-"`
	CreatedTime     time.Time    `json:"created_time" mapstructure:"-"`
	Slug            string       `json:"slug" mapstructure:"slug"`
	Title           string       `json:"title" mapstructure:"title"`
	Category        string       `json:"category,omitempty" mapstructure:"category"`
	Summary         string       `json:"summary,omitempty" mapstructure:"summary"`
	Body            string       `json:"body,omitempty" mapstructure:"body"`
	PublishedAt     string       `json:"published_at,omitempty" mapstructure:"published_at"`
	IsPublished     *bool        `json:"is_published,omitempty" mapstructure:"is_published"`
	Hero            []Attachment `json:"hero,omitempty" mapstructure:"hero_image_url"`
	MetaTitle       string       `json:"meta_title,omitempty" mapstructure:"meta_title"`
	MetaDescription string       `json:"meta_description,omitempty" mapstructure:"meta_description"`
}

// Visible reports whether the item may be shown. A missing flag counts as
// published.
func (n News) Visible() bool { return n.IsPublished == nil || *n.IsPublished }

func (n News) CategoryOrDefault() string {
	if n.Category == "" {
		return DefaultNewsCategory
	}
	return n.Category
}

// HeroMedia returns the hero attachments with videos first, keeping the
// stored order otherwise.
func (n News) HeroMedia() []Attachment {
	out := make([]Attachment, 0, len(n.Hero))
	for _, a := range n.Hero {
		if a.URL != "" && a.IsVideo() {
			out = append(out, a)
		}
	}
	for _, a := range n.Hero {
		if a.URL != "" && !a.IsVideo() {
			out = append(out, a)
		}
	}
	return out
}

// Published parses PublishedAt, which Airtable stores either as a date or
// as a timestamp.
func (n News) Published() (time.Time, bool) {
	return parseDate(n.PublishedAt)
}

type Vehicle struct {
	ID          string       `json:"id" mapstructure:"-"`
	Slug        string       `json:"slug,omitempty" mapstructure:"slug"`
	Name        string       `json:"name" mapstructure:"name"`
	VehicleType string       `json:"vehicle_type,omitempty" mapstructure:"vehicle_type"`
	CapacityTon *float64     `json:"capacity_ton,omitempty" mapstructure:"capacity_ton"`
	Description string       `json:"description,omitempty" mapstructure:"description"`
	Images      []Attachment `json:"images,omitempty" mapstructure:"image_url"`
	IsPublished *bool        `json:"is_published,omitempty" mapstructure:"is_published"`
	SortOrder   *float64     `json:"sort_order,omitempty" mapstructure:"sort_order"`
}

func (v Vehicle) Visible() bool { return v.IsPublished == nil || *v.IsPublished }

// ImageURL returns the first image, or "".
func (v Vehicle) ImageURL() string {
	for _, a := range v.Images {
		if a.URL != "" {
			return a.URL
		}
	}
	return ""
}

const (
	DefaultEmploymentType = "正社員"
	DefaultLocation       = "北海道恵庭市"
)

type Recruit struct {
	ID             string `json:"id" mapstructure:"-"`
	Slug           string `json:"slug" mapstructure:"slug"`
	Title          string `json:"title" mapstructure:"title"`
	EmploymentType string `json:"employment_type,omitempty" mapstructure:"employment_type"`
	Location       string `json:"location,omitempty" mapstructure:"location"`
	Description    string `json:"description,omitempty" mapstructure:"description"`
	Requirements   string `json:"requirements,omitempty" mapstructure:"requirements"`
	WorkTime       string `json:"work_time,omitempty" mapstructure:"work_time"`
	Holiday        string `json:"holiday,omitempty" mapstructure:"holiday"`
	SalaryMin      *int64 `json:"salary_min,omitempty" mapstructure:"salary_min"`
	SalaryMax      *int64 `json:"salary_max,omitempty" mapstructure:"salary_max"`
	SalaryUnit     string `json:"salary_unit,omitempty" mapstructure:"salary_unit"`
	ContactEmail   string `json:"contact_email,omitempty" mapstructure:"contact_email"`
	IsActive       *bool  `json:"is_active,omitempty" mapstructure:"is_active"`
	PublishedAt    string `json:"published_at,omitempty" mapstructure:"published_at"`
}

func (r Recruit) Visible() bool { return r.IsActive == nil || *r.IsActive }

func (r Recruit) EmploymentTypeOrDefault() string {
	if r.EmploymentType == "" {
		return DefaultEmploymentType
	}
	return r.EmploymentType
}

func (r Recruit) LocationOrDefault() string {
	if r.Location == "" {
		return DefaultLocation
	}
	return r.Location
}

// Contact statuses.
const (
	ContactStatusNew = "new"
)

type Contact struct {
	ID          string `json:"id" mapstructure:"-"`
	Name        string `json:"name" mapstructure:"name"`
	CompanyName string `json:"company_name,omitempty" mapstructure:"company_name"`
	Email       string `json:"email" mapstructure:"email"`
	Tel         string `json:"tel,omitempty" mapstructure:"tel"`
	Category    string `json:"category,omitempty" mapstructure:"category"`
	Subject     string `json:"subject,omitempty" mapstructure:"subject"`
	Message     string `json:"message,omitempty" mapstructure:"message"`
	ReceivedAt  string `json:"received_at,omitempty" mapstructure:"received_at"`
	Status      string `json:"status,omitempty" mapstructure:"status"`
}

// Fields returns the Airtable column values for a new record. Empty
// optional values are left out.
func (c Contact) Fields() map[string]any {
	f := map[string]any{
		"name":        c.Name,
		"email":       c.Email,
		"category":    c.Category,
		"message":     c.Message,
		"received_at": c.ReceivedAt,
		"status":      c.Status,
	}
	for k, v := range map[string]string{"company_name": c.CompanyName, "tel": c.Tel, "subject": c.Subject} {
		if v != "" {
			f[k] = v
		}
	}
	return f
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
