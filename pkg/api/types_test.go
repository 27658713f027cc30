package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestSalaryText(t *testing.T) {
	tests := []struct {
		name string
		r    Recruit
		want string
	}{
		{"range hourly", Recruit{SalaryMin: ptr(int64(1000)), SalaryMax: ptr(int64(1200)), SalaryUnit: "hourly"}, "1,000〜1,200円／時"},
		{"range monthly", Recruit{SalaryMin: ptr(int64(230000)), SalaryMax: ptr(int64(350000)), SalaryUnit: "monthly"}, "230,000〜350,000円／月"},
		{"min only", Recruit{SalaryMin: ptr(int64(200000)), SalaryUnit: "monthly"}, "200,000円／月〜"},
		{"unknown unit", Recruit{SalaryMin: ptr(int64(5000)), SalaryMax: ptr(int64(8000)), SalaryUnit: "daily"}, "5,000〜8,000"},
		{"max only", Recruit{SalaryMax: ptr(int64(300000))}, ""},
		{"none", Recruit{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.r.SalaryText())
		})
	}
}

func TestDefaults(t *testing.T) {
	r := Recruit{}
	assert.Equal(t, "正社員", r.EmploymentTypeOrDefault())
	assert.Equal(t, "北海道恵庭市", r.LocationOrDefault())
	r = Recruit{EmploymentType: "パート", Location: "札幌市"}
	assert.Equal(t, "パート", r.EmploymentTypeOrDefault())
	assert.Equal(t, "札幌市", r.LocationOrDefault())

	assert.Equal(t, "お知らせ", News{}.CategoryOrDefault())
	assert.Equal(t, "採用", News{Category: "採用"}.CategoryOrDefault())
}

func TestVisibility(t *testing.T) {
	assert.True(t, News{}.Visible())
	assert.True(t, News{IsPublished: ptr(true)}.Visible())
	assert.False(t, News{IsPublished: ptr(false)}.Visible())
	assert.True(t, Recruit{}.Visible())
	assert.False(t, Recruit{IsActive: ptr(false)}.Visible())
	assert.False(t, Vehicle{IsPublished: ptr(false)}.Visible())
}

func TestHeroMediaPutsVideosFirst(t *testing.T) {
	n := News{Hero: []Attachment{
		{URL: "https://x/1.jpg", Type: "image/jpeg"},
		{URL: "", Type: "video/mp4"},
		{URL: "https://x/2.mp4", Type: "video/mp4"},
		{URL: "https://x/3.png"},
		{URL: "https://x/4.webm", Type: "video/webm"},
	}}
	var urls []string
	for _, a := range n.HeroMedia() {
		urls = append(urls, a.URL)
	}
	assert.Equal(t, []string{"https://x/2.mp4", "https://x/4.webm", "https://x/1.jpg", "https://x/3.png"}, urls)
}

func TestPublished(t *testing.T) {
	ts, ok := News{PublishedAt: "2024-04-01"}.Published()
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	_, ok = News{PublishedAt: "2024-04-01T10:00:00.000Z"}.Published()
	assert.True(t, ok)
	_, ok = News{}.Published()
	assert.False(t, ok)
}

func TestContactFieldsOmitEmptyOptionals(t *testing.T) {
	c := Contact{Name: "山田", Email: "y@example.jp", Category: "other", Message: "見積もり", ReceivedAt: "2024-01-01T00:00:00Z", Status: ContactStatusNew, Tel: "0123"}
	f := c.Fields()
	assert.Equal(t, "0123", f["tel"])
	_, hasCompany := f["company_name"]
	_, hasSubject := f["subject"]
	assert.False(t, hasCompany)
	assert.False(t, hasSubject)
	assert.Equal(t, "new", f["status"])
}

func TestCompanyAddress(t *testing.T) {
	c := Company{PostalCode: "061-1400", AddressPref: "北海道", AddressCity: "恵庭市", AddressLine: "1-1"}
	assert.Equal(t, "〒061-1400 北海道恵庭市1-1", c.Address())
	assert.Equal(t, "北海道", Company{AddressPref: "北海道"}.Address())
}
