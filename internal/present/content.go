package present

import (
	"strconv"

	"github.com/sinwaunyu/site/internal/markdown"
	"github.com/sinwaunyu/site/pkg/api"
)

const summaryRunes = 40

func summary(n api.News) string {
	if n.Summary != "" {
		return n.Summary
	}
	return markdown.Excerpt(markdown.Parse(n.Body), summaryRunes)
}

func NewsTable(items []api.News) Table {
	t := Table{Header: []string{"published", "slug", "category", "title", "summary"}}
	for _, n := range items {
		t.Rows = append(t.Rows, []string{n.PublishedAt, n.Slug, n.CategoryOrDefault(), n.Title, summary(n)})
	}
	return t
}

func NewsDoc(n api.News) Doc {
	return Doc{
		Title: n.Title,
		Meta: [][2]string{
			{"Slug", n.Slug},
			{"Category", n.CategoryOrDefault()},
			{"Published", n.PublishedAt},
			{"Summary", n.Summary},
		},
		Body: n.Body,
	}
}

func RecruitTable(items []api.Recruit) Table {
	t := Table{Header: []string{"slug", "title", "type", "location", "salary"}}
	for _, r := range items {
		t.Rows = append(t.Rows, []string{r.Slug, r.Title, r.EmploymentTypeOrDefault(), r.LocationOrDefault(), r.SalaryText()})
	}
	return t
}

func RecruitDoc(r api.Recruit) Doc {
	body := r.Description
	if r.Requirements != "" {
		body += "\n\n## 応募資格\n\n" + r.Requirements
	}
	return Doc{
		Title: r.Title,
		Meta: [][2]string{
			{"雇用形態", r.EmploymentTypeOrDefault()},
			{"勤務地", r.LocationOrDefault()},
			{"給与", r.SalaryText()},
			{"勤務時間", r.WorkTime},
			{"休日", r.Holiday},
			{"連絡先", r.ContactEmail},
		},
		Body: body,
	}
}

func VehicleTable(items []api.Vehicle) Table {
	t := Table{Header: []string{"name", "type", "capacity_t", "image"}}
	for _, v := range items {
		capacity := ""
		if v.CapacityTon != nil {
			capacity = strconv.FormatFloat(*v.CapacityTon, 'f', -1, 64)
		}
		t.Rows = append(t.Rows, []string{v.Name, v.VehicleType, capacity, v.ImageURL()})
	}
	return t
}

func CompanyDoc(c api.Company) Doc {
	return Doc{
		Title: c.Name,
		Meta: [][2]string{
			{"キャッチコピー", c.CatchPhrase},
			{"所在地", c.Address()},
			{"TEL", c.Tel},
			{"FAX", c.Fax},
			{"Email", c.Email},
			{"対応エリア", c.ServiceArea},
			{"設立", c.EstablishedOn},
			{"許認可", c.LicenseInfo},
		},
		Body: c.Description,
	}
}

func ContactTable(items []api.Contact) Table {
	t := Table{Header: []string{"received", "status", "category", "name", "email", "subject"}}
	for _, c := range items {
		t.Rows = append(t.Rows, []string{c.ReceivedAt, c.Status, c.Category, c.Name, c.Email, c.Subject})
	}
	return t
}

func ContactDoc(c api.Contact) Doc {
	title := c.Subject
	if title == "" {
		title = c.Name
	}
	return Doc{
		Title: title,
		Meta: [][2]string{
			{"ID", c.ID},
			{"Received", c.ReceivedAt},
			{"Status", c.Status},
			{"Category", c.Category},
			{"Name", c.Name},
			{"Company", c.CompanyName},
			{"Email", c.Email},
			{"Tel", c.Tel},
		},
		Body: c.Message,
	}
}
