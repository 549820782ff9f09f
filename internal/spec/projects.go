package spec

import (
	"strconv"

	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/query"
)

// Projects filters the project list. HourlyWage matches by textual prefix,
// so 4 finds 40 and 45.5.
type Projects struct {
	Name       string   `json:"name,omitempty"`
	HourlyWage *float64 `json:"hourly_wage,omitempty"`
	ClientID   int64    `json:"client_id,omitempty"`
}

func (s Projects) Query() (query.Query, error) {
	b := query.New().
		Select(
			"p.Id AS Id",
			"p.Name AS Name",
			"p.Description AS Description",
			"p.HourlyWage AS HourlyWage",
			"c.Name AS ClientName",
		).
		From(model.TableProjects+" p").
		LeftJoin(model.TableClients+" c", "p.ClientId", "c.Id").
		OrderBy("p.Id", true)

	if s.Name != "" {
		b.WhereLike(query.Lower("p.Name"), contains(s.Name))
	}
	if s.HourlyWage != nil {
		b.WhereLike(query.Cast("p.HourlyWage", query.Text), strconv.FormatFloat(*s.HourlyWage, 'f', -1, 64)+"%")
	}
	if s.ClientID > 0 {
		b.Where("p.ClientId", query.OpEq, s.ClientID)
	}
	return b.Build()
}

func (s Projects) FilterNames() string {
	var active []string
	if s.Name != "" {
		active = append(active, "Name")
	}
	if s.HourlyWage != nil {
		active = append(active, "Wage")
	}
	if s.ClientID > 0 {
		active = append(active, "Client")
	}
	return filterNames(active...)
}
