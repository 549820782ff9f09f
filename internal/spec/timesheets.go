package spec

import (
	"time"

	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/period"
	"github.com/atlekbai/timesheet/internal/query"
)

var timesheetColumns = []string{
	"t.Id AS Id",
	"t.Date AS Date",
	"t.StartTime AS StartTime",
	"t.EndTime AS EndTime",
	"p.Name AS ProjectName",
	"p.HourlyWage AS ProjectHourlyWage",
	"s.ColorArgb AS ColorArgb",
}

func timesheetBase(ascending bool) *query.Builder {
	return query.New().
		Select(timesheetColumns...).
		From(model.TableTimesheets+" t").
		LeftJoin(model.TableProjects+" p", "t.ProjectId", "p.Id").
		LeftJoin(model.TableStatuses+" s", "t.StatusId", "s.Id").
		OrderBy("t.Date", ascending)
}

// wherePeriod restricts t.Date to the range of p around start, or around
// today when start is zero.
func wherePeriod(b *query.Builder, p period.Period, start time.Time) {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	from, to, ok := period.Range(p, start)
	if !ok {
		return
	}
	b.WhereBetween("t.Date", model.DateOf(from), model.DateOf(to))
}

// Timesheets filters the timesheet list. Dates sort newest first unless
// Ascending is set.
type Timesheets struct {
	Period    period.Period `json:"period"`
	StartDate time.Time     `json:"start_date,omitzero"`
	ProjectID int64         `json:"project_id,omitempty"`
	ClientID  int64         `json:"client_id,omitempty"`
	StatusIDs []int64       `json:"status_ids,omitempty"`
	Ascending bool          `json:"ascending,omitempty"`
}

func (s Timesheets) Query() (query.Query, error) {
	b := timesheetBase(s.Ascending)
	wherePeriod(b, s.Period, s.StartDate)

	if s.ProjectID > 0 {
		b.Where("t.ProjectId", query.OpEq, s.ProjectID)
	}
	if s.ClientID > 0 {
		b.InnerJoin(model.TableClients+" c", "p.ClientId", "c.Id")
		b.Where("p.ClientId", query.OpEq, s.ClientID)
	}
	if len(s.StatusIDs) > 0 {
		b.WhereIn("t.StatusId", int64Args(s.StatusIDs)...)
	}
	return b.Build()
}

func (s Timesheets) FilterNames() string {
	var active []string
	if s.ProjectID > 0 {
		active = append(active, "Project")
	}
	if s.ClientID > 0 {
		active = append(active, "Client")
	}
	if len(s.StatusIDs) > 0 {
		active = append(active, "Status")
	}
	return filterNames(active...)
}

// InvoiceTimesheets lists the timesheets that can be attached to an invoice.
// An explicit StartDate..EndDate range wins over Period.
type InvoiceTimesheets struct {
	Period     period.Period `json:"period"`
	StartDate  time.Time     `json:"start_date,omitzero"`
	EndDate    time.Time     `json:"end_date,omitzero"`
	ProjectIDs []int64       `json:"project_ids,omitempty"`
	Ascending  bool          `json:"ascending,omitempty"`
}

func (s InvoiceTimesheets) Query() (query.Query, error) {
	b := timesheetBase(s.Ascending)
	if !s.StartDate.IsZero() && !s.EndDate.IsZero() {
		b.WhereBetween("t.Date", model.DateOf(s.StartDate), model.DateOf(s.EndDate))
	} else {
		wherePeriod(b, s.Period, s.StartDate)
	}
	if len(s.ProjectIDs) > 0 {
		b.WhereIn("t.ProjectId", int64Args(s.ProjectIDs)...)
	}
	return b.Build()
}

func (InvoiceTimesheets) FilterNames() string { return "" }
