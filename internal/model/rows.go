package model

import "time"

// IDName is the minimal row used to populate pickers.
type IDName struct {
	ID   int64  `db:"Id" json:"id"`
	Name string `db:"Name" json:"name"`
}

func (n IDName) String() string { return n.Name }

type ClientRow struct {
	ID           int64   `db:"Id" json:"id"`
	Name         string  `db:"Name" json:"name"`
	ContactName  *string `db:"ContactName" json:"contact_name,omitempty"`
	ContactPhone *string `db:"ContactPhone" json:"contact_phone,omitempty"`
	ContactEmail *string `db:"ContactEmail" json:"contact_email,omitempty"`
}

type ProjectRow struct {
	ID          int64   `db:"Id" json:"id"`
	Name        string  `db:"Name" json:"name"`
	Description *string `db:"Description" json:"description,omitempty"`
	HourlyWage  float64 `db:"HourlyWage" json:"hourly_wage"`
	ClientName  *string `db:"ClientName" json:"client_name,omitempty"`
}

type TimesheetRow struct {
	ID                int64    `db:"Id" json:"id"`
	Date              Date     `db:"Date" json:"date"`
	StartTime         Clock    `db:"StartTime" json:"start_time"`
	EndTime           Clock    `db:"EndTime" json:"end_time"`
	ProjectName       *string  `db:"ProjectName" json:"project_name,omitempty"`
	ProjectHourlyWage *float64 `db:"ProjectHourlyWage" json:"project_hourly_wage,omitempty"`
	ColorArgb         *string  `db:"ColorArgb" json:"color_argb,omitempty"`
}

// Worked returns the time between start and end.
func (r TimesheetRow) Worked() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Total returns the billable amount at the project wage, zero without a project.
func (r TimesheetRow) Total() float64 {
	if r.ProjectHourlyWage == nil {
		return 0
	}
	return r.Worked().Hours() * *r.ProjectHourlyWage
}

// InvoiceTimesheetRow is a timesheet candidate for an invoice; Checked marks
// the ones already attached.
type InvoiceTimesheetRow struct {
	TimesheetRow
	Checked bool `db:"-" json:"checked"`
}

type InvoiceRow struct {
	ID         int64   `db:"Id" json:"id"`
	Number     string  `db:"Number" json:"number"`
	ClientName *string `db:"ClientName" json:"client_name,omitempty"`
	IssueDate  Date    `db:"IssueDate" json:"issue_date"`
	DueDate    Date    `db:"DueDate" json:"due_date"`
	ColorArgb  *string `db:"ColorArgb" json:"color_argb,omitempty"`
}
