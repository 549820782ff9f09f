// Package model defines the stored entities and the row shapes returned by
// list queries.
package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/atlekbai/timesheet/internal/validate"
)

// Table names.
const (
	TableClients    = "Clients"
	TableProjects   = "Projects"
	TableStatuses   = "Statuses"
	TableTimesheets = "Timesheets"
	TableInvoices   = "Invoices"
	TableProfiles   = "Profiles"
)

// Entity is a row of one table with an integer primary key "Id".
type Entity interface {
	TableName() string
	PrimaryKey() int64
	// Columns returns the writable columns and their values, without Id.
	Columns() map[string]any
}

type Client struct {
	ID           int64   `db:"Id" json:"id"`
	Name         string  `db:"Name" json:"name"`
	ContactName  *string `db:"ContactName" json:"contact_name,omitempty"`
	ContactPhone *string `db:"ContactPhone" json:"contact_phone,omitempty"`
	ContactEmail *string `db:"ContactEmail" json:"contact_email,omitempty"`
	Note         *string `db:"Note" json:"note,omitempty"`
}

func (Client) TableName() string    { return TableClients }
func (c Client) PrimaryKey() int64  { return c.ID }
func (c Client) Columns() map[string]any {
	return map[string]any{
		"Name":         c.Name,
		"ContactName":  c.ContactName,
		"ContactPhone": c.ContactPhone,
		"ContactEmail": c.ContactEmail,
		"Note":         c.Note,
	}
}

func (c Client) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validate.NotBlank, validation.Length(0, 50)),
		validation.Field(&c.ContactName, validation.Length(0, 50)),
		validation.Field(&c.ContactPhone, validate.Phone, validation.Length(0, 12)),
		validation.Field(&c.ContactEmail, validate.Email, validation.Length(0, 254)),
		validation.Field(&c.Note, validation.Length(0, 500)),
	)
}

// Normalize formats the contact phone as 123-456-7890.
func (c *Client) Normalize() {
	validate.FormatPhonePtr(c.ContactPhone)
}

type Project struct {
	ID          int64   `db:"Id" json:"id"`
	Name        string  `db:"Name" json:"name"`
	Description *string `db:"Description" json:"description,omitempty"`
	HourlyWage  float64 `db:"HourlyWage" json:"hourly_wage"`
	ClientID    *int64  `db:"ClientId" json:"client_id,omitempty"`
}

func (Project) TableName() string   { return TableProjects }
func (p Project) PrimaryKey() int64 { return p.ID }
func (p Project) Columns() map[string]any {
	return map[string]any{
		"Name":        p.Name,
		"Description": p.Description,
		"HourlyWage":  p.HourlyWage,
		"ClientId":    p.ClientID,
	}
}

func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validate.NotBlank, validation.Length(0, 100)),
		validation.Field(&p.Description, validation.Length(0, 500)),
		validation.Field(&p.HourlyWage, validation.Min(0.0)),
	)
}

type Status struct {
	ID        int64  `db:"Id" json:"id"`
	Name      string `db:"Name" json:"name"`
	ColorArgb string `db:"ColorArgb" json:"color_argb"`
}

func (Status) TableName() string   { return TableStatuses }
func (s Status) PrimaryKey() int64 { return s.ID }
func (s Status) Columns() map[string]any {
	return map[string]any{
		"Name":      s.Name,
		"ColorArgb": s.ColorArgb,
	}
}

type Timesheet struct {
	ID        int64   `db:"Id" json:"id"`
	Date      Date    `db:"Date" json:"date"`
	StartTime Clock   `db:"StartTime" json:"start_time"`
	EndTime   Clock   `db:"EndTime" json:"end_time"`
	Note      *string `db:"Note" json:"note,omitempty"`
	StatusID  *int64  `db:"StatusId" json:"status_id,omitempty"`
	ProjectID *int64  `db:"ProjectId" json:"project_id,omitempty"`
}

func (Timesheet) TableName() string   { return TableTimesheets }
func (t Timesheet) PrimaryKey() int64 { return t.ID }
func (t Timesheet) Columns() map[string]any {
	return map[string]any{
		"Date":      t.Date,
		"StartTime": t.StartTime,
		"EndTime":   t.EndTime,
		"Note":      t.Note,
		"StatusId":  t.StatusID,
		"ProjectId": t.ProjectID,
	}
}

// Worked returns the time between start and end.
func (t Timesheet) Worked() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// Hours returns the worked time in fractional hours.
func (t Timesheet) Hours() float64 {
	return t.Worked().Hours()
}

// Total returns the billable amount at wage per hour.
func (t Timesheet) Total(wage float64) float64 {
	return t.Hours() * wage
}

func (t Timesheet) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Date, validate.Check(!t.Date.IsZero(), "cannot be blank")),
		validation.Field(&t.EndTime, validate.Check(t.EndTime >= t.StartTime, "must equal or be after start time")),
		validation.Field(&t.ProjectID, validation.Required),
		validation.Field(&t.StatusID, validation.Required),
		validation.Field(&t.Note, validation.Length(0, 500)),
	)
}

type Invoice struct {
	ID           int64   `db:"Id" json:"id"`
	Number       string  `db:"Number" json:"number"`
	IssueDate    Date    `db:"IssueDate" json:"issue_date"`
	DueDate      Date    `db:"DueDate" json:"due_date"`
	ClientID     *int64  `db:"ClientId" json:"client_id,omitempty"`
	ProjectIDs   IDList  `db:"ProjectIdArray" json:"project_ids"`
	TimesheetIDs IDList  `db:"TimesheetIdArray" json:"timesheet_ids"`
	Comments     *string `db:"Comments" json:"comments,omitempty"`
	StatusID     *int64  `db:"StatusId" json:"status_id,omitempty"`
}

func (Invoice) TableName() string   { return TableInvoices }
func (i Invoice) PrimaryKey() int64 { return i.ID }
func (i Invoice) Columns() map[string]any {
	return map[string]any{
		"Number":           i.Number,
		"IssueDate":        i.IssueDate,
		"DueDate":          i.DueDate,
		"ClientId":         i.ClientID,
		"ProjectIdArray":   i.ProjectIDs,
		"TimesheetIdArray": i.TimesheetIDs,
		"Comments":         i.Comments,
		"StatusId":         i.StatusID,
	}
}

func (i Invoice) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Number, validation.Required, validate.NotBlank),
		validation.Field(&i.ClientID, validation.Required),
		validation.Field(&i.StatusID, validation.Required),
		validation.Field(&i.IssueDate, validate.Check(!i.IssueDate.IsZero(), "cannot be blank")),
		validation.Field(&i.DueDate, validate.Check(!i.DueDate.Before(i.IssueDate.Time), "must equal or be after issue date")),
	)
}

type Profile struct {
	ID         int64   `db:"Id" json:"id"`
	FirstName  string  `db:"FirstName" json:"first_name"`
	LastName   string  `db:"LastName" json:"last_name"`
	Address    *string `db:"Address" json:"address,omitempty"`
	Address2   *string `db:"Address2" json:"address2,omitempty"`
	City       *string `db:"City" json:"city,omitempty"`
	Province   *string `db:"Province" json:"province,omitempty"`
	Country    *string `db:"Country" json:"country,omitempty"`
	PostalCode *string `db:"PostalCode" json:"postal_code,omitempty"`
	Phone      string  `db:"Phone" json:"phone"`
	Email      string  `db:"Email" json:"email"`
	WebSite    *string `db:"WebSite" json:"web_site,omitempty"`
	Image      []byte  `db:"Image" json:"image,omitempty"`
}

func (Profile) TableName() string   { return TableProfiles }
func (p Profile) PrimaryKey() int64 { return p.ID }
func (p Profile) Columns() map[string]any {
	return map[string]any{
		"FirstName":  p.FirstName,
		"LastName":   p.LastName,
		"Address":    p.Address,
		"Address2":   p.Address2,
		"City":       p.City,
		"Province":   p.Province,
		"Country":    p.Country,
		"PostalCode": p.PostalCode,
		"Phone":      p.Phone,
		"Email":      p.Email,
		"WebSite":    p.WebSite,
		"Image":      p.Image,
	}
}

func (p Profile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.Required, validate.NotBlank),
		validation.Field(&p.LastName, validation.Required, validate.NotBlank),
		validation.Field(&p.Phone, validation.Required, validate.Phone),
		validation.Field(&p.Email, validation.Required, validate.Email),
	)
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
