package spec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlekbai/timesheet/internal/db"
	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/period"
	"github.com/atlekbai/timesheet/internal/query"
	"github.com/atlekbai/timesheet/internal/repository"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClientsQuery(t *testing.T) {
	tests := []struct {
		name    string
		spec    Clients
		where   string
		args    []any
		filters string
	}{
		{"none", Clients{}, "", nil, ""},
		{"name", Clients{Name: "AcMe"}, " WHERE LOWER(Name) LIKE ?", []any{"%acme%"}, "Filters: Name"},
		{
			"all",
			Clients{Name: "a", ContactName: "B", ContactPhone: "555", ContactEmail: "X@"},
			" WHERE LOWER(Name) LIKE ? AND LOWER(ContactName) LIKE ? AND ContactPhone LIKE ? AND LOWER(ContactEmail) LIKE ?",
			[]any{"%a%", "%b%", "%555%", "%x@%"},
			"Filters: Name | Contact Name | Contact Phone | Contact Email",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.spec.Query()
			require.NoError(t, err)
			assert.Equal(t,
				"SELECT Id, Name, ContactName, ContactPhone, ContactEmail FROM Clients"+tt.where+" ORDER BY Id ASC",
				q.SQL())
			if tt.args == nil {
				assert.Empty(t, q.Args())
			} else {
				assert.Equal(t, tt.args, q.Args())
			}
			assert.Equal(t, tt.filters, tt.spec.FilterNames())
		})
	}
}

func TestProjectsQuery(t *testing.T) {
	s := Projects{Name: "Web", HourlyWage: model.Ptr(45.0), ClientID: 7}
	q, err := s.Query()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT p.Id AS Id, p.Name AS Name, p.Description AS Description, p.HourlyWage AS HourlyWage, c.Name AS ClientName"+
			" FROM Projects p LEFT JOIN Clients c ON p.ClientId = c.Id"+
			" WHERE LOWER(p.Name) LIKE ? AND CAST(p.HourlyWage AS TEXT) LIKE ? AND p.ClientId = ?"+
			" ORDER BY p.Id ASC",
		q.SQL())
	assert.Equal(t, []any{"%web%", "45%", int64(7)}, q.Args())
	assert.Equal(t, "Filters: Name | Wage | Client", s.FilterNames())
	assert.Empty(t, Projects{}.FilterNames())
}

func TestTimesheetsQuery(t *testing.T) {
	s := Timesheets{
		Period:    period.Week,
		StartDate: day("2024-05-15"),
		ProjectID: 3,
		ClientID:  2,
		StatusIDs: []int64{1, 3},
	}
	q, err := s.Query()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT t.Id AS Id, t.Date AS Date, t.StartTime AS StartTime, t.EndTime AS EndTime,"+
			" p.Name AS ProjectName, p.HourlyWage AS ProjectHourlyWage, s.ColorArgb AS ColorArgb"+
			" FROM Timesheets t LEFT JOIN Projects p ON t.ProjectId = p.Id LEFT JOIN Statuses s ON t.StatusId = s.Id"+
			" INNER JOIN Clients c ON p.ClientId = c.Id"+
			" WHERE t.Date BETWEEN ? AND ? AND t.ProjectId = ? AND p.ClientId = ? AND t.StatusId IN (?,?)"+
			" ORDER BY t.Date DESC",
		q.SQL())
	assert.Equal(t, []any{
		model.DateOf(day("2024-05-13")), model.DateOf(day("2024-05-19")),
		int64(3), int64(2), int64(1), int64(3),
	}, q.Args())
	assert.Equal(t, "Filters: Project | Client | Status", s.FilterNames())
}

func TestTimesheetsPeriodAllHasNoRange(t *testing.T) {
	q, err := Timesheets{Ascending: true}.Query()
	require.NoError(t, err)
	assert.NotContains(t, q.SQL(), "WHERE")
	assert.Contains(t, q.SQL(), "ORDER BY t.Date ASC")
	assert.Empty(t, Timesheets{Period: period.Month}.FilterNames())
}

func TestInvoiceTimesheetsQuery(t *testing.T) {
	explicit := InvoiceTimesheets{
		Period:     period.Month,
		StartDate:  day("2024-02-03"),
		EndDate:    day("2024-02-10"),
		ProjectIDs: []int64{4, 5},
	}
	q, err := explicit.Query()
	require.NoError(t, err)
	assert.Contains(t, q.SQL(), " WHERE t.Date BETWEEN ? AND ? AND t.ProjectId IN (?,?) ORDER BY t.Date DESC")
	assert.Equal(t, []any{
		model.DateOf(day("2024-02-03")), model.DateOf(day("2024-02-10")), int64(4), int64(5),
	}, q.Args())

	byPeriod := InvoiceTimesheets{Period: period.Month, StartDate: day("2024-02-03")}
	q, err = byPeriod.Query()
	require.NoError(t, err)
	assert.Equal(t, []any{model.DateOf(day("2024-02-01")), model.DateOf(day("2024-02-29"))}, q.Args())
	assert.Empty(t, byPeriod.FilterNames())
}

func TestInvoicesQuery(t *testing.T) {
	q, err := Invoices{}.Query()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT i.Id AS Id, i.Number AS Number, c.Name AS ClientName, i.IssueDate AS IssueDate, i.DueDate AS DueDate, s.ColorArgb AS ColorArgb"+
			" FROM Invoices i LEFT JOIN Clients c ON i.ClientId = c.Id LEFT JOIN Statuses s ON i.StatusId = s.Id"+
			" ORDER BY i.IssueDate DESC",
		q.SQL())

	s := Invoices{ClientID: 1, StatusIDs: []int64{2}, IssuedFrom: model.DateOf(day("2024-01-01"))}
	q, err = s.Query()
	require.NoError(t, err)
	assert.Contains(t, q.SQL(), " WHERE i.ClientId = ? AND i.StatusId IN (?) AND i.IssueDate >= ?")
	assert.Equal(t, "Filters: Client | Status | Issue Date", s.FilterNames())
}

func TestSelectMaxQuery(t *testing.T) {
	s := SelectMax{
		Column:    "Number",
		Start:     -3,
		DataType:  query.Integer,
		Increment: 1,
		Table:     "Invoices",
		Pattern:   "INV-2024-05%",
	}
	q, err := s.Query()
	require.NoError(t, err)
	assert.Equal(t, "SELECT MAX(CAST(SUBSTR(Number, -3) AS INTEGER) + 1) FROM Invoices WHERE Number LIKE ?", q.SQL())
	assert.Equal(t, []any{"INV-2024-05%"}, q.Args())

	s.Table = "Invoices; DROP TABLE Invoices"
	_, err = s.Query()
	assert.Error(t, err)
}

func TestDistinctTimeQuery(t *testing.T) {
	q, err := DistinctTime{Column: "Date", Table: "Timesheets", Format: "%Y"}.Query()
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT strftime('%Y', Date) AS Value FROM Timesheets ORDER BY Value ASC", q.SQL())

	_, err = DistinctTime{Column: "Date", Table: "Timesheets", Format: "%Y') --"}.Query()
	assert.Error(t, err)
}

func TestSpecsAgainstDatabase(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, db.MemoryPath, zap.NewNop())
	require.NoError(t, err)
	defer conn.Close()
	log := zap.NewNop()

	clients := repository.New[model.Client](conn, log)
	projects := repository.New[model.Project](conn, log)
	timesheets := repository.New[model.Timesheet](conn, log)
	invoices := repository.New[model.Invoice](conn, log)

	acme, err := clients.Add(ctx, model.Client{Name: "Acme", ContactPhone: model.Ptr("555-123-4567")})
	require.NoError(t, err)
	_, err = clients.Add(ctx, model.Client{Name: "Globex"})
	require.NoError(t, err)
	web, err := projects.Add(ctx, model.Project{Name: "Website", HourlyWage: 40, ClientID: &acme})
	require.NoError(t, err)
	_, err = projects.Add(ctx, model.Project{Name: "Orphan", HourlyWage: 12.5})
	require.NoError(t, err)

	for _, d := range []string{"2023-12-30", "2024-05-13", "2024-05-15"} {
		_, err := timesheets.Add(ctx, model.Timesheet{
			Date:      model.DateOf(day(d)),
			StartTime: model.Clock(9 * time.Hour),
			EndTime:   model.Clock(11*time.Hour + 30*time.Minute),
			ProjectID: &web,
			StatusID:  model.Ptr(db.StatusOpened),
		})
		require.NoError(t, err)
	}

	clientRows, err := repository.Select[model.ClientRow](ctx, clients, Clients{Name: "acm", ContactPhone: "123"})
	require.NoError(t, err)
	require.Len(t, clientRows, 1)
	assert.Equal(t, "Acme", clientRows[0].Name)

	projectRows, err := repository.Select[model.ProjectRow](ctx, projects, Projects{HourlyWage: model.Ptr(4.0)})
	require.NoError(t, err)
	require.Len(t, projectRows, 1)
	require.NotNil(t, projectRows[0].ClientName)
	assert.Equal(t, "Acme", *projectRows[0].ClientName)

	week := Timesheets{Period: period.Week, StartDate: day("2024-05-14"), ClientID: acme, StatusIDs: []int64{db.StatusOpened}}
	rows, err := repository.Select[model.TimesheetRow](ctx, timesheets, week)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-05-15", rows[0].Date.String())
	assert.InDelta(t, 100.0, rows[0].Total(), 1e-9)
	n, err := repository.Count(ctx, timesheets, week)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	years, err := repository.Select[string](ctx, timesheets, DistinctTime{Column: "Date", Table: "Timesheets", Format: "%Y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2023", "2024"}, years)

	for _, num := range []string{"INV-2024-05-001", "INV-2024-05-007", "INV-2024-06-010"} {
		_, err := invoices.Add(ctx, model.Invoice{
			Number:    num,
			IssueDate: model.DateOf(day("2024-05-20")),
			DueDate:   model.DateOf(day("2024-06-20")),
			ClientID:  &acme,
			StatusID:  model.Ptr(db.StatusOpened),
		})
		require.NoError(t, err)
	}
	next, err := repository.Scalar[int64](ctx, invoices, SelectMax{
		Column: "Number", Start: -3, DataType: query.Integer, Increment: 1, Table: "Invoices", Pattern: "INV-2024-05%",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 8, next)

	invoiceRows, err := repository.Select[model.InvoiceRow](ctx, invoices, Invoices{ClientID: acme})
	require.NoError(t, err)
	assert.Len(t, invoiceRows, 3)
}
