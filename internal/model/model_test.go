package model

import (
	"encoding/json"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-05-15"))
	assert.Equal(t, "2024-05-15", d.String())

	require.NoError(t, d.Scan([]byte("2024-06-01T00:00:00Z")))
	assert.Equal(t, "2024-06-01", d.String())

	require.NoError(t, d.Scan(time.Date(2024, time.July, 2, 13, 0, 0, 0, time.UTC)))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-07-02", v)

	assert.Error(t, d.Scan(42))
}

func TestDateJSON(t *testing.T) {
	d := DateOf(time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-09"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))
}

func TestClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, ClockOf(9, 30, 0), c)
	assert.Equal(t, "09:30:00", c.String())

	var s Clock
	require.NoError(t, s.Scan("17:45:10.0000000"))
	assert.Equal(t, ClockOf(17, 45, 10), s)
	assert.Equal(t, 8*time.Hour+15*time.Minute+10*time.Second, s.Sub(c))
}

func TestIDList(t *testing.T) {
	l := NewIDList(3, 1, 3, 2)
	assert.Equal(t, IDList{1, 2, 3}, l)
	assert.True(t, l.Contains(2))
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, l.Any())

	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", v)

	var back IDList
	require.NoError(t, back.Scan("[5,4]"))
	assert.Equal(t, IDList{4, 5}, back)

	require.NoError(t, back.Scan(nil))
	assert.Nil(t, back)

	assert.Error(t, back.Scan("not json"))
}

func TestTimesheetBilling(t *testing.T) {
	ts := Timesheet{StartTime: ClockOf(9, 0, 0), EndTime: ClockOf(11, 30, 0)}
	assert.InDelta(t, 2.5, ts.Hours(), 1e-9)
	assert.InDelta(t, 125.0, ts.Total(50), 1e-9)

	row := TimesheetRow{StartTime: ClockOf(9, 0, 0), EndTime: ClockOf(10, 0, 0)}
	assert.Zero(t, row.Total())
	row.ProjectHourlyWage = Ptr(40.0)
	assert.InDelta(t, 40.0, row.Total(), 1e-9)
}

func TestTimesheetValidate(t *testing.T) {
	ts := Timesheet{
		Date:      DateOf(time.Now()),
		StartTime: ClockOf(10, 0, 0),
		EndTime:   ClockOf(9, 0, 0),
	}
	err := ts.Validate()
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "end_time")
	assert.Contains(t, errs, "project_id")
	assert.Contains(t, errs, "status_id")
	assert.NotContains(t, errs, "date")

	ts.EndTime = ts.StartTime
	ts.ProjectID = Ptr(int64(1))
	ts.StatusID = Ptr(int64(1))
	assert.NoError(t, ts.Validate())
}

func TestClientValidate(t *testing.T) {
	c := Client{Name: "Acme", ContactPhone: Ptr("555-123-4567"), ContactEmail: Ptr("ops@acme.io")}
	assert.NoError(t, c.Validate())

	c.ContactEmail = Ptr("ops@")
	assert.ErrorContains(t, c.Validate(), "contact_email: Invalid email")
}

func TestNormalizeFormatsContactPhone(t *testing.T) {
	c := Client{Name: "Acme", ContactPhone: Ptr("(555) 123 4567")}
	require.Error(t, c.Validate())
	c.Normalize()
	assert.Equal(t, "555-123-4567", *c.ContactPhone)
	assert.NoError(t, c.Validate())

	var empty Client
	empty.Normalize()
	assert.Nil(t, empty.ContactPhone)
}

func TestProfileFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Profile{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", Profile{FirstName: "Ada"}.FullName())
}
