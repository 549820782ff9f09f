package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/timesheet/internal/invoice"
	"github.com/atlekbai/timesheet/internal/model"
)

func sampleData(t *testing.T, timesheets int) *invoice.Data {
	t.Helper()
	issue, err := model.ParseDate("2024-05-31")
	require.NoError(t, err)

	projectID := int64(1)
	d := &invoice.Data{
		Invoice: model.Invoice{
			ID:        1,
			Number:    "INV-2024-05-001",
			IssueDate: issue,
			DueDate:   model.DateOf(issue.AddDate(0, 1, 0)),
			Comments:  model.Ptr("Thank you for your business. Payment within 30 days."),
		},
		Client: model.Client{Name: "Café Acme", ContactName: model.Ptr("Wile E. Coyote")},
		Projects: []model.Project{
			{ID: projectID, Name: "Website", HourlyWage: 1250},
			{ID: 2, Name: "Unused", HourlyWage: 10},
		},
		Profile: model.Profile{
			FirstName: "Ada", LastName: "Lovelace",
			Phone: "555-123-4567", Email: "ada@example.com",
			City: model.Ptr("Toronto"), Province: model.Ptr("ON"),
		},
	}
	for i := range timesheets {
		d.Timesheets = append(d.Timesheets, model.Timesheet{
			ID:        int64(i + 1),
			Date:      model.DateOf(issue.AddDate(0, 0, -i)),
			StartTime: model.Clock(9 * time.Hour),
			EndTime:   model.Clock(10*time.Hour + 30*time.Minute),
			Note:      model.Ptr("Implementation work on a rather long description that will not fit"),
			ProjectID: &projectID,
		})
	}
	return d
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		for y := range 4 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$40.00", Money(40))
	assert.Equal(t, "$1,875.50", Money(1875.5))
}

func TestRender(t *testing.T) {
	b, err := Bytes(sampleData(t, 3))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
	assert.Contains(t, string(b[len(b)-10:]), "%%EOF")
}

func TestRenderWithImageAndManyPages(t *testing.T) {
	d := sampleData(t, 80)
	d.Profile.Image = pngBytes(t)
	d.Invoice.Comments = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, d))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestUnknownImageIsSkipped(t *testing.T) {
	d := sampleData(t, 1)
	d.Profile.Image = []byte("not an image")
	_, err := Bytes(d)
	assert.NoError(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, sampleData(t, 2))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "INV-2024-05-001.pdf"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestImageType(t *testing.T) {
	assert.Equal(t, "PNG", imageType(pngBytes(t)))
	assert.Empty(t, imageType([]byte("plain text")))
}
