// Package invoice numbers invoices, keeps their timesheets' statuses in step
// and assembles the data an invoice document is rendered from.
package invoice

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atlekbai/timesheet/internal/db"
	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/query"
	"github.com/atlekbai/timesheet/internal/repository"
	"github.com/atlekbai/timesheet/internal/spec"
)

// Prefix starts every invoice number.
const Prefix = "INV"

// ProfileID is the id of the single issuer profile.
const ProfileID int64 = 1

// ErrIncomplete is returned by Load when the invoice has no client, projects
// or timesheets to render.
var ErrIncomplete = errors.New("invoice data incomplete")

type Service struct {
	conn       *sqlx.DB
	invoices   *repository.Repository[model.Invoice]
	clients    *repository.Repository[model.Client]
	projects   *repository.Repository[model.Project]
	timesheets *repository.Repository[model.Timesheet]
	profiles   *repository.Repository[model.Profile]
	log        *zap.Logger
}

func NewService(conn *sqlx.DB, log *zap.Logger) *Service {
	return &Service{
		conn:       conn,
		invoices:   repository.New[model.Invoice](conn, log),
		clients:    repository.New[model.Client](conn, log),
		projects:   repository.New[model.Project](conn, log),
		timesheets: repository.New[model.Timesheet](conn, log),
		profiles:   repository.New[model.Profile](conn, log),
		log:        log,
	}
}

// NumberPrefix returns "INV-YYYY-MM" for the month of t.
func NumberPrefix(t time.Time) string {
	return fmt.Sprintf("%s-%04d-%02d", Prefix, t.Year(), int(t.Month()))
}

// NextNumber returns the next free number for the month of now, as
// INV-YYYY-MM-NNN. The first invoice of a month is 001.
func (s *Service) NextNumber(ctx context.Context, now time.Time) (string, error) {
	prefix := NumberPrefix(now)
	seq, err := repository.Scalar[int64](ctx, s.invoices, spec.SelectMax{
		Column:    "Number",
		Start:     -3,
		DataType:  query.Integer,
		Increment: 1,
		Table:     s.invoices.TableName(),
		Pattern:   prefix + "%",
	})
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	if seq < 1 {
		seq = 1
	}
	return fmt.Sprintf("%s-%03d", prefix, seq), nil
}

// Draft returns a new unsaved invoice numbered for now, issued today and
// due in a month.
func (s *Service) Draft(ctx context.Context, now time.Time) (model.Invoice, error) {
	number, err := s.NextNumber(ctx, now)
	if err != nil {
		return model.Invoice{}, err
	}
	issued := model.DateOf(now)
	return model.Invoice{
		Number:    number,
		IssueDate: issued,
		DueDate:   model.DateOf(issued.AddDate(0, 1, 0)),
		StatusID:  model.Ptr(db.StatusInvoiced),
	}, nil
}

// Save validates and stores inv in one transaction and returns its id.
// Attached timesheets follow the invoice: they become Invoiced while the
// invoice is Invoiced or Paid, and Opened again when it is Voided. Timesheets
// dropped from an Invoiced or Paid invoice are reopened.
func (s *Service) Save(ctx context.Context, inv model.Invoice) (int64, error) {
	if err := inv.Validate(); err != nil {
		return 0, err
	}
	inv.ProjectIDs = model.NewIDList(inv.ProjectIDs...)
	inv.TimesheetIDs = model.NewIDList(inv.TimesheetIDs...)

	var id int64
	err := repository.WithTx(ctx, s.conn, func(tx *sqlx.Tx) error {
		invoices := s.invoices.With(tx)
		timesheets := s.timesheets.With(tx)

		var detached []int64
		if inv.ID != 0 {
			prev, err := invoices.Find(ctx, inv.ID)
			if err != nil {
				return err
			}
			if billed(prev.StatusID) {
				detached = slices.DeleteFunc(slices.Clone(prev.TimesheetIDs), inv.TimesheetIDs.Contains)
			}
		}

		var err error
		id, err = invoices.Save(ctx, inv)
		if err != nil {
			return err
		}
		if _, err := timesheets.SetColumn(ctx, detached, "StatusId", db.StatusOpened); err != nil {
			return err
		}
		status, ok := timesheetStatus(inv.StatusID)
		if !ok {
			return nil
		}
		_, err = timesheets.SetColumn(ctx, inv.TimesheetIDs, "StatusId", status)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("save invoice %s: %w", inv.Number, err)
	}
	s.log.Info("invoice saved", zap.Int64("id", id), zap.String("number", inv.Number))
	return id, nil
}

// billed reports whether an invoice in this status holds its timesheets as Invoiced.
func billed(invoiceStatus *int64) bool {
	status, ok := timesheetStatus(invoiceStatus)
	return ok && status == db.StatusInvoiced
}

func timesheetStatus(invoiceStatus *int64) (int64, bool) {
	if invoiceStatus == nil {
		return 0, false
	}
	switch *invoiceStatus {
	case db.StatusInvoiced, db.StatusPaid:
		return db.StatusInvoiced, true
	case db.StatusVoided:
		return db.StatusOpened, true
	}
	return 0, false
}

// AttachTimesheets replaces the invoice's timesheet selection.
func (s *Service) AttachTimesheets(ctx context.Context, id int64, timesheetIDs []int64) error {
	inv, err := s.invoices.Find(ctx, id)
	if err != nil {
		return err
	}
	inv.TimesheetIDs = model.NewIDList(timesheetIDs...)
	_, err = s.Save(ctx, inv)
	return err
}

// Timesheets lists the timesheets of the invoice's projects that match f,
// checking the ones already attached.
func (s *Service) Timesheets(ctx context.Context, id int64, f spec.InvoiceTimesheets) ([]model.InvoiceTimesheetRow, error) {
	inv, err := s.invoices.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(inv.ProjectIDs) == 0 {
		return nil, nil
	}
	f.ProjectIDs = inv.ProjectIDs
	rows, err := repository.Select[model.InvoiceTimesheetRow](ctx, s.timesheets, f)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Checked = inv.TimesheetIDs.Contains(rows[i].ID)
	}
	return rows, nil
}

// Delete removes the invoice and reopens its timesheets when it was
// Invoiced or Paid.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := repository.WithTx(ctx, s.conn, func(tx *sqlx.Tx) error {
		invoices := s.invoices.With(tx)
		inv, err := invoices.Find(ctx, id)
		if err != nil {
			return err
		}
		if _, err := invoices.Delete(ctx, id); err != nil {
			return err
		}
		if !billed(inv.StatusID) {
			return nil
		}
		_, err = s.timesheets.With(tx).SetColumn(ctx, inv.TimesheetIDs, "StatusId", db.StatusOpened)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete invoice %d: %w", id, err)
	}
	s.log.Info("invoice deleted", zap.Int64("id", id))
	return nil
}

// Load gathers everything needed to render the invoice. Client, projects and
// timesheets are required; a missing profile yields an empty one.
func (s *Service) Load(ctx context.Context, id int64) (*Data, error) {
	inv, err := s.invoices.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.ClientID == nil || len(inv.ProjectIDs) == 0 || len(inv.TimesheetIDs) == 0 {
		return nil, fmt.Errorf("invoice %s: %w", inv.Number, ErrIncomplete)
	}

	data := &Data{Invoice: inv}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := s.clients.Find(gctx, *inv.ClientID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("invoice %s client: %w", inv.Number, ErrIncomplete)
		}
		data.Client = c
		return err
	})
	g.Go(func() error {
		var err error
		data.Projects, err = s.projects.FindAll(gctx, inv.ProjectIDs)
		return err
	})
	g.Go(func() error {
		var err error
		data.Timesheets, err = s.timesheets.FindAll(gctx, inv.TimesheetIDs)
		return err
	})
	g.Go(func() error {
		p, err := s.profiles.Find(gctx, ProfileID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		data.Profile = p
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(data.Projects) == 0 || len(data.Timesheets) == 0 {
		return nil, fmt.Errorf("invoice %s: %w", inv.Number, ErrIncomplete)
	}
	return data, nil
}

// Data is an invoice with its related rows.
type Data struct {
	Invoice    model.Invoice
	Client     model.Client
	Projects   []model.Project
	Timesheets []model.Timesheet
	Profile    model.Profile
}

// FileName is the document name, "<Number>.pdf".
func (d *Data) FileName() string {
	return d.Invoice.Number + ".pdf"
}

// Line is one billed timesheet.
type Line struct {
	Timesheet model.Timesheet
	Hours     float64
	Total     float64
}

// Section groups the lines of one project.
type Section struct {
	Project model.Project
	Lines   []Line
	Hours   float64
	Total   float64
}

// Sections groups timesheets per project in project order, sorted by date
// and start time. Projects without timesheets are skipped.
func (d *Data) Sections() []Section {
	byProject := make(map[int64][]model.Timesheet)
	for _, t := range d.Timesheets {
		if t.ProjectID != nil {
			byProject[*t.ProjectID] = append(byProject[*t.ProjectID], t)
		}
	}

	var out []Section
	for _, p := range d.Projects {
		ts := byProject[p.ID]
		if len(ts) == 0 {
			continue
		}
		slices.SortFunc(ts, func(a, b model.Timesheet) int {
			if c := a.Date.Compare(b.Date.Time); c != 0 {
				return c
			}
			return cmp.Compare(a.StartTime, b.StartTime)
		})
		sec := Section{Project: p, Lines: make([]Line, len(ts))}
		for i, t := range ts {
			l := Line{Timesheet: t, Hours: t.Hours(), Total: t.Total(p.HourlyWage)}
			sec.Lines[i] = l
			sec.Hours += l.Hours
			sec.Total += l.Total
		}
		out = append(out, sec)
	}
	return out
}

// GrandTotal sums every section.
func (d *Data) GrandTotal() float64 {
	var total float64
	for _, s := range d.Sections() {
		total += s.Total
	}
	return total
}
