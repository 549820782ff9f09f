package service

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/atlekbai/timesheet/internal/invoice"
	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/repository"
	"github.com/atlekbai/timesheet/internal/spec"
)

// Invalidator drops documents derived from stored records. Invalidate drops
// those of one invoice, Purge drops them all.
type Invalidator interface {
	Invalidate(id int64)
	Purge()
}

type InvoiceService struct {
	crud[model.Invoice, model.InvoiceRow, spec.Invoices]
	invoices *invoice.Service
	derived  Invalidator
	now      func() time.Time
}

func NewInvoiceService(conn *sqlx.DB, invoices *invoice.Service, derived Invalidator, log *zap.Logger) *InvoiceService {
	return &InvoiceService{
		crud: crud[model.Invoice, model.InvoiceRow, spec.Invoices]{
			repo: repository.New[model.Invoice](conn, log),
			log:  log,
		},
		invoices: invoices,
		derived:  derived,
		now:      time.Now,
	}
}

func (s *InvoiceService) RegisterHandler(interceptors ...connect.Interceptor) (string, http.Handler) {
	r := newRoutes("InvoiceService", interceptors)
	handle(r, "List", s.List)
	handle(r, "Get", s.Get)
	handle(r, "Save", s.Save)
	handle(r, "Delete", s.Delete)
	handle(r, "NextNumber", s.NextNumber)
	handle(r, "Draft", s.Draft)
	handle(r, "Timesheets", s.Timesheets)
	handle(r, "AttachTimesheets", s.AttachTimesheets)
	return r.handler()
}

func (s *InvoiceService) Save(ctx context.Context, req *connect.Request[SaveRequest[model.Invoice]]) (*connect.Response[SaveResponse], error) {
	id, err := s.invoices.Save(ctx, req.Msg.Record)
	if err != nil {
		return nil, connectError(err)
	}
	s.derived.Invalidate(id)
	return connect.NewResponse(&SaveResponse{ID: id}), nil
}

func (s *InvoiceService) Delete(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error) {
	if err := s.invoices.Delete(ctx, req.Msg.ID); err != nil {
		return nil, connectError(err)
	}
	s.derived.Invalidate(req.Msg.ID)
	return connect.NewResponse(&DeleteResponse{Deleted: true}), nil
}

type NextNumberRequest struct {
	// Date selects the month; today when empty.
	Date model.Date `json:"date,omitzero"`
}

type NextNumberResponse struct {
	Number string `json:"number"`
}

func (s *InvoiceService) day(d model.Date) time.Time {
	if d.IsZero() {
		return s.now().UTC()
	}
	return d.Time
}

func (s *InvoiceService) NextNumber(ctx context.Context, req *connect.Request[NextNumberRequest]) (*connect.Response[NextNumberResponse], error) {
	n, err := s.invoices.NextNumber(ctx, s.day(req.Msg.Date))
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&NextNumberResponse{Number: n}), nil
}

type DraftRequest struct {
	Date model.Date `json:"date,omitzero"`
}

// Draft returns an unsaved invoice with its number and dates filled in.
func (s *InvoiceService) Draft(ctx context.Context, req *connect.Request[DraftRequest]) (*connect.Response[model.Invoice], error) {
	inv, err := s.invoices.Draft(ctx, s.day(req.Msg.Date))
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&inv), nil
}

type InvoiceTimesheetsRequest struct {
	ID     int64                  `json:"id"`
	Filter spec.InvoiceTimesheets `json:"filter"`
}

func (r InvoiceTimesheetsRequest) Validate() error { return requireID(r.ID) }

func (s *InvoiceService) Timesheets(ctx context.Context, req *connect.Request[InvoiceTimesheetsRequest]) (*connect.Response[ListResponse[model.InvoiceTimesheetRow]], error) {
	rows, err := s.invoices.Timesheets(ctx, req.Msg.ID, req.Msg.Filter)
	if err != nil {
		return nil, connectError(err)
	}
	if rows == nil {
		rows = []model.InvoiceTimesheetRow{}
	}
	return connect.NewResponse(&ListResponse[model.InvoiceTimesheetRow]{
		Results:    rows,
		TotalCount: int64(len(rows)),
	}), nil
}

type AttachTimesheetsRequest struct {
	ID           int64   `json:"id"`
	TimesheetIDs []int64 `json:"timesheet_ids"`
}

func (r AttachTimesheetsRequest) Validate() error { return requireID(r.ID) }

func (s *InvoiceService) AttachTimesheets(ctx context.Context, req *connect.Request[AttachTimesheetsRequest]) (*connect.Response[SaveResponse], error) {
	if err := s.invoices.AttachTimesheets(ctx, req.Msg.ID, req.Msg.TimesheetIDs); err != nil {
		return nil, connectError(err)
	}
	s.derived.Invalidate(req.Msg.ID)
	return connect.NewResponse(&SaveResponse{ID: req.Msg.ID}), nil
}
